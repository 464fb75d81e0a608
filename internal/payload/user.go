package payload

import "github.com/natthaphonr/account-service/internal/model"

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age"      validate:"gte=0"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Age      *int    `json:"age"      validate:"omitempty,gte=0"`
	Role     *string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
