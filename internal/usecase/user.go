package usecase

import (
	"context"
	"errors"

	"github.com/natthaphonr/account-service/internal/model"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/security"
)

// UserUsecase defines user CRUD operations. Users created here skip the
// verification flow; they start unverified with no pending token.
type UserUsecase interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	GetProfilePic(ctx context.Context, id string) (*model.ProfilePic, error)
}

// CreateUserParams defines the parameters for direct user creation.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Age      int
	Role     string
}

// UpdateUserParams defines the optional parameters for updating a user.
// A non-nil Password goes through the credential store before persistence;
// leaving it nil keeps the stored hash untouched.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
	Role     *string
}

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrImageNotFound = errors.New("image not found")
)

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) CreateUser(ctx context.Context, params CreateUserParams) (*model.User, error) {
	role := params.Role
	if role == "" {
		role = model.RoleUser
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        params.Email,
		Age:          params.Age,
		Role:         role,
		PasswordHash: passwordHash.String(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return user, nil
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx)
}

func (u *userUsecase) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error) {
	repoParams := repository.UpdateUserParams{
		Name:  params.Name,
		Email: params.Email,
		Age:   params.Age,
		Role:  params.Role,
	}

	// Hashing happens only when the password actually changes; re-saving a
	// user without touching the password must not alter the stored hash.
	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}

		hash := passwordHash.String()
		repoParams.PasswordHash = &hash
	}

	user, err := u.userRepo.UpdateUser(ctx, id, repoParams)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}

		return nil, mapRepositoryError(err)
	}

	return user, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.DeleteUser(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return user, nil
}

func (u *userUsecase) GetProfilePic(ctx context.Context, id string) (*model.ProfilePic, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if user.ProfilePic == nil || len(user.ProfilePic.Data) == 0 {
		return nil, ErrImageNotFound
	}

	return user.ProfilePic, nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidUserID
	default:
		return err
	}
}
