package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/payload"
	"github.com/natthaphonr/account-service/internal/usecase"
	"github.com/natthaphonr/account-service/internal/validate"
)

// UserHandler serves the user CRUD endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validate.Validator
	logger      *zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUsecase usecase.UserUsecase, validator *validate.Validator, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userUsecase.CreateUser(r.Context(), usecase.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, "User already exists")
			return
		}

		h.logger.Error().Err(err).Msg("failed to create user")
		respondMessage(w, http.StatusBadRequest, "Error creating user")
		return
	}

	respondJSON(w, http.StatusCreated, payload.UserResponse{
		Message: "User created successfully",
		User:    user,
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		respondMessage(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondUserError(w, err, "Error fetching user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), chi.URLParam(r, "id"), usecase.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, "User already exists")
			return
		}

		h.respondUserError(w, err, "Error updating user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondUserError(w, err, "Error deleting user")
		return
	}

	respondJSON(w, http.StatusOK, payload.UserResponse{
		Message: "User deleted successfully",
		User:    user,
	})
}

func (h *UserHandler) ProfilePic(w http.ResponseWriter, r *http.Request) {
	pic, err := h.userUsecase.GetProfilePic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrImageNotFound), errors.Is(err, usecase.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "Image not found")
		case errors.Is(err, usecase.ErrInvalidUserID):
			respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		default:
			h.logger.Error().Err(err).Msg("failed to fetch profile image")
			respondMessage(w, http.StatusInternalServerError, "Error fetching image")
		}
		return
	}

	w.Header().Set("Content-Type", pic.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pic.Data)
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidUserID):
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
	case errors.Is(err, usecase.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		respondMessage(w, http.StatusInternalServerError, fallback)
	}
}
