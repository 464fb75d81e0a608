package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/middleware"
	"github.com/natthaphonr/account-service/internal/model"
	"github.com/natthaphonr/account-service/internal/payload"
	"github.com/natthaphonr/account-service/internal/usecase"
	"github.com/natthaphonr/account-service/internal/validate"
)

const maxSignupFormMemory = 10 << 20 // 10 MiB, profile images are stored inline

// AuthHandler serves signup, verification, login and password reset.
type AuthHandler struct {
	authUsecase  usecase.AuthUsecase
	resetUsecase usecase.PasswordResetUsecase
	validator    *validate.Validator
	logger       *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		resetUsecase: resetUsecase,
		validator:    validator,
		logger:       logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSignupFormMemory); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	age, err := strconv.Atoi(r.FormValue("age"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Age must be a number")
		return
	}

	req := payload.SignupRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Age:      age,
		Role:     r.FormValue("role"),
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("profilePic")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Profile picture is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to read profile picture")
		return
	}

	_, err = h.authUsecase.Signup(r.Context(), usecase.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Role:     req.Role,
		ProfilePic: &model.ProfilePic{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		},
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, "User already exists")
			return
		}

		h.logger.Error().Err(err).Msg("failed to sign up user")
		respondMessage(w, http.StatusInternalServerError, "Error signing up")
		return
	}

	respondMessage(w, http.StatusOK, "User registered! Please verify your email.")
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	err := h.authUsecase.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			respondMessage(w, http.StatusBadRequest, "Invalid or expired verification token")
			return
		}

		h.logger.Error().Err(err).Msg("failed to verify email")
		respondMessage(w, http.StatusInternalServerError, "Error verifying email")
		return
	}

	respondMessage(w, http.StatusOK, "Email verified successfully! You can now log in.")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authUsecase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondMessage(w, http.StatusBadRequest, "Invalid email or password")
		case errors.Is(err, usecase.ErrUserNotVerified):
			respondMessage(w, http.StatusBadRequest, "Please verify your email before logging in.")
		default:
			h.logger.Error().Err(err).Msg("failed to log in user")
			respondMessage(w, http.StatusInternalServerError, "Error logging in")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.resetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			respondMessage(w, http.StatusBadRequest, "User with this email does not exist.")
			return
		}

		h.logger.Error().Err(err).Msg("failed to request password reset")
		respondMessage(w, http.StatusInternalServerError, "Error sending reset email")
		return
	}

	respondMessage(w, http.StatusOK, "Password reset email sent!")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.resetUsecase.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			respondMessage(w, http.StatusBadRequest, "Invalid or expired token.")
			return
		}

		h.logger.Error().Err(err).Msg("failed to reset password")
		respondMessage(w, http.StatusInternalServerError, "Error resetting password")
		return
	}

	respondMessage(w, http.StatusOK, "Password reset successful! You can now log in.")
}

// Protected is the sample authenticated endpoint; it requires a valid session
// token but no particular role.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Access Denied. No token provided.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "You accessed a protected route!",
		"user": map[string]string{
			"id":   claims.UserID,
			"role": claims.Role,
		},
	})
}

// Admin is the sample role-restricted endpoint.
func (h *AuthHandler) Admin(w http.ResponseWriter, _ *http.Request) {
	respondMessage(w, http.StatusOK, "Welcome, Admin! You have full access.")
}
