package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/auth"
	"github.com/natthaphonr/account-service/internal/config"
	"github.com/natthaphonr/account-service/internal/model"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/security"
)

// AuthUsecase defines the account lifecycle: signup, email verification
// and login.
type AuthUsecase interface {
	Signup(ctx context.Context, params SignupParams) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// SignupParams defines the parameters for user signup.
type SignupParams struct {
	Name       string
	Email      string
	Password   string
	Age        int
	Role       string
	ProfilePic *model.ProfilePic
}

var (
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotVerified    = errors.New("email not verified")
	// ErrInvalidToken covers missing, consumed and expired one-time tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	mailer   Mailer
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewAuthUsecase creates a new AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *authUsecase) Signup(ctx context.Context, params SignupParams) (*model.User, error) {
	// Privilege cannot be self-escalated: a requested admin role is silently
	// downgraded.
	role := params.Role
	if role == "" || role == model.RoleAdmin {
		role = model.RoleUser
	}

	// The existence check can race with a concurrent signup for the same
	// email; the unique index makes the losing insert fail with a duplicate
	// key error, which maps to the same result.
	if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	verificationToken, err := security.NewOneTimeToken()
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:                       params.Name,
		Email:                      params.Email,
		Age:                        params.Age,
		Role:                       role,
		PasswordHash:               passwordHash.String(),
		Verified:                   false,
		VerificationToken:          verificationToken.String(),
		VerificationTokenExpiresAt: time.Now().Add(u.cfg.Token.VerificationTokenExpiresIn),
		ProfilePic:                 params.ProfilePic,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	verifyLink := fmt.Sprintf("%s/auth/verify/%s", u.cfg.AppBaseURL, verificationToken)
	htmlBody := fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email.</p>`, verifyLink)
	sendAsync(u.logger, u.mailer, u.cfg.MailSendTimeout, []string{user.Email}, "Email Verification", htmlBody)

	return user, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	user, err := u.userRepo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// "never existed" and "already used" look the same to the caller.
			return ErrInvalidToken
		}

		return err
	}

	if !user.VerificationTokenExpiresAt.IsZero() && time.Now().After(user.VerificationTokenExpiresAt) {
		return ErrInvalidToken
	}

	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified:               &verified,
		ClearVerificationToken: true,
	}); err != nil {
		return err
	}

	return nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if !user.Verified {
		return "", ErrUserNotVerified
	}

	passwordHash, err := security.ParsePasswordHash(user.PasswordHash)
	if err != nil {
		return "", err
	}

	if ok, err := passwordHash.Verify(password); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.jwtAuth.GenerateSessionToken(user.ID.Hex(), user.Role)
}
