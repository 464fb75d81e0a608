package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/config"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/security"
)

// PasswordResetUsecase defines the forgot-password / reset-password flow.
type PasswordResetUsecase interface {
	// RequestPasswordReset issues a reset token for the account with the given
	// email, persists its digest with an expiry and emails the plaintext link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets a new password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewPasswordResetUsecase creates a new PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	mailer Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	resetToken, err := security.NewOneTimeToken()
	if err != nil {
		return err
	}

	// Only the digest is persisted; the plaintext token exists solely in the
	// email link.
	digest := resetToken.Digest()
	expiresAt := time.Now().Add(u.cfg.Token.PasswordResetTokenExpiresIn)
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ResetTokenHash:      &digest,
		ResetTokenExpiresAt: &expiresAt,
	}); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password/%s", u.cfg.AppBaseURL, resetToken)
	htmlBody := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p>`, resetLink)
	sendAsync(u.logger, u.mailer, u.cfg.MailSendTimeout, []string{user.Email}, "Password Reset", htmlBody)

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := u.userRepo.GetUserByResetTokenDigest(ctx, security.HashToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Missing, consumed and expired tokens are indistinguishable.
			return ErrInvalidToken
		}

		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	hash := passwordHash.String()
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash:    &hash,
		ClearResetToken: true,
	}); err != nil {
		return err
	}

	return nil
}
