package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natthaphonr/account-service/internal/auth"
	"github.com/natthaphonr/account-service/internal/config"
	"github.com/natthaphonr/account-service/internal/model"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/security"
)

type authFixture struct {
	usecase  AuthUsecase
	userRepo repository.UserRepository
	mailer   *fakeMailer
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
}

func newAuthFixture(cfg *config.Config) *authFixture {
	userRepo := repository.NewUserMemoryRepository()
	mailer := &fakeMailer{}
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.SessionSecret, cfg.Token.Issuer, cfg.Token.SessionExpiresIn)

	return &authFixture{
		usecase:  NewAuthUsecase(userRepo, jwtAuth, mailer, cfg, testLogger()),
		userRepo: userRepo,
		mailer:   mailer,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
	}
}

func signupParams(email string) SignupParams {
	return SignupParams{
		Name:     "Ana",
		Email:    email,
		Password: "secret1",
		Age:      30,
		ProfilePic: &model.ProfilePic{
			Data:        []byte{0x89, 0x50, 0x4e, 0x47},
			ContentType: "image/png",
		},
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(testConfig())

	user, err := f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.Verified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.False(t, user.VerificationTokenExpiresAt.IsZero())

	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$argon2"))

	hash, err := security.ParsePasswordHash(user.PasswordHash)
	require.NoError(t, err)
	ok, err := hash.Verify("secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	f.mailer.waitForEmail(t, 1)
	email := f.mailer.lastEmail(t)
	assert.Equal(t, []string{"a@x.com"}, email.to)
	assert.Contains(t, email.htmlBody, user.VerificationToken)
}

func TestSignupDowngradesAdminRole(t *testing.T) {
	f := newAuthFixture(testConfig())

	params := signupParams("a@x.com")
	params.Role = model.RoleAdmin

	user, err := f.usecase.Signup(t.Context(), params)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(testConfig())

	_, err := f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	require.NoError(t, err)

	_, err = f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(testConfig())

	user, err := f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	require.NoError(t, err)

	token := user.VerificationToken
	require.NoError(t, f.usecase.VerifyEmail(t.Context(), token))

	stored, err := f.userRepo.GetUser(t.Context(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Empty(t, stored.VerificationToken)

	// Consumed tokens cannot be reused.
	assert.ErrorIs(t, f.usecase.VerifyEmail(t.Context(), token), ErrInvalidToken)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	f := newAuthFixture(testConfig())

	err := f.usecase.VerifyEmail(t.Context(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Token.VerificationTokenExpiresIn = -time.Minute
	f := newAuthFixture(cfg)

	user, err := f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	require.NoError(t, err)

	err = f.usecase.VerifyEmail(t.Context(), user.VerificationToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(testConfig())

	user, err := f.usecase.Signup(t.Context(), signupParams("a@x.com"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		verify   bool
		email    string
		password string
		wantErr  error
	}{
		{name: "unknown email", email: "nobody@x.com", password: "secret1", wantErr: ErrInvalidCredentials},
		{name: "unverified", email: "a@x.com", password: "secret1", wantErr: ErrUserNotVerified},
		{name: "wrong password", verify: true, email: "a@x.com", password: "wrong-password", wantErr: ErrInvalidCredentials},
		{name: "success", verify: true, email: "a@x.com", password: "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.verify {
				stored, err := f.userRepo.GetUser(t.Context(), user.ID.Hex())
				require.NoError(t, err)
				if !stored.Verified {
					require.NoError(t, f.usecase.VerifyEmail(t.Context(), stored.VerificationToken))
				}
			}

			token, err := f.usecase.Login(t.Context(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			claims, err := f.jwtAuth.ValidateSessionToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID.Hex(), claims.UserID)
			assert.Equal(t, model.RoleUser, claims.Role)
		})
	}
}
