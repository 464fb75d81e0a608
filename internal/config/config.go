package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR"      envDefault:":3000"`
	AppBaseURL    string `env:"APP_BASE_URL"   envDefault:"http://localhost:3000"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"accounts"`

	Token TokenConfig

	// MailSendTimeout bounds the asynchronous verification/reset email
	// dispatch; a slow SMTP server must not hold goroutines forever.
	MailSendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"10s"`
}

// TokenConfig holds signing and expiry settings for the three token kinds.
type TokenConfig struct {
	SessionSecret               string        `env:"SESSION_TOKEN_SECRET"`
	SessionExpiresIn            time.Duration `env:"SESSION_TOKEN_EXPIRES_IN"        envDefault:"1h"`
	Issuer                      string        `env:"TOKEN_ISSUER"                    envDefault:"account-service"`
	VerificationTokenExpiresIn  time.Duration `env:"VERIFICATION_TOKEN_EXPIRES_IN"   envDefault:"24h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// New loads the configuration from the environment.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that settings without a usable default are present.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.SessionSecret == "" {
		return fmt.Errorf("missing SESSION_TOKEN_SECRET environment variable")
	}

	return nil
}
