package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User roles. There is no hierarchy; a role gates endpoints by exact match.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ProfilePic holds the raw bytes of a user's profile image together with the
// content type it was uploaded with.
type ProfilePic struct {
	Data        []byte `bson:"data"         json:"-"`
	ContentType string `bson:"content_type" json:"content_type"`
}

// User represents a persisted user account.
//
// PasswordHash always holds an argon2id-encoded digest, never plaintext.
// VerificationToken is present only while the account is unverified.
// ResetTokenHash holds the sha256 digest of the reset token that was emailed;
// the plaintext reset token is never persisted.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name"          json:"name"`
	Email        string        `bson:"email"         json:"email"`
	Age          int           `bson:"age"           json:"age"`
	Role         string        `bson:"role"          json:"role"`
	PasswordHash string        `bson:"password_hash" json:"-"`

	Verified                   bool      `bson:"verified"                                 json:"verified"`
	VerificationToken          string    `bson:"verification_token,omitempty"             json:"-"`
	VerificationTokenExpiresAt time.Time `bson:"verification_token_expires_at,omitempty"  json:"-"`

	ResetTokenHash      string    `bson:"reset_token_hash,omitempty"       json:"-"`
	ResetTokenExpiresAt time.Time `bson:"reset_token_expires_at,omitempty" json:"-"`

	ProfilePic *ProfilePic `bson:"profile_pic,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
