package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/natthaphonr/account-service/internal/model"
)

// userMemoryRepository is an in-memory UserRepository used in tests.
// It mirrors the Mongo implementation's semantics, including the unique
// email constraint and token-field clearing.
type userMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewUserMemoryRepository creates an empty in-memory user repository.
func NewUserMemoryRepository() UserRepository {
	return &userMemoryRepository{users: make(map[string]*model.User)}
}

func (r *userMemoryRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, ErrDuplicateEmail
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user, nil
}

func (r *userMemoryRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *userMemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool { return u.Email == email })
}

func (r *userMemoryRepository) GetUserByVerificationToken(_ context.Context, token string) (*model.User, error) {
	return r.findOne(func(u *model.User) bool {
		return u.VerificationToken != "" && u.VerificationToken == token
	})
}

func (r *userMemoryRepository) GetUserByResetTokenDigest(
	_ context.Context,
	digest string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(func(u *model.User) bool {
		return u.ResetTokenHash != "" && u.ResetTokenHash == digest && u.ResetTokenExpiresAt.After(now)
	})
}

func (r *userMemoryRepository) findOne(match func(*model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}

	return nil, ErrUserNotFound
}

func (r *userMemoryRepository) UpdateUser(
	_ context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if params.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *params.Email {
				return nil, ErrDuplicateEmail
			}
		}
		user.Email = *params.Email
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Age != nil {
		user.Age = *params.Age
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Verified != nil {
		user.Verified = *params.Verified
	}
	if params.VerificationToken != nil {
		user.VerificationToken = *params.VerificationToken
	}
	if params.VerificationTokenExpiresAt != nil {
		user.VerificationTokenExpiresAt = *params.VerificationTokenExpiresAt
	}
	if params.ResetTokenHash != nil {
		user.ResetTokenHash = *params.ResetTokenHash
	}
	if params.ResetTokenExpiresAt != nil {
		user.ResetTokenExpiresAt = *params.ResetTokenExpiresAt
	}

	if params.ClearVerificationToken {
		user.VerificationToken = ""
		user.VerificationTokenExpiresAt = time.Time{}
	}
	if params.ClearResetToken {
		user.ResetTokenHash = ""
		user.ResetTokenExpiresAt = time.Time{}
	}

	user.UpdatedAt = time.Now()

	clone := *user
	return &clone, nil
}

func (r *userMemoryRepository) DeleteUser(_ context.Context, id string) (*model.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	delete(r.users, id)

	clone := *user
	return &clone, nil
}

func (r *userMemoryRepository) ListUsers(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	return users, nil
}
