package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/natthaphonr/account-service/internal/model"
)

// Storage errors. The Mongo implementation translates driver errors into
// these so the usecases never see driver types.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidID      = errors.New("invalid user id")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByVerificationToken looks a user up by its pending verification token.
	GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error)
	// GetUserByResetTokenDigest looks a user up by the stored reset token digest,
	// constrained to records whose reset expiry is after now.
	GetUserByResetTokenDigest(ctx context.Context, digest string, now time.Time) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated. The Clear flags remove
// token state so that consumed tokens cannot linger on the record.
type UpdateUserParams struct {
	Name         *string
	Email        *string
	Age          *int
	Role         *string
	PasswordHash *string
	Verified     *bool

	VerificationToken          *string
	VerificationTokenExpiresAt *time.Time
	ResetTokenHash             *string
	ResetTokenExpiresAt        *time.Time

	ClearVerificationToken bool
	ClearResetToken        bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the Mongo-backed user repository and ensures
// the unique email index. The index is the real duplicate-email guarantee;
// the signup-time existence check can race with a concurrent insert.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "verification_token", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "reset_token_hash", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}

		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"verification_token": token})
}

func (r *userMongoRepository) GetUserByResetTokenDigest(
	ctx context.Context,
	digest string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"reset_token_hash":       digest,
		"reset_token_expires_at": bson.M{"$gt": now},
	})
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	setMap := bson.M{}
	if params.Name != nil {
		setMap["name"] = *params.Name
	}
	if params.Email != nil {
		setMap["email"] = *params.Email
	}
	if params.Age != nil {
		setMap["age"] = *params.Age
	}
	if params.Role != nil {
		setMap["role"] = *params.Role
	}
	if params.PasswordHash != nil {
		setMap["password_hash"] = *params.PasswordHash
	}
	if params.Verified != nil {
		setMap["verified"] = *params.Verified
	}
	if params.VerificationToken != nil {
		setMap["verification_token"] = *params.VerificationToken
	}
	if params.VerificationTokenExpiresAt != nil {
		setMap["verification_token_expires_at"] = *params.VerificationTokenExpiresAt
	}
	if params.ResetTokenHash != nil {
		setMap["reset_token_hash"] = *params.ResetTokenHash
	}
	if params.ResetTokenExpiresAt != nil {
		setMap["reset_token_expires_at"] = *params.ResetTokenExpiresAt
	}

	unsetMap := bson.M{}
	if params.ClearVerificationToken {
		unsetMap["verification_token"] = ""
		unsetMap["verification_token_expires_at"] = ""
	}
	if params.ClearResetToken {
		unsetMap["reset_token_hash"] = ""
		unsetMap["reset_token_expires_at"] = ""
	}

	if len(setMap) == 0 && len(unsetMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	setMap["updated_at"] = time.Now()

	update := bson.M{"$set": setMap}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(result.Err()) {
			return nil, ErrDuplicateEmail
		}

		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	result := r.db.Collection(userCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
