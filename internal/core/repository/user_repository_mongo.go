package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
)

// MongoUserRepository implements domain.UserRepository on a MongoDB
// collection. The original deployment of this service ran against MongoDB;
// this backend keeps that data usable unchanged.
type MongoUserRepository struct {
	users *mongodriver.Collection
}

// NewMongoUserRepository wraps the given users collection.
// EnsureIndexes must have been run against it beforehand.
func NewMongoUserRepository(users *mongodriver.Collection) *MongoUserRepository {
	return &MongoUserRepository{users: users}
}

// EnsureUserIndexes creates the unique email index the uniqueness invariant
// relies on. Without it concurrent duplicate registrations would both land.
func EnsureUserIndexes(ctx context.Context, users *mongodriver.Collection) error {
	_, err := users.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	})
	return err
}

// Create inserts a new user and assigns its ID.
// A duplicate-key error on email maps to domain.ErrEmailTaken.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return err
	}

	return nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// Update replaces the mutable fields of the stored record.
// A duplicate-key error on email maps to domain.ErrEmailTaken.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "password_hash", Value: user.PasswordHash},
		{Key: "updated_at", Value: user.UpdatedAt},
	}}}

	_, err := r.users.UpdateByID(ctx, user.ID, update)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var u domain.User
	err := r.users.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}
