package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banglabnb/database"
	"banglabnb/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository is the read surface this core needs from users, plus the
// in-app notification append used by the notification worker.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	AppendNotification(ctx context.Context, userID string, n models.Notification) error
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new instance of MongoUserRepo.
func NewMongoUserRepo() UserRepository {
	return &MongoUserRepo{coll: database.DB().Collection("users")}
}

// ErrNotFound is returned when no user matches the lookup key.
var ErrNotFound = errors.New("user not found")

// GetByID retrieves a user by its ID.
func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user %s: %w", id, err)
	}
	return &user, nil
}

// AppendNotification pushes an in-app notification onto the user document.
func (repo *MongoUserRepo) AppendNotification(ctx context.Context, userID string, n models.Notification) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": userID}
	update := bson.M{
		"$push": bson.M{"notifications": n},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error appending notification to user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
