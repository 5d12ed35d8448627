package listingRepo

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

// ListingRepository is the read surface this core needs from listings: price,
// capacity, blocked ranges and host identity.
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Listing, error)
}

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo constructs a new instance of MongoListingRepo.
func NewMongoListingRepo() ListingRepository {
	return &MongoListingRepo{coll: database.DB().Collection("listings")}
}

// ErrNotFound is returned when no listing matches the lookup key.
var ErrNotFound = errors.New("listing not found")

// GetByID retrieves a listing by its ID.
func (repo *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching listing %s: %w", id, err)
	}
	return &listing, nil
}

// ListByHost returns all listings owned by the host.
func (repo *MongoListingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Listing, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"host_id": hostID})
	if err != nil {
		return nil, fmt.Errorf("error listing host listings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var listings []models.Listing
	if err := cursor.All(ctxWithTimeout, &listings); err != nil {
		return nil, fmt.Errorf("error decoding listings: %w", err)
	}
	return listings, nil
}
