package repositories

import (
	"context"

	"github.com/shaynlink/y-posts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedRepository defines the interface for custom feed definitions.
type FeedRepository interface {
	CreateFeed(ctx context.Context, feed *models.Feed) error
	// GetFeedForUser looks up a feed by id AND owner. The ownership filter
	// keeps one user from reading another's custom feed.
	GetFeedForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Feed, error)
}

// MongoFeedRepository implements FeedRepository for MongoDB
type MongoFeedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedRepository creates a new MongoFeedRepository
func NewMongoFeedRepository(db *mongo.Database) *MongoFeedRepository {
	return &MongoFeedRepository{collection: db.Collection("feeds")}
}

// CreateFeed inserts a new feed definition, assigning its identifier.
func (r *MongoFeedRepository) CreateFeed(ctx context.Context, feed *models.Feed) error {
	feed.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, feed)
	return err
}

// GetFeedForUser retrieves a feed owned by the given user.
func (r *MongoFeedRepository) GetFeedForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Feed, error) {
	var feed models.Feed
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&feed)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFeedNotFound
		}
		return nil, err
	}
	return &feed, nil
}
