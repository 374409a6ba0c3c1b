package repositories

import (
	"context"

	"github.com/shaynlink/y-posts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowRepository reads follow edges. Edges are written by the external
// users service; the subscriptions feed only needs the outgoing targets.
type FollowRepository interface {
	GetFollowedIDs(ctx context.Context, source primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoFollowRepository implements FollowRepository for MongoDB
type MongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{collection: db.Collection("followinjunctions")}
}

// GetFollowedIDs returns the targets of every follow edge sourced by the
// given user.
func (r *MongoFollowRepository) GetFollowedIDs(ctx context.Context, source primitive.ObjectID) ([]primitive.ObjectID, error) {
	findOptions := options.Find().SetProjection(bson.M{"target": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"source": source}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.FollowInjunction
	if err = cursor.All(ctx, &edges); err != nil {
		return nil, err
	}

	targets := make([]primitive.ObjectID, len(edges))
	for i, edge := range edges {
		targets[i] = edge.Target
	}
	return targets, nil
}
