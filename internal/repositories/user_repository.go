package repositories

import (
	"context"

	"github.com/shaynlink/y-posts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the read-only interface this service has onto the
// users collection. User lifecycle is owned by the external users service.
type UserRepository interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// GetCompactByIDs returns the restricted display projection for the
	// given users, keyed by id. Credentials are never projected.
	GetCompactByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error)
	CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetCompactByIDs fetches the {_id, username, picture} projection for a
// batch of users in one query.
func (r *MongoUserRepository) GetCompactByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	users := make(map[primitive.ObjectID]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	findOptions := options.Find().SetProjection(bson.M{"_id": 1, "username": 1, "picture": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var compacts []models.UserCompact
	if err = cursor.All(ctx, &compacts); err != nil {
		return nil, err
	}
	for _, u := range compacts {
		users[u.ID] = u
	}
	return users, nil
}

// CountByIDs counts how many of the given ids name an existing user.
func (r *MongoUserRepository) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}
