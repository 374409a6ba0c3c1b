package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Feed is a saved custom feed definition: the owning user and the explicit
// list of authors whose posts it aggregates. The source list is immutable
// once created; there is no update endpoint.
type Feed struct {
	ID      primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID  primitive.ObjectID   `json:"userId" bson:"userId"`
	FromIDs []primitive.ObjectID `json:"fromIds" bson:"fromIds"`
}

// CreateFeedRequest defines the request body for creating a custom feed.
type CreateFeedRequest struct {
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}
