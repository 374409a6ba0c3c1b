package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// FollowInjunction is a directed follow edge: source follows target. Edges
// are written by the external users service; this service only reads them to
// resolve the subscriptions feed.
type FollowInjunction struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Source primitive.ObjectID `json:"source" bson:"source"`
	Target primitive.ObjectID `json:"target" bson:"target"`
}
