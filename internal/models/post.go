package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. A post carries
// content, a reference to another post (repost/reply), or both, never
// neither. Author, ref and timestamp are immutable after creation.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content,omitempty" bson:"content,omitempty"`
	Ref       *primitive.ObjectID  `json:"ref,omitempty" bson:"ref,omitempty"`
	Images    []string             `json:"images" bson:"images"`
	Timestamp time.Time            `json:"timestamp" bson:"timestamp"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
}

// MaxContentLength is the upper bound on post content.
const MaxContentLength = 255

// LikedBy reports whether userID already appears in the likes list.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PopulatedPost is a post decorated for responses: the author foreign key is
// replaced by its compact projection, and a carried reference is expanded one
// level deep.
type PopulatedPost struct {
	ID        primitive.ObjectID   `json:"id"`
	Author    UserCompact          `json:"user"`
	Content   string               `json:"content,omitempty"`
	Images    []string             `json:"images"`
	Timestamp time.Time            `json:"timestamp"`
	Likes     []primitive.ObjectID `json:"likes"`
	Ref       *PopulatedRef        `json:"ref,omitempty"`
}

// PopulatedRef is the one-level expansion of a referenced post. A ref of a
// ref is not expanded further.
type PopulatedRef struct {
	ID        primitive.ObjectID   `json:"id"`
	Author    UserCompact          `json:"user"`
	Content   string               `json:"content,omitempty"`
	Images    []string             `json:"images"`
	Timestamp time.Time            `json:"timestamp"`
	Likes     []primitive.ObjectID `json:"likes"`
}
