package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the identity document managed by the external users service. This
// service only ever reads the compact projection for display population.
type User struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	Picture  string             `json:"picture,omitempty" bson:"picture,omitempty"`
	Password string             `json:"-" bson:"password"`
	Role     string             `json:"role" bson:"role"`
}

// UserCompact is the restricted author projection embedded in populated
// posts. Credential material never leaves the users collection.
type UserCompact struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Picture  string             `json:"picture,omitempty" bson:"picture,omitempty"`
}

// ToCompact strips a user down to its display projection.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID,
		Username: u.Username,
		Picture:  u.Picture,
	}
}
