package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDescription is set on every account at signup.
const DefaultDescription = "No description yet."

type User struct {
	Id          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username    string               `json:"username" bson:"username"`
	Password    string               `json:"-" bson:"password"`
	Description string               `json:"description" bson:"description"`
	Image       string               `json:"image" bson:"image"`
	Posts       []primitive.ObjectID `json:"posts" bson:"posts"`
}

// NewUser builds a user ready to be inserted, with a fresh id and no posts.
func NewUser(username, passwordHash, image string) *User {
	return &User{
		Id:          primitive.NewObjectID(),
		Username:    username,
		Password:    passwordHash,
		Description: DefaultDescription,
		Image:       image,
		Posts:       []primitive.ObjectID{},
	}
}
