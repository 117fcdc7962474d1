package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the format of creationDate and commentDate.
const DateLayout = "02.01.2006 15:04"

type Post struct {
	Id             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title          string               `json:"title" bson:"title"`
	Content        string               `json:"content" bson:"content"`
	CreatorId      primitive.ObjectID   `json:"creatorId" bson:"creatorId"`
	CreatorName    string               `json:"creatorName" bson:"creatorName"`
	CreatorImage   string               `json:"creatorImage" bson:"creatorImage"`
	CreationDate   string               `json:"creationDate" bson:"creationDate"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	Edited         bool                 `json:"edited" bson:"edited"`
	LikesCount     int                  `json:"likesCount" bson:"likesCount"`
	LikedBy        []primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	Comments       []Comment            `json:"comments" bson:"comments"`
	CommentsCount  int                  `json:"commentsCount" bson:"commentsCount"`
	IsPostReported bool                 `json:"isPostReported" bson:"isPostReported"`
}

type Comment struct {
	Id                 primitive.ObjectID `json:"id" bson:"_id"`
	CommentAuthorId    primitive.ObjectID `json:"commentAuthorId" bson:"commentAuthorId"`
	CommentAuthorName  string             `json:"commentAuthorName" bson:"commentAuthorName"`
	CommentAuthorImage string             `json:"commentAuthorImage" bson:"commentAuthorImage"`
	Content            string             `json:"content" bson:"content"`
	CommentDate        string             `json:"commentDate" bson:"commentDate"`
}

// FormatDate renders t the way posts and comments display it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NewPost snapshots the creator's name and image into a fresh post.
func NewPost(creator *User, title, content string, now time.Time) *Post {
	return &Post{
		Id:             primitive.NewObjectID(),
		Title:          title,
		Content:        content,
		CreatorId:      creator.Id,
		CreatorName:    creator.Username,
		CreatorImage:   creator.Image,
		CreationDate:   FormatDate(now),
		CreatedAt:      now,
		Edited:         false,
		LikesCount:     0,
		LikedBy:        []primitive.ObjectID{},
		Comments:       []Comment{},
		CommentsCount:  0,
		IsPostReported: false,
	}
}

// NewComment snapshots the author's name and image into a fresh comment.
func NewComment(author *User, content string, now time.Time) Comment {
	return Comment{
		Id:                 primitive.NewObjectID(),
		CommentAuthorId:    author.Id,
		CommentAuthorName:  author.Username,
		CommentAuthorImage: author.Image,
		Content:            content,
		CommentDate:        FormatDate(now),
	}
}

// IsLikedBy reports whether userID is in likedBy.
func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].Id == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}
