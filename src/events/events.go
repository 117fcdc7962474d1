// Package events publishes domain events after committed mutations.
// Delivery is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostDeleted = "post.deleted"
	SubjectUserDeleted = "user.deleted"
)

type Publisher interface {
	PostCreated(ctx context.Context, post *models.Post) error
	PostDeleted(ctx context.Context, postID, creatorID string) error
	UserDeleted(ctx context.Context, userID string, deletedPosts int64) error
}

type PostCreatedEvent struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	CreatorName string    `json:"creator_name"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	ID        string `json:"id"`
	CreatorID string `json:"creator_id"`
}

type UserDeletedEvent struct {
	ID           string `json:"id"`
	DeletedPosts int64  `json:"deleted_posts"`
}

// msgPublisher is the part of *nats.Conn used here.
type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

type NatsPublisher struct {
	nc msgPublisher
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// Connect dials the NATS server with the service name attached.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("socnet-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

func (p *NatsPublisher) PostCreated(ctx context.Context, post *models.Post) error {
	return p.publish(SubjectPostCreated, PostCreatedEvent{
		ID:          post.Id.Hex(),
		CreatorID:   post.CreatorId.Hex(),
		CreatorName: post.CreatorName,
		Title:       post.Title,
		CreatedAt:   post.CreatedAt,
	})
}

func (p *NatsPublisher) PostDeleted(ctx context.Context, postID, creatorID string) error {
	return p.publish(SubjectPostDeleted, PostDeletedEvent{ID: postID, CreatorID: creatorID})
}

func (p *NatsPublisher) UserDeleted(ctx context.Context, userID string, deletedPosts int64) error {
	return p.publish(SubjectUserDeleted, UserDeletedEvent{ID: userID, DeletedPosts: deletedPosts})
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Content-Type", "application/json")
	return p.nc.PublishMsg(msg)
}

// Noop is used when no NATS url is configured.
type Noop struct{}

func (Noop) PostCreated(context.Context, *models.Post) error { return nil }

func (Noop) PostDeleted(context.Context, string, string) error { return nil }

func (Noop) UserDeleted(context.Context, string, int64) error { return nil }
