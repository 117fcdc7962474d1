// Package mongostore implements the repository contracts on MongoDB.
package mongostore

import (
	"context"
	"fmt"

	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// Store is a repository.Store on one MongoDB database. Transactions need the
// server to run as a replica set.
type Store struct {
	db    *mongo.Database
	users *userRepository
	posts *postRepository
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:    db,
		users: &userRepository{coll: db.Collection(usersCollection)},
		posts: &postRepository{coll: db.Collection(postsCollection)},
	}
}

func (s *Store) Users() repository.UserRepository { return s.users }

func (s *Store) Posts() repository.PostRepository { return s.posts }

// WithTransaction runs fn inside a session transaction. fn receives the
// session context; the driver retries fn on transient transaction errors.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the indexes the queries rely on. The unique username
// index backs the signup uniqueness check against races.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err = s.db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "creatorId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isPostReported", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}
