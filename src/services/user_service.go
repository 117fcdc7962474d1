package services

import (
	"context"
	"errors"

	"github.com/mvjl000/socnet-backend/src/cache"
	"github.com/mvjl000/socnet-backend/src/events"
	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService struct {
	store  repository.Store
	cache  cache.PostCache
	events events.Publisher
	logger *zap.Logger
}

func newUserService(opts Options) *UserService {
	return &UserService{
		store:  opts.Store,
		cache:  opts.Cache,
		events: opts.Events,
		logger: opts.Logger,
	}
}

func (s *UserService) GetUserData(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUsernameUnknown
	}
	if err != nil {
		return nil, internal(s.logger, "get user data", err, "Fetching user data failed, please try again later.")
	}
	return user, nil
}

func (s *UserService) UpdateDescription(ctx context.Context, authID, targetID primitive.ObjectID, description string) error {
	if authID != targetID {
		return errNotAllowed
	}

	err := s.store.Users().UpdateDescription(ctx, targetID, description)
	if errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return internal(s.logger, "update description", err, "Updating description failed, please try again later.")
	}
	return nil
}

// ClearPosts deletes every post the user created and empties User.posts in
// one transaction. The account stays.
func (s *UserService) ClearPosts(ctx context.Context, authID, targetID primitive.ObjectID) error {
	if authID != targetID {
		return errNotAllowed
	}

	var postIDs []string
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.store.Users().FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		postIDs = hexIDs(user.Posts)

		if _, err := s.store.Posts().DeleteByCreator(ctx, targetID); err != nil {
			return err
		}
		return s.store.Users().ClearPosts(ctx, targetID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return internal(s.logger, "clear posts", err, "Deleting posts failed, please try again later.")
	}

	invalidate(ctx, s.logger, s.cache, postIDs...)
	for _, id := range postIDs {
		if err := s.events.PostDeleted(ctx, id, targetID.Hex()); err != nil {
			s.logger.Warn("publish post.deleted failed", zap.String("post", id), zap.Error(err))
		}
	}
	return nil
}

// DeleteUser removes the account together with every post it created, all in
// one transaction.
func (s *UserService) DeleteUser(ctx context.Context, authID, targetID primitive.ObjectID) error {
	if authID != targetID {
		return errNotAllowed
	}

	var (
		postIDs []string
		deleted int64
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.store.Users().FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		postIDs = hexIDs(user.Posts)

		deleted, err = s.store.Posts().DeleteByCreator(ctx, targetID)
		if err != nil {
			return err
		}
		return s.store.Users().Delete(ctx, targetID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return internal(s.logger, "delete user", err, "Deleting user failed, please try again later.")
	}

	invalidate(ctx, s.logger, s.cache, postIDs...)
	if err := s.events.UserDeleted(ctx, targetID.Hex(), deleted); err != nil {
		s.logger.Warn("publish user.deleted failed", zap.String("user", targetID.Hex()), zap.Error(err))
	}
	return nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
