package services

import (
	"context"

	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/cache"
	"go.uber.org/zap"
)

var (
	errUserNotFound    = apperror.New(apperror.NotFound, "Could not find user for provided id.")
	errUsernameUnknown = apperror.New(apperror.NotFound, "Could not find user with provided username.")
	errPostNotFound    = apperror.New(apperror.NotFound, "Could not find post for provided id.")
	errCommentNotFound = apperror.New(apperror.NotFound, "Could not find comment for provided id.")
	errNotAllowed      = apperror.New(apperror.Forbidden, "You are not allowed to perform this action.")
)

// internal logs err with the operation name and hides it behind message.
func internal(logger *zap.Logger, op string, err error, message string) error {
	logger.Error(op+" failed", zap.Error(err))
	return apperror.Wrap(err, message)
}

// invalidate drops cached posts after a committed mutation. A stale entry
// only lives until its TTL, so failures are logged and ignored.
func invalidate(ctx context.Context, logger *zap.Logger, c cache.PostCache, postIDs ...string) {
	if err := c.Invalidate(ctx, postIDs...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("posts", postIDs), zap.Error(err))
	}
}
