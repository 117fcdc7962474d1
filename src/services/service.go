// Package services holds the business rules: credentials, ownership checks
// and the transactional upkeep of the User.posts / Post.creatorId relation.
package services

import (
	"time"

	"github.com/mvjl000/socnet-backend/src/cache"
	"github.com/mvjl000/socnet-backend/src/events"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.uber.org/zap"
)

type Options struct {
	Store  repository.Store
	Tokens *lib.TokenIssuer
	Cache  cache.PostCache
	Events events.Publisher
	Logger *zap.Logger
	// AdminID is the hex id of the account allowed to list reported posts.
	AdminID    string
	BcryptCost int
	Now        func() time.Time
}

type Services struct {
	Auth  *AuthService
	Users *UserService
	Posts *PostService
}

func New(opts Options) *Services {
	if opts.Cache == nil {
		opts.Cache = cache.Noop{}
	}
	if opts.Events == nil {
		opts.Events = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = lib.BcryptCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Services{
		Auth:  newAuthService(opts),
		Users: newUserService(opts),
		Posts: newPostService(opts),
	}
}
