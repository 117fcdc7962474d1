package services

import (
	"context"
	"errors"

	"github.com/mvjl000/socnet-backend/src/apperror"
	"github.com/mvjl000/socnet-backend/src/lib"
	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.uber.org/zap"
)

// AuthResult is returned by signup and login.
type AuthResult struct {
	UserId   string
	Username string
	Token    string
}

type AuthService struct {
	store  repository.Store
	tokens *lib.TokenIssuer
	logger *zap.Logger
	cost   int
}

func newAuthService(opts Options) *AuthService {
	return &AuthService{
		store:  opts.Store,
		tokens: opts.Tokens,
		logger: opts.Logger,
		cost:   opts.BcryptCost,
	}
}

// Signup registers a new account. image is the stored upload path or empty.
func (s *AuthService) Signup(ctx context.Context, username, password, image string) (*AuthResult, error) {
	_, err := s.store.Users().FindByUsername(ctx, username)
	if err == nil {
		return nil, apperror.New(apperror.Conflict, "User exists already, please login instead.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal(s.logger, "signup lookup", err, "Signing up failed, please try again later.")
	}

	hashed, err := lib.HashPassword(password, s.cost)
	if err != nil {
		return nil, internal(s.logger, "hash password", err, "Failed to create user. Please try again later.")
	}

	user := models.NewUser(username, hashed, image)
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.New(apperror.Conflict, "User exists already, please login instead.")
		}
		return nil, internal(s.logger, "create user", err, "Failed to save new user. Please try again later.")
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.Forbidden, "Invalid credentials, could not log you in.")
	}
	if err != nil {
		return nil, internal(s.logger, "login lookup", err, "Logging in failed, please try again later.")
	}

	if !lib.CheckPassword(user.Password, password) {
		return nil, apperror.New(apperror.Forbidden, "Invalid credentials, could not log you in.")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.Id.Hex(), user.Username)
	if err != nil {
		return nil, internal(s.logger, "issue token", err, "Could not log you in, please try again later.")
	}
	return &AuthResult{UserId: user.Id.Hex(), Username: user.Username, Token: token}, nil
}

// SearchUsers returns usernames containing query, ignoring case.
func (s *AuthService) SearchUsers(ctx context.Context, query string) ([]string, error) {
	usernames, err := s.store.Users().SearchUsernames(ctx, query)
	if err != nil {
		return nil, internal(s.logger, "search users", err, "Searching users failed, please try again later.")
	}
	return usernames, nil
}
