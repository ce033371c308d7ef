package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
	"github.com/paatrickbarbosa/RoomS/pkg/auth"
)

// AuthSvc issues credentials for the external auth boundary. The rest of
// the services never see passwords or tokens; they receive a Principal.
type AuthSvc struct {
	store    repository.Store
	tokenTTL time.Duration
}

func NewAuthSvc(store repository.Store, tokenTTL time.Duration) *AuthSvc {
	return &AuthSvc{store: store, tokenTTL: tokenTTL}
}

func (s *AuthSvc) Register(ctx context.Context, username, password, name, email string) (*domain.User, error) {
	if username == "" || password == "" || name == "" || email == "" {
		return nil, domain.InvalidArgumentf("username, password, name and email are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username: username,
		Password: string(hash),
		Role:     domain.RoleUser,
		Name:     name,
		Email:    email,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the password and returns the user plus a signed access
// token. Bad username and bad password are indistinguishable to the caller.
func (s *AuthSvc) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrPermissionDenied
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", domain.ErrPermissionDenied
	}
	token, err := auth.CreateAccessToken(u.ID, string(u.Role), u.Username, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
