package service

import (
	"context"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

type UserSvc struct {
	store repository.Store
}

func NewUserSvc(store repository.Store) *UserSvc {
	return &UserSvc{store: store}
}

func (s *UserSvc) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// List is admin-only.
func (s *UserSvc) List(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.store.ListUsers(ctx)
}
