package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/events"
	"github.com/paatrickbarbosa/RoomS/internal/notify"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

// RoomSvc manages the room catalogue. Mutations are admin-only; deactivated
// rooms disappear from listings but keep their historical bookings.
type RoomSvc struct {
	store       repository.Store
	broadcaster notify.Broadcaster
	log         *zap.Logger
}

func NewRoomSvc(store repository.Store, bc notify.Broadcaster, log *zap.Logger) *RoomSvc {
	return &RoomSvc{store: store, broadcaster: bc, log: log}
}

type RoomInput struct {
	Name        string
	Capacity    int
	Type        domain.RoomType
	Amenities   []string
	HourlyRate  int64
	ImageURL    string
	Description string
	IsActive    *bool
}

func validateRoomInput(in RoomInput) error {
	if in.Name == "" {
		return domain.InvalidArgumentf("name is required")
	}
	if in.Capacity <= 0 {
		return domain.InvalidArgumentf("capacity must be positive")
	}
	if in.HourlyRate <= 0 {
		return domain.InvalidArgumentf("hourlyRate must be positive")
	}
	if !domain.ValidRoomType(in.Type) {
		return domain.InvalidArgumentf("unknown room type %q", in.Type)
	}
	return nil
}

func (s *RoomSvc) Create(ctx context.Context, p domain.Principal, in RoomInput) (*domain.Room, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateRoomInput(in); err != nil {
		return nil, err
	}
	r := &domain.Room{
		Name:        in.Name,
		Capacity:    in.Capacity,
		Type:        in.Type,
		Amenities:   in.Amenities,
		HourlyRate:  in.HourlyRate,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	if err := s.store.CreateRoom(ctx, r); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityRoomCreated,
		"Room \""+r.Name+"\" was created", map[string]any{"roomId": r.ID})
	s.broadcast(ctx, events.RoomCreated(r))
	return r, nil
}

func (s *RoomSvc) Update(ctx context.Context, p domain.Principal, id int64, in RoomInput) (*domain.Room, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateRoomInput(in); err != nil {
		return nil, err
	}
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Name = in.Name
	r.Capacity = in.Capacity
	r.Type = in.Type
	r.Amenities = in.Amenities
	r.HourlyRate = in.HourlyRate
	r.ImageURL = in.ImageURL
	r.Description = in.Description
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
	if err := s.store.UpdateRoom(ctx, r); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityRoomUpdated,
		"Room \""+r.Name+"\" was updated", map[string]any{"roomId": r.ID})
	s.broadcast(ctx, events.RoomUpdated(r))
	return r, nil
}

func (s *RoomSvc) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if !p.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	r, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityRoomDeleted,
		"Room \""+r.Name+"\" was deleted", map[string]any{"roomId": id})
	s.broadcast(ctx, events.RoomDeleted(id))
	return nil
}

func (s *RoomSvc) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *RoomSvc) recordActivity(ctx context.Context, userID *int64, typ, description string, meta map[string]any) {
	a := &domain.Activity{UserID: userID, Type: typ, Description: description, Metadata: meta}
	if err := s.store.AppendActivity(ctx, a); err != nil {
		s.log.Warn("activity append failed", zap.String("type", typ), zap.Error(err))
	}
}

func (s *RoomSvc) broadcast(ctx context.Context, ev events.Event) {
	if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
		s.log.Warn("event broadcast failed", zap.String("event", string(ev.Type)), zap.Error(err))
	}
}
