package service

import (
	"context"
	"sort"
	"time"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

// AvailabilitySvc decides whether a proposed reservation may exist alongside
// others and computes per-room occupancy at a reference instant. Only
// confirmed bookings participate in conflict checks; pending and cancelled
// bookings never block a room.
type AvailabilitySvc struct {
	store repository.Store
}

func NewAvailabilitySvc(store repository.Store) *AvailabilitySvc {
	return &AvailabilitySvc{store: store}
}

// IsAvailable reports whether the room is free for [start, end). Intervals
// are half-open: a booking ending exactly at start does not conflict.
// excludeID skips the booking under edit; pass 0 for none.
func (s *AvailabilitySvc) IsAvailable(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return false, err
	}
	bookings, err := s.store.ListBookingsByRoom(ctx, roomID, &start, &end)
	if err != nil {
		return false, err
	}
	for i := range bookings {
		b := &bookings[i]
		if b.ID == excludeID || b.Status != domain.StatusConfirmed {
			continue
		}
		if b.Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

// RoomStatus computes occupancy for a single room at the given instant,
// scoped to bookings intersecting that calendar day. A room with a booking
// in progress is unavailable; an upcoming booking alone does not make it so.
func (s *AvailabilitySvc) RoomStatus(ctx context.Context, roomID int64, at time.Time) (*domain.RoomWithStatus, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(ctx, room, at)
}

// RoomsWithStatus annotates every active room with its occupancy at the
// given instant.
func (s *AvailabilitySvc) RoomsWithStatus(ctx context.Context, at time.Time) ([]domain.RoomWithStatus, error) {
	rooms, err := s.store.ListActiveRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomWithStatus, 0, len(rooms))
	for i := range rooms {
		st, err := s.statusFor(ctx, &rooms[i], at)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}

func (s *AvailabilitySvc) statusFor(ctx context.Context, room *domain.Room, at time.Time) (*domain.RoomWithStatus, error) {
	dayStart := startOfDay(at)
	dayEnd := dayStart.Add(24 * time.Hour)
	bookings, err := s.store.ListBookingsByRoom(ctx, room.ID, &dayStart, &dayEnd)
	if err != nil {
		return nil, err
	}

	var current *domain.Booking
	var upcoming []domain.Booking
	for i := range bookings {
		b := bookings[i]
		if b.Status != domain.StatusConfirmed {
			continue
		}
		switch {
		case !b.StartTime.After(at) && b.EndTime.After(at):
			// At most one by the no-overlap invariant.
			current = &b
		case b.StartTime.After(at):
			upcoming = append(upcoming, b)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].StartTime.Before(upcoming[j].StartTime) })

	st := &domain.RoomWithStatus{
		Room:           *room,
		IsAvailable:    current == nil,
		CurrentBooking: current,
	}
	if len(upcoming) > 0 {
		st.NextBooking = &upcoming[0]
	}
	return st, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
