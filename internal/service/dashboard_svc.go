package service

import (
	"context"
	"sort"
	"time"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

// DashboardSvc derives read-only aggregates over room, booking and
// activity snapshots. Staleness is acceptable; nothing here takes locks
// beyond what the store provides.
type DashboardSvc struct {
	store repository.Store
	now   func() time.Time
}

func NewDashboardSvc(store repository.Store, now func() time.Time) *DashboardSvc {
	if now == nil {
		now = time.Now
	}
	return &DashboardSvc{store: store, now: now}
}

// Stats summarizes the reference date: room availability at this instant,
// today's confirmed volume and revenue, and the global pending backlog.
// One bookings fetch serves every aggregate; rooms are never queried
// individually here.
func (s *DashboardSvc) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	now := s.now()
	rooms, err := s.store.ListActiveRooms(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.store.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	dayStart := startOfDay(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	stats := &domain.DashboardStats{TotalRooms: len(rooms)}
	occupied := make(map[int64]bool)
	for i := range all {
		b := &all[i]
		if b.Status == domain.StatusPending {
			stats.PendingBookings++
		}
		if b.Status != domain.StatusConfirmed {
			continue
		}
		if !b.StartTime.After(now) && b.EndTime.After(now) {
			occupied[b.RoomID] = true
		}
		startsToday := !b.StartTime.Before(dayStart) && b.StartTime.Before(dayEnd)
		if startsToday {
			stats.BookedToday++
			stats.RevenueToday += b.TotalCost
		}
	}
	for i := range rooms {
		if !occupied[rooms[i].ID] {
			stats.AvailableRooms++
		}
	}
	return stats, nil
}

// TodaysSchedule lists confirmed and pending bookings starting today,
// earliest first.
func (s *DashboardSvc) TodaysSchedule(ctx context.Context) ([]domain.BookingWithDetails, error) {
	now := s.now()
	dayStart := startOfDay(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	all, err := s.store.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.BookingWithDetails
	for i := range all {
		b := all[i]
		if b.Status == domain.StatusCancelled {
			continue
		}
		if b.StartTime.Before(dayStart) || !b.StartTime.Before(dayEnd) {
			continue
		}
		d := domain.BookingWithDetails{Booking: b}
		if room, err := s.store.GetRoom(ctx, b.RoomID); err == nil {
			d.Room = *room
		}
		if user, err := s.store.GetUser(ctx, b.UserID); err == nil {
			d.User = *user
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// RecentActivities returns the newest limit audit entries, newest first.
func (s *DashboardSvc) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.ListRecentActivities(ctx, limit)
}
