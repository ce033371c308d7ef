package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

func mustRoom(t *testing.T, store *repository.Memory, rate int64, active bool) *domain.Room {
	t.Helper()
	r := &domain.Room{
		Name:       "Room",
		Capacity:   10,
		Type:       domain.RoomConference,
		HourlyRate: rate,
		IsActive:   active,
	}
	require.NoError(t, store.CreateRoom(context.Background(), r))
	return r
}

func mustBooking(t *testing.T, store *repository.Memory, roomID, userID int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		RoomID:    roomID,
		UserID:    userID,
		Title:     "Meeting",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	require.NoError(t, store.CreateBooking(context.Background(), b))
	return b
}

func at(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
}

func TestIsAvailableHalfOpenOverlap(t *testing.T) {
	store := repository.NewMemory()
	room := mustRoom(t, store, 3000, true)
	mustBooking(t, store, room.ID, 1, at(9, 0), at(10, 0), domain.StatusConfirmed)
	svc := NewAvailabilitySvc(store)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"sub-interval", at(9, 15), at(9, 45), false},
		{"overlaps start", at(8, 30), at(9, 30), false},
		{"overlaps end", at(9, 30), at(10, 30), false},
		{"covers whole", at(8, 0), at(11, 0), false},
		{"touches start", at(8, 0), at(9, 0), true},
		{"touches end", at(10, 0), at(11, 0), true},
		{"disjoint", at(12, 0), at(13, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsAvailable(context.Background(), room.ID, tc.start, tc.end, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsAvailableIgnoresNonConfirmed(t *testing.T) {
	store := repository.NewMemory()
	room := mustRoom(t, store, 3000, true)
	mustBooking(t, store, room.ID, 1, at(9, 0), at(10, 0), domain.StatusPending)
	mustBooking(t, store, room.ID, 1, at(9, 0), at(10, 0), domain.StatusCancelled)
	svc := NewAvailabilitySvc(store)

	got, err := svc.IsAvailable(context.Background(), room.ID, at(9, 0), at(10, 0), 0)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsAvailableExcludesBookingUnderEdit(t *testing.T) {
	store := repository.NewMemory()
	room := mustRoom(t, store, 3000, true)
	b := mustBooking(t, store, room.ID, 1, at(9, 0), at(10, 0), domain.StatusConfirmed)
	svc := NewAvailabilitySvc(store)

	got, err := svc.IsAvailable(context.Background(), room.ID, at(9, 30), at(10, 30), b.ID)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsAvailableUnknownRoom(t *testing.T) {
	svc := NewAvailabilitySvc(repository.NewMemory())
	_, err := svc.IsAvailable(context.Background(), 99, at(9, 0), at(10, 0), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomStatus(t *testing.T) {
	store := repository.NewMemory()
	room := mustRoom(t, store, 3000, true)
	current := mustBooking(t, store, room.ID, 1, at(9, 0), at(10, 0), domain.StatusConfirmed)
	next := mustBooking(t, store, room.ID, 1, at(11, 0), at(12, 0), domain.StatusConfirmed)
	mustBooking(t, store, room.ID, 1, at(10, 0), at(11, 0), domain.StatusPending)
	svc := NewAvailabilitySvc(store)

	t.Run("inside current booking", func(t *testing.T) {
		st, err := svc.RoomStatus(context.Background(), room.ID, at(9, 30))
		require.NoError(t, err)
		assert.False(t, st.IsAvailable)
		require.NotNil(t, st.CurrentBooking)
		assert.Equal(t, current.ID, st.CurrentBooking.ID)
		require.NotNil(t, st.NextBooking)
		assert.Equal(t, next.ID, st.NextBooking.ID)
	})

	t.Run("between bookings", func(t *testing.T) {
		st, err := svc.RoomStatus(context.Background(), room.ID, at(10, 30))
		require.NoError(t, err)
		assert.True(t, st.IsAvailable)
		assert.Nil(t, st.CurrentBooking)
		require.NotNil(t, st.NextBooking)
		assert.Equal(t, next.ID, st.NextBooking.ID)
	})

	t.Run("after last booking", func(t *testing.T) {
		st, err := svc.RoomStatus(context.Background(), room.ID, at(12, 30))
		require.NoError(t, err)
		assert.True(t, st.IsAvailable)
		assert.Nil(t, st.CurrentBooking)
		assert.Nil(t, st.NextBooking)
	})
}

func TestRoomsWithStatusSkipsInactiveRooms(t *testing.T) {
	store := repository.NewMemory()
	busy := mustRoom(t, store, 3000, true)
	mustRoom(t, store, 3000, true)
	mustRoom(t, store, 3000, false)
	mustBooking(t, store, busy.ID, 1, at(9, 0), at(10, 0), domain.StatusConfirmed)
	svc := NewAvailabilitySvc(store)

	statuses, err := svc.RoomsWithStatus(context.Background(), at(9, 30))
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].IsAvailable)
	assert.True(t, statuses[1].IsAvailable)
}
