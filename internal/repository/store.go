// Package repository defines the abstract entity store consumed by the
// services and its two implementations: an in-memory reference store and a
// gorm-backed Postgres store. Production swaps the backing store without
// touching the availability or lifecycle contracts.
package repository

import (
	"context"
	"time"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
)

// Store is the persistence capability injected into the services. All
// methods translate backend failures into the domain error taxonomy:
// missing rows surface domain.ErrNotFound, uniqueness and overlap
// violations surface domain.ErrConflict, and infrastructure failures
// surface domain.ErrStorageUnavailable.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Rooms
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListActiveRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, r *domain.Room) error
	UpdateRoom(ctx context.Context, r *domain.Room) error
	DeleteRoom(ctx context.Context, id int64) error

	// Bookings. CreateBooking and UpdateBooking are the serialization
	// point for the check-then-act contract: when the written booking is
	// confirmed, the store atomically verifies that no other confirmed
	// booking on the same room overlaps it (excluding the booking's own
	// id on update) and reports domain.ErrConflict otherwise.
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookingsByRoom(ctx context.Context, roomID int64, from, to *time.Time) ([]domain.Booking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAllBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, b *domain.Booking) error
	UpdateBooking(ctx context.Context, b *domain.Booking) error
	DeleteBooking(ctx context.Context, id int64) error

	// Activities (append-only audit log)
	AppendActivity(ctx context.Context, a *domain.Activity) error
	ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error)
}
