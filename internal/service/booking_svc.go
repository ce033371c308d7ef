package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/events"
	"github.com/paatrickbarbosa/RoomS/internal/metrics"
	"github.com/paatrickbarbosa/RoomS/internal/notify"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
)

// BookingSvc owns the booking lifecycle: it validates and prices new
// bookings, re-validates amendments, enforces ownership on mutation, and
// emits activity records and broadcast events after each successful write.
// Cost and initial status are computed here and nowhere else.
type BookingSvc struct {
	store       repository.Store
	avail       *AvailabilitySvc
	broadcaster notify.Broadcaster
	log         *zap.Logger
	metrics     *metrics.Metrics
	autoConfirm bool
	now         func() time.Time
}

func NewBookingSvc(store repository.Store, avail *AvailabilitySvc, bc notify.Broadcaster, log *zap.Logger, m *metrics.Metrics, autoConfirm bool, now func() time.Time) *BookingSvc {
	if now == nil {
		now = time.Now
	}
	return &BookingSvc{
		store:       store,
		avail:       avail,
		broadcaster: bc,
		log:         log,
		metrics:     m,
		autoConfirm: autoConfirm,
		now:         now,
	}
}

type CreateBookingInput struct {
	RoomID           int64
	Title            string
	Description      string
	StartTime        time.Time
	EndTime          time.Time
	IsRecurring      bool
	RecurringType    *domain.RecurringType
	RecurringEndDate *time.Time
}

// UpdateBookingInput is a patch; nil fields keep their current value.
type UpdateBookingInput struct {
	RoomID           *int64
	Title            *string
	Description      *string
	StartTime        *time.Time
	EndTime          *time.Time
	Status           *domain.BookingStatus
	IsRecurring      *bool
	RecurringType    *domain.RecurringType
	RecurringEndDate *time.Time
}

// Cost rounds partial hours up: a 90 minute booking is billed as 2 hours.
func bookingCost(start, end time.Time, hourlyRate int64) int64 {
	hours := int64(math.Ceil(end.Sub(start).Hours()))
	return hours * hourlyRate
}

func validateRange(start, end time.Time) error {
	if !end.After(start) {
		return domain.InvalidArgumentf("endTime must be after startTime")
	}
	return nil
}

func validateRecurrence(isRecurring bool, rt *domain.RecurringType) error {
	if isRecurring {
		if rt == nil {
			return domain.InvalidArgumentf("recurringType is required for recurring bookings")
		}
		if !domain.ValidRecurringType(*rt) {
			return domain.InvalidArgumentf("unknown recurringType %q", *rt)
		}
		return nil
	}
	if rt != nil {
		return domain.InvalidArgumentf("recurringType is only valid for recurring bookings")
	}
	return nil
}

// Create validates, prices and persists a new booking for the principal.
// The store insert re-checks the overlap atomically, so a race lost between
// the availability check and the write still surfaces as a Conflict.
func (s *BookingSvc) Create(ctx context.Context, p domain.Principal, in CreateBookingInput) (*domain.BookingWithDetails, error) {
	if in.Title == "" {
		return nil, domain.InvalidArgumentf("title is required")
	}
	if err := validateRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if err := validateRecurrence(in.IsRecurring, in.RecurringType); err != nil {
		return nil, err
	}

	room, err := s.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, domain.InvalidStatef("room %d is not active", room.ID)
	}

	available, err := s.avail.IsAvailable(ctx, in.RoomID, in.StartTime, in.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		s.reportConflict(ctx, in.RoomID, in.StartTime, in.EndTime)
		return nil, domain.Conflictf("room %d is not available for the selected time", in.RoomID)
	}

	status := domain.StatusPending
	if s.autoConfirm {
		status = domain.StatusConfirmed
	}
	b := &domain.Booking{
		RoomID:           in.RoomID,
		UserID:           p.ID,
		Title:            in.Title,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Status:           status,
		IsRecurring:      in.IsRecurring,
		RecurringType:    in.RecurringType,
		RecurringEndDate: in.RecurringEndDate,
		TotalCost:        bookingCost(in.StartTime, in.EndTime, room.HourlyRate),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.reportConflict(ctx, in.RoomID, in.StartTime, in.EndTime)
		}
		return nil, err
	}
	s.metrics.BookingsCreated.Inc()

	details := &domain.BookingWithDetails{Booking: *b, Room: *room}
	if user, err := s.store.GetUser(ctx, p.ID); err == nil {
		details.User = *user
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityBookingCreated,
		"Booking \""+b.Title+"\" was created",
		map[string]any{"bookingId": b.ID, "roomId": b.RoomID})
	s.broadcast(ctx, events.BookingCreated(details))
	return details, nil
}

// Update merges the patch into the booking and re-validates availability
// when the room or time window changed, excluding the booking's own id.
func (s *BookingSvc) Update(ctx context.Context, p domain.Principal, id int64, in UpdateBookingInput) (*domain.BookingWithDetails, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != p.ID && !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if b.Status == domain.StatusCancelled {
		return nil, domain.InvalidStatef("cannot edit a cancelled booking")
	}

	reschedule := false
	if in.RoomID != nil && *in.RoomID != b.RoomID {
		b.RoomID = *in.RoomID
		reschedule = true
	}
	if in.StartTime != nil && !in.StartTime.Equal(b.StartTime) {
		b.StartTime = *in.StartTime
		reschedule = true
	}
	if in.EndTime != nil && !in.EndTime.Equal(b.EndTime) {
		b.EndTime = *in.EndTime
		reschedule = true
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.IsRecurring != nil {
		b.IsRecurring = *in.IsRecurring
		if !b.IsRecurring {
			// Dropping recurrence clears its parameters.
			b.RecurringType = nil
			b.RecurringEndDate = nil
		}
	}
	if in.RecurringType != nil {
		b.RecurringType = in.RecurringType
	}
	if in.RecurringEndDate != nil {
		b.RecurringEndDate = in.RecurringEndDate
	}
	confirming := false
	if in.Status != nil && *in.Status != b.Status {
		// Cancellation goes through Cancel so its own rules apply.
		if *in.Status != domain.StatusConfirmed || b.Status != domain.StatusPending {
			return nil, domain.InvalidStatef("cannot transition booking from %s to %s", b.Status, *in.Status)
		}
		b.Status = domain.StatusConfirmed
		confirming = true
	}

	if b.Title == "" {
		return nil, domain.InvalidArgumentf("title is required")
	}
	if err := validateRange(b.StartTime, b.EndTime); err != nil {
		return nil, err
	}
	if err := validateRecurrence(b.IsRecurring, b.RecurringType); err != nil {
		return nil, err
	}

	room, err := s.store.GetRoom(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	if reschedule || confirming {
		if !room.IsActive {
			return nil, domain.InvalidStatef("room %d is not active", room.ID)
		}
		available, err := s.avail.IsAvailable(ctx, b.RoomID, b.StartTime, b.EndTime, b.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			s.reportConflict(ctx, b.RoomID, b.StartTime, b.EndTime)
			return nil, domain.Conflictf("room %d is not available for the selected time", b.RoomID)
		}
		// Priced at confirmation time; amendments reprice against the
		// room's current rate.
		b.TotalCost = bookingCost(b.StartTime, b.EndTime, room.HourlyRate)
	}

	if err := s.store.UpdateBooking(ctx, b); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.reportConflict(ctx, b.RoomID, b.StartTime, b.EndTime)
		}
		return nil, err
	}

	details := &domain.BookingWithDetails{Booking: *b, Room: *room}
	if user, err := s.store.GetUser(ctx, b.UserID); err == nil {
		details.User = *user
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityBookingUpdated,
		"Booking \""+b.Title+"\" was updated",
		map[string]any{"bookingId": b.ID, "roomId": b.RoomID})
	s.broadcast(ctx, events.BookingUpdated(details))
	return details, nil
}

// Cancel soft-cancels a future booking. Only the owner or an admin may
// cancel, and only while the booking has not started.
func (s *BookingSvc) Cancel(ctx context.Context, p domain.Principal, id int64) (*domain.BookingWithDetails, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != p.ID && !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if b.Status == domain.StatusCancelled {
		return nil, domain.InvalidStatef("booking %d is already cancelled", b.ID)
	}
	if !b.StartTime.After(s.now()) {
		return nil, domain.InvalidStatef("cannot cancel a booking that has started")
	}

	b.Status = domain.StatusCancelled
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	s.metrics.BookingsCancelled.Inc()

	details := &domain.BookingWithDetails{Booking: *b}
	if room, err := s.store.GetRoom(ctx, b.RoomID); err == nil {
		details.Room = *room
	}
	if user, err := s.store.GetUser(ctx, b.UserID); err == nil {
		details.User = *user
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityBookingCancelled,
		"Booking \""+b.Title+"\" was cancelled",
		map[string]any{"bookingId": b.ID, "roomId": b.RoomID})
	s.broadcast(ctx, events.BookingCancelled(details))
	return details, nil
}

// Delete removes the booking row entirely. Admin only; regular users
// cancel instead so history is retained.
func (s *BookingSvc) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if !p.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.recordActivity(ctx, &p.ID, domain.ActivityBookingDeleted,
		"Booking \""+b.Title+"\" was deleted",
		map[string]any{"bookingId": b.ID, "roomId": b.RoomID})
	s.broadcast(ctx, events.BookingDeleted(id))
	return nil
}

// Get returns the booking with its room and owner. Non-admins may only
// read their own bookings.
func (s *BookingSvc) Get(ctx context.Context, p domain.Principal, id int64) (*domain.BookingWithDetails, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != p.ID && !p.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.withDetails(ctx, b)
}

// List returns the principal's bookings; admins see everything and may
// narrow to a single user with filterUserID.
func (s *BookingSvc) List(ctx context.Context, p domain.Principal, filterUserID int64) ([]domain.BookingWithDetails, error) {
	var (
		bookings []domain.Booking
		err      error
	)
	switch {
	case !p.IsAdmin():
		bookings, err = s.store.ListBookingsByUser(ctx, p.ID)
	case filterUserID != 0:
		bookings, err = s.store.ListBookingsByUser(ctx, filterUserID)
	default:
		bookings, err = s.store.ListAllBookings(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookingWithDetails, 0, len(bookings))
	for i := range bookings {
		d, err := s.withDetails(ctx, &bookings[i])
		if err != nil {
			// Room or owner vanished under a hard delete; skip the orphan.
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

// CheckAvailability answers the pre-flight probe used by booking forms.
func (s *BookingSvc) CheckAvailability(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	if err := validateRange(start, end); err != nil {
		return false, err
	}
	return s.avail.IsAvailable(ctx, roomID, start, end, excludeID)
}

func (s *BookingSvc) withDetails(ctx context.Context, b *domain.Booking) (*domain.BookingWithDetails, error) {
	room, err := s.store.GetRoom(ctx, b.RoomID)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, b.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.BookingWithDetails{Booking: *b, Room: *room, User: *user}, nil
}

// recordActivity appends to the audit log. Best-effort: a failed append is
// logged and never rolls back the write that triggered it.
func (s *BookingSvc) recordActivity(ctx context.Context, userID *int64, typ, description string, meta map[string]any) {
	a := &domain.Activity{UserID: userID, Type: typ, Description: description, Metadata: meta}
	if err := s.store.AppendActivity(ctx, a); err != nil {
		s.log.Warn("activity append failed", zap.String("type", typ), zap.Error(err))
	}
}

func (s *BookingSvc) broadcast(ctx context.Context, ev events.Event) {
	s.metrics.EventsBroadcast.Inc()
	if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
		s.log.Warn("event broadcast failed", zap.String("event", string(ev.Type)), zap.Error(err))
	}
}

func (s *BookingSvc) reportConflict(ctx context.Context, roomID int64, start, end time.Time) {
	s.metrics.ConflictsDetected.Inc()
	s.broadcast(ctx, events.ConflictDetected(events.Conflict{
		RoomID:    roomID,
		StartTime: start.Format(time.RFC3339),
		EndTime:   end.Format(time.RFC3339),
	}))
}
