package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
)

// Memory is the in-memory reference store: maps keyed by incrementing int64
// ids behind a single mutex. The mutex spans the overlap check and the
// insert in CreateBooking/UpdateBooking, which makes the check-then-act
// sequence atomic without any store-level constraint.
type Memory struct {
	// Now supplies timestamps for created entities; tests pin it.
	Now func() time.Time

	mu         sync.RWMutex
	users      map[int64]domain.User
	rooms      map[int64]domain.Room
	bookings   map[int64]domain.Booking
	activities map[int64]domain.Activity

	nextUserID     int64
	nextRoomID     int64
	nextBookingID  int64
	nextActivityID int64
}

func NewMemory() *Memory {
	return &Memory{
		Now:            time.Now,
		users:          make(map[int64]domain.User),
		rooms:          make(map[int64]domain.Room),
		bookings:       make(map[int64]domain.Booking),
		activities:     make(map[int64]domain.Activity),
		nextUserID:     1,
		nextRoomID:     1,
		nextBookingID:  1,
		nextActivityID: 1,
	}
}

// Users

func (m *Memory) GetUser(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.NotFoundf("user %d", id)
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("user %q", username)
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("user %q", email)
}

func (m *Memory) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return domain.Conflictf("username %q already taken", u.Username)
		}
		if existing.Email == u.Email {
			return domain.Conflictf("email %q already registered", u.Email)
		}
	}
	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = m.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Rooms

func (m *Memory) GetRoom(_ context.Context, id int64) (*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, domain.NotFoundf("room %d", id)
	}
	return &r, nil
}

func (m *Memory) ListActiveRooms(_ context.Context) ([]domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		if r.IsActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateRoom(_ context.Context, r *domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextRoomID
	m.nextRoomID++
	r.CreatedAt = m.Now()
	m.rooms[r.ID] = *r
	return nil
}

func (m *Memory) UpdateRoom(_ context.Context, r *domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.ID]; !ok {
		return domain.NotFoundf("room %d", r.ID)
	}
	m.rooms[r.ID] = *r
	return nil
}

func (m *Memory) DeleteRoom(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return domain.NotFoundf("room %d", id)
	}
	delete(m.rooms, id)
	return nil
}

// Bookings

func (m *Memory) GetBooking(_ context.Context, id int64) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.NotFoundf("booking %d", id)
	}
	return &b, nil
}

func (m *Memory) ListBookingsByRoom(_ context.Context, roomID int64, from, to *time.Time) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.RoomID != roomID {
			continue
		}
		if from != nil && to != nil && !b.Overlaps(*from, *to) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) ListBookingsByUser(_ context.Context, userID int64) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) ListAllBookings(_ context.Context) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *Memory) CreateBooking(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOverlapLocked(b, 0); err != nil {
		return err
	}
	b.ID = m.nextBookingID
	m.nextBookingID++
	b.CreatedAt = m.Now()
	m.bookings[b.ID] = *b
	return nil
}

func (m *Memory) UpdateBooking(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return domain.NotFoundf("booking %d", b.ID)
	}
	if err := m.checkOverlapLocked(b, b.ID); err != nil {
		return err
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *Memory) DeleteBooking(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return domain.NotFoundf("booking %d", id)
	}
	delete(m.bookings, id)
	return nil
}

// checkOverlapLocked enforces the no-overlap invariant for confirmed
// bookings. Callers must hold the write lock.
func (m *Memory) checkOverlapLocked(b *domain.Booking, excludeID int64) error {
	if b.Status != domain.StatusConfirmed {
		return nil
	}
	for _, existing := range m.bookings {
		if existing.RoomID != b.RoomID || existing.ID == excludeID {
			continue
		}
		if existing.Status != domain.StatusConfirmed {
			continue
		}
		if existing.Overlaps(b.StartTime, b.EndTime) {
			return domain.Conflictf("room %d is booked from %s to %s",
				b.RoomID, existing.StartTime.Format(time.RFC3339), existing.EndTime.Format(time.RFC3339))
		}
	}
	return nil
}

// Activities

func (m *Memory) AppendActivity(_ context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextActivityID
	m.nextActivityID++
	a.CreatedAt = m.Now()
	m.activities[a.ID] = *a
	return nil
}

func (m *Memory) ListRecentActivities(_ context.Context, limit int) ([]domain.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Seed populates the store with a default admin account and a handful of
// rooms so a fresh in-memory deployment is usable immediately.
func (m *Memory) Seed(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Username: "admin",
		Password: string(hash),
		Role:     domain.RoleAdmin,
		Name:     "Administrator",
		Email:    "admin@example.com",
	}
	if err := m.CreateUser(ctx, admin); err != nil {
		return err
	}

	rooms := []domain.Room{
		{Name: "Conference Room A", Capacity: 12, Type: domain.RoomConference,
			Amenities: []string{"Projector", "Whiteboard", "WiFi"}, HourlyRate: 5000,
			Description: "Large conference room with modern amenities", IsActive: true},
		{Name: "Meeting Room B", Capacity: 6, Type: domain.RoomMeeting,
			Amenities: []string{"Video Conf", "Screen"}, HourlyRate: 3000,
			Description: "Cozy meeting room perfect for small teams", IsActive: true},
		{Name: "Event Space C", Capacity: 50, Type: domain.RoomEvent,
			Amenities: []string{"Sound System", "Stage", "Catering"}, HourlyRate: 15000,
			Description: "Large event space for presentations and gatherings", IsActive: true},
		{Name: "Huddle Room D", Capacity: 4, Type: domain.RoomHuddle,
			Amenities: []string{"Monitor"}, HourlyRate: 2000,
			Description: "Small huddle room for quick meetings", IsActive: true},
	}
	for i := range rooms {
		if err := m.CreateRoom(ctx, &rooms[i]); err != nil {
			return err
		}
	}
	return nil
}
