package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/metrics"
	"github.com/paatrickbarbosa/RoomS/internal/notify"
	"github.com/paatrickbarbosa/RoomS/internal/repository"
	"github.com/paatrickbarbosa/RoomS/internal/service"
	"github.com/paatrickbarbosa/RoomS/pkg/auth"
)

func newTestAPI(t *testing.T) (*gin.Engine, *repository.Memory) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	store := repository.NewMemory()
	zl := zap.NewNop()
	hub := notify.NewHub(zl)
	t.Cleanup(hub.Close)
	now := func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) }

	availSvc := service.NewAvailabilitySvc(store)
	bookingSvc := service.NewBookingSvc(store, availSvc, notify.Multi{hub}, zl,
		metrics.New(prometheus.NewRegistry()), true, now)
	roomSvc := service.NewRoomSvc(store, notify.Multi{hub}, zl)
	dashSvc := service.NewDashboardSvc(store, now)
	authSvc := service.NewAuthSvc(store, time.Hour)
	userSvc := service.NewUserSvc(store)

	r := gin.New()
	set := &Set{
		Auth:      NewAuthHandler(authSvc),
		Rooms:     NewRoomHandler(roomSvc, availSvc),
		Bookings:  NewBookingHandler(bookingSvc),
		Users:     NewUserHandler(userSvc),
		Dashboard: NewDashboardHandler(dashSvc),
		Hub:       hub,
	}
	set.Register(r)
	return r, store
}

func newUser(t *testing.T, store *repository.Memory, username string, role domain.Role) (*domain.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		Username: username,
		Password: string(hash),
		Role:     role,
		Name:     username,
		Email:    username + "@example.com",
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	token, err := auth.CreateAccessToken(u.ID, string(role), username, time.Hour)
	require.NoError(t, err)
	return u, token
}

func newRoom(t *testing.T, store *repository.Memory) *domain.Room {
	t.Helper()
	room := &domain.Room{
		Name: "Conference A", Capacity: 8, Type: domain.RoomConference,
		HourlyRate: 5000, IsActive: true,
	}
	require.NoError(t, store.CreateRoom(context.Background(), room))
	return room
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "password": "secret123",
		"name": "Alice", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret123")

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nobody", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBooking(t *testing.T) {
	r, store := newTestAPI(t)
	_, token := newUser(t, store, "alice", domain.RoleUser)
	room := newRoom(t, store)

	payload := gin.H{
		"roomId":    room.ID,
		"title":     "Planning",
		"startTime": "2025-06-02T09:00:00Z",
		"endTime":   "2025-06-02T10:30:00Z",
	}

	w := do(t, r, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/bookings", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, domain.StatusConfirmed, created.Status)
	assert.Equal(t, int64(10000), created.TotalCost) // 90 min at 5000/h, rounded up

	// Overlapping interval on the same room.
	w = do(t, r, http.MethodPost, "/api/bookings", token, gin.H{
		"roomId":    room.ID,
		"title":     "Clash",
		"startTime": "2025-06-02T10:00:00Z",
		"endTime":   "2025-06-02T11:00:00Z",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodGet, "/api/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestBookingAuthorization(t *testing.T) {
	r, store := newTestAPI(t)
	_, ownerToken := newUser(t, store, "owner", domain.RoleUser)
	_, otherToken := newUser(t, store, "other", domain.RoleUser)
	_, adminToken := newUser(t, store, "boss", domain.RoleAdmin)
	room := newRoom(t, store)

	w := do(t, r, http.MethodPost, "/api/bookings", ownerToken, gin.H{
		"roomId":    room.ID,
		"title":     "Private",
		"startTime": "2025-06-02T09:00:00Z",
		"endTime":   "2025-06-02T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := "/api/bookings/" + itoa(created.ID)

	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		do(t, r, http.MethodPut, path, otherToken, gin.H{"title": "Mine now"}).Code)
	assert.Equal(t, http.StatusForbidden,
		do(t, r, http.MethodDelete, path, ownerToken, nil).Code)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, adminToken, nil).Code)
}

func TestCancelBooking(t *testing.T) {
	r, store := newTestAPI(t)
	_, token := newUser(t, store, "alice", domain.RoleUser)
	room := newRoom(t, store)

	w := do(t, r, http.MethodPost, "/api/bookings", token, gin.H{
		"roomId":    room.ID,
		"title":     "Standup",
		"startTime": "2025-06-02T09:00:00Z",
		"endTime":   "2025-06-02T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(t, r, http.MethodPost, "/api/bookings/"+itoa(created.ID)+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// Cancelled bookings stay frozen.
	w = do(t, r, http.MethodPost, "/api/bookings/"+itoa(created.ID)+"/cancel", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckAvailabilityExcludesEditedBooking(t *testing.T) {
	r, store := newTestAPI(t)
	_, token := newUser(t, store, "alice", domain.RoleUser)
	room := newRoom(t, store)

	w := do(t, r, http.MethodPost, "/api/bookings", token, gin.H{
		"roomId":    room.ID,
		"title":     "Review",
		"startTime": "2025-06-02T09:00:00Z",
		"endTime":   "2025-06-02T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.BookingWithDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	check := gin.H{
		"roomId":    room.ID,
		"startTime": "2025-06-02T09:30:00Z",
		"endTime":   "2025-06-02T10:30:00Z",
	}
	w = do(t, r, http.MethodPost, "/api/bookings/check-availability", token, check)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available": false}`, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/bookings/"+itoa(created.ID)+"/check-availability", token, check)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available": true}`, w.Body.String())
}

func TestRoomManagementIsAdminOnly(t *testing.T) {
	r, store := newTestAPI(t)
	_, userToken := newUser(t, store, "alice", domain.RoleUser)
	_, adminToken := newUser(t, store, "boss", domain.RoleAdmin)

	payload := gin.H{
		"name": "Workshop", "capacity": 12, "type": "event", "hourlyRate": 8000,
	}
	assert.Equal(t, http.StatusForbidden,
		do(t, r, http.MethodPost, "/api/rooms", userToken, payload).Code)

	w := do(t, r, http.MethodPost, "/api/rooms", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	// Public read works without a token.
	w = do(t, r, http.MethodGet, "/api/rooms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []domain.RoomWithStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	assert.Len(t, rooms, 1)
}

func TestDashboardRequiresToken(t *testing.T) {
	r, store := newTestAPI(t)
	_, token := newUser(t, store, "alice", domain.RoleUser)

	assert.Equal(t, http.StatusUnauthorized,
		do(t, r, http.MethodGet, "/api/dashboard/stats", "", nil).Code)

	w := do(t, r, http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.TotalRooms)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
