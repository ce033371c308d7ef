package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type RoomType string

const (
	RoomConference RoomType = "conference"
	RoomMeeting    RoomType = "meeting"
	RoomEvent      RoomType = "event"
	RoomHuddle     RoomType = "huddle"
)

// ValidRoomType reports whether t is one of the supported room types.
func ValidRoomType(t RoomType) bool {
	switch t {
	case RoomConference, RoomMeeting, RoomEvent, RoomHuddle:
		return true
	}
	return false
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type RecurringType string

const (
	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
)

// ValidRecurringType reports whether t is one of the supported recurrence kinds.
func ValidRecurringType(t RecurringType) bool {
	switch t {
	case RecurringDaily, RecurringWeekly, RecurringMonthly:
		return true
	}
	return false
}

// Activity type tags recorded in the audit log.
const (
	ActivityBookingCreated   = "booking_created"
	ActivityBookingUpdated   = "booking_updated"
	ActivityBookingCancelled = "booking_cancelled"
	ActivityBookingDeleted   = "booking_deleted"
	ActivityRoomCreated      = "room_created"
	ActivityRoomUpdated      = "room_updated"
	ActivityRoomDeleted      = "room_deleted"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type Room struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Type        RoomType  `json:"type"`
	Amenities   []string  `gorm:"serializer:json" json:"amenities"`
	HourlyRate  int64     `json:"hourlyRate"` // minor currency unit per hour
	ImageURL    string    `json:"imageUrl,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Booking struct {
	ID               int64          `gorm:"primaryKey" json:"id"`
	RoomID           int64          `gorm:"index" json:"roomId"`
	UserID           int64          `gorm:"index" json:"userId"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	StartTime        time.Time      `gorm:"index" json:"startTime"`
	EndTime          time.Time      `gorm:"index" json:"endTime"`
	Status           BookingStatus  `gorm:"index" json:"status"`
	IsRecurring      bool           `json:"isRecurring"`
	RecurringType    *RecurringType `json:"recurringType,omitempty"`
	RecurringEndDate *time.Time     `json:"recurringEndDate,omitempty"`
	TotalCost        int64          `json:"totalCost"` // minor currency unit
	CreatedAt        time.Time      `json:"createdAt"`
}

// Overlaps reports whether the booking's half-open interval [StartTime, EndTime)
// intersects [start, end). Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}

type Activity struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	UserID      *int64         `json:"userId,omitempty"` // nil for system events
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// BookingWithDetails is a booking joined with its room and owner, the shape
// returned to API consumers and carried in broadcast events.
type BookingWithDetails struct {
	Booking
	Room Room `json:"room"`
	User User `json:"user"`
}

// RoomWithStatus annotates a room with its occupancy at a reference instant.
type RoomWithStatus struct {
	Room
	IsAvailable    bool     `json:"isAvailable"`
	CurrentBooking *Booking `json:"currentBooking,omitempty"`
	NextBooking    *Booking `json:"nextBooking,omitempty"`
}

type DashboardStats struct {
	AvailableRooms  int   `json:"availableRooms"`
	TotalRooms      int   `json:"totalRooms"`
	BookedToday     int   `json:"bookedToday"`
	PendingBookings int   `json:"pendingBookings"`
	RevenueToday    int64 `json:"revenueToday"`
}

// Principal is the authenticated identity attached to every mutating call.
// It is produced by the auth middleware and trusted by the services.
type Principal struct {
	ID   int64
	Role Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
