package events

import (
	"strings"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
)

// Type tags the union of events pushed to connected clients and published
// to external subscribers.
type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingUpdated   Type = "booking_updated"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingDeleted   Type = "booking_deleted"
	TypeRoomCreated      Type = "room_created"
	TypeRoomUpdated      Type = "room_updated"
	TypeRoomDeleted      Type = "room_deleted"
	TypeConflictDetected Type = "conflict_detected"
)

// RoutingKey is the AMQP form of the event type, e.g. "booking.created".
func (t Type) RoutingKey() string {
	return strings.Replace(string(t), "_", ".", 1)
}

// Event is the wire envelope: a tag plus a typed payload.
type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// Deleted is the payload for *_deleted events.
type Deleted struct {
	ID int64 `json:"id"`
}

// Conflict is the payload for conflict_detected: the interval that was
// rejected against an existing confirmed booking.
type Conflict struct {
	RoomID    int64  `json:"roomId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func BookingCreated(b *domain.BookingWithDetails) Event {
	return Event{Type: TypeBookingCreated, Data: b}
}

func BookingUpdated(b *domain.BookingWithDetails) Event {
	return Event{Type: TypeBookingUpdated, Data: b}
}

func BookingCancelled(b *domain.BookingWithDetails) Event {
	return Event{Type: TypeBookingCancelled, Data: b}
}

func BookingDeleted(id int64) Event {
	return Event{Type: TypeBookingDeleted, Data: Deleted{ID: id}}
}

func RoomCreated(r *domain.Room) Event {
	return Event{Type: TypeRoomCreated, Data: r}
}

func RoomUpdated(r *domain.Room) Event {
	return Event{Type: TypeRoomUpdated, Data: r}
}

func RoomDeleted(id int64) Event {
	return Event{Type: TypeRoomDeleted, Data: Deleted{ID: id}}
}

func ConflictDetected(c Conflict) Event {
	return Event{Type: TypeConflictDetected, Data: c}
}
