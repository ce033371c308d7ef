package notify

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paatrickbarbosa/RoomS/internal/events"
)

func TestAMQPMessage(t *testing.T) {
	key, msg, err := message(events.BookingDeleted(7))
	require.NoError(t, err)

	assert.Equal(t, "booking.deleted", key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "booking_deleted", msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
	assert.JSONEq(t, `{"type":"booking_deleted","data":{"id":7}}`, string(msg.Body))
}

func TestAMQPMessageConflict(t *testing.T) {
	key, msg, err := message(events.ConflictDetected(events.Conflict{
		RoomID:    2,
		StartTime: "2025-06-02T09:00:00Z",
		EndTime:   "2025-06-02T10:00:00Z",
	}))
	require.NoError(t, err)

	assert.Equal(t, "conflict.detected", key)
	assert.JSONEq(t, `{
		"type": "conflict_detected",
		"data": {"roomId": 2, "startTime": "2025-06-02T09:00:00Z", "endTime": "2025-06-02T10:00:00Z"}
	}`, string(msg.Body))
}
