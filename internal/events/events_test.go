package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "booking.created", TypeBookingCreated.RoutingKey())
	assert.Equal(t, "booking.cancelled", TypeBookingCancelled.RoutingKey())
	assert.Equal(t, "room.deleted", TypeRoomDeleted.RoutingKey())
	assert.Equal(t, "conflict.detected", TypeConflictDetected.RoutingKey())
}

func TestEnvelopeShape(t *testing.T) {
	data, err := json.Marshal(ConflictDetected(Conflict{
		RoomID:    3,
		StartTime: "2025-06-02T09:00:00Z",
		EndTime:   "2025-06-02T10:00:00Z",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "conflict_detected",
		"data": {
			"roomId": 3,
			"startTime": "2025-06-02T09:00:00Z",
			"endTime": "2025-06-02T10:00:00Z"
		}
	}`, string(data))
}
