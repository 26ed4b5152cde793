package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestCreated       = "request.created"
	EventTypeRequestStatusUpdated = "request.status_updated"
)

// RequestEventTypes lists every travel request event type.
var RequestEventTypes = []string{EventTypeRequestCreated, EventTypeRequestStatusUpdated}

type RequestCreatedEvent struct {
	BaseEvent
	RequestID   int64 `json:"request_id"`
	RequesterID int64 `json:"requester_id"`
	ManagerID   int64 `json:"manager_id"`
}

func NewRequestCreatedEvent(requestID, requesterID, managerID int64) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"requester_id": requesterID,
				"manager_id":   managerID,
			},
		},
		RequestID:   requestID,
		RequesterID: requesterID,
		ManagerID:   managerID,
	}
}

type RequestStatusUpdatedEvent struct {
	BaseEvent
	RequestID      int64  `json:"request_id"`
	RequesterID    int64  `json:"requester_id"`
	ActorID        int64  `json:"actor_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

func NewRequestStatusUpdatedEvent(requestID, requesterID, actorID int64, previous, status string) *RequestStatusUpdatedEvent {
	return &RequestStatusUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestStatusUpdated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"request_id":      requestID,
				"requester_id":    requesterID,
				"actor_id":        actorID,
				"previous_status": previous,
				"status":          status,
			},
		},
		RequestID:      requestID,
		RequesterID:    requesterID,
		ActorID:        actorID,
		PreviousStatus: previous,
		Status:         status,
	}
}
