package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification — сохранённое событие для пользователя. Payload имеет вид {event, data}.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Payload   json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}

// NotificationPayload — тело уведомления, одинаковое для БД и WebSocket.
type NotificationPayload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

func NewNotification(userID uuid.UUID, event string, data map[string]any, now time.Time) (*Notification, error) {
	raw, err := json.Marshal(NotificationPayload{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("notification: marshal payload: %w", err)
	}
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Payload:   raw,
		CreatedAt: now,
	}, nil
}
