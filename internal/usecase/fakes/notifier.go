package fakes

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Notification struct {
	UserID uuid.UUID
	Event  string
	Data   map[string]any
}

// Notifier запоминает отправленные уведомления.
type Notifier struct {
	mu   sync.Mutex
	Sent []Notification
	Err  error
}

func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, event string, data map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{UserID: userID, Event: event, Data: data})
	return n.Err
}

func (n *Notifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		out = append(out, s.Event)
	}
	return out
}

// TrustRefresher запоминает, для кого запрошен пересчёт оценки.
type TrustRefresher struct {
	mu    sync.Mutex
	Users []uuid.UUID
}

func (t *TrustRefresher) Refresh(ctx context.Context, userIDs ...uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Users = append(t.Users, userIDs...)
}
