package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/rental-backend/internal/domain/entity"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/pkg/apperror"
	"github.com/ignatzorin/rental-backend/internal/usecase/fakes"
	"github.com/ignatzorin/rental-backend/internal/usecase/notification"
)

type recordingPusher struct {
	mu       sync.Mutex
	payloads map[uuid.UUID][][]byte
}

func (p *recordingPusher) Push(userID uuid.UUID, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.payloads == nil {
		p.payloads = map[uuid.UUID][][]byte{}
	}
	p.payloads[userID] = append(p.payloads[userID], payload)
}

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func TestDispatcher_PersistsAndPushes(t *testing.T) {
	repo := fakes.NewNotificationRepo()
	pusher := &recordingPusher{}
	store := fakes.NewStore()
	userID := uuid.New()
	appID := uuid.New()

	d := notification.NewDispatcher(repo, fakes.NewUserRepo(store), pusher, nil)
	err := d.Notify(context.Background(), userID, "application_approved", map[string]any{"application_id": appID})
	require.NoError(t, err)

	list, err := repo.List(context.Background(), userID, 10, 0, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var payload entity.NotificationPayload
	require.NoError(t, json.Unmarshal(list[0].Payload, &payload))
	assert.Equal(t, "application_approved", payload.Event)
	assert.Equal(t, appID.String(), payload.Data["application_id"])

	require.Len(t, pusher.payloads[userID], 1)
	assert.JSONEq(t, string(list[0].Payload), string(pusher.payloads[userID][0]))
}

func TestDispatcher_SaveFailure(t *testing.T) {
	repo := fakes.NewNotificationRepo()
	repo.Err = errors.New("db down")
	pusher := &recordingPusher{}

	d := notification.NewDispatcher(repo, fakes.NewUserRepo(fakes.NewStore()), pusher, nil)
	err := d.Notify(context.Background(), uuid.New(), "application_submitted", nil)
	assert.Error(t, err)
	assert.Empty(t, pusher.payloads)
}

func TestDispatcher_SendsEmailWhenAddressKnown(t *testing.T) {
	store := fakes.NewStore()
	email := "awa@example.com"
	userID := uuid.New()
	store.PutUser(&entity.User{ID: userID, Name: "Awa", Email: &email, Role: valueobject.RoleTenant})

	sender := &mockEmail{}
	sender.On("Send", mock.Anything, email, "Ваша заявка отклонена", mock.MatchedBy(func(body string) bool {
		return containsAll(body, "Awa", "Причина: Dossier incomplet")
	})).Return(errors.New("throttled"))

	d := notification.NewDispatcher(fakes.NewNotificationRepo(), fakes.NewUserRepo(store), nil, sender)
	err := d.Notify(context.Background(), userID, "application_rejected", map[string]any{"reason": "Dossier incomplet"})

	// ошибка почты не возвращается вызывающему
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestDispatcher_SkipsEmailWithoutAddress(t *testing.T) {
	store := fakes.NewStore()
	userID := uuid.New()
	store.PutUser(&entity.User{ID: userID, Name: "Moussa", Role: valueobject.RoleLandlord})

	sender := &mockEmail{}
	d := notification.NewDispatcher(fakes.NewNotificationRepo(), fakes.NewUserRepo(store), nil, sender)
	require.NoError(t, d.Notify(context.Background(), userID, "application_submitted", nil))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_MarkAsReadOwnership(t *testing.T) {
	repo := fakes.NewNotificationRepo()
	svc := notification.NewService(repo)
	owner := uuid.New()

	n, err := entity.NewNotification(owner, "application_approved", nil, fixedTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), n))

	err = svc.MarkAsRead(context.Background(), uuid.New(), n.ID)
	assert.True(t, apperror.IsNotFound(err))

	count, err := svc.CountUnread(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.MarkAsRead(context.Background(), owner, n.ID))
	count, err = svc.CountUnread(context.Background(), owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_MarkAllAsRead(t *testing.T) {
	repo := fakes.NewNotificationRepo()
	svc := notification.NewService(repo)
	owner := uuid.New()
	for i := 0; i < 3; i++ {
		n, err := entity.NewNotification(owner, "application_submitted", nil, fixedTime)
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), n))
	}

	updated, err := svc.MarkAllAsRead(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	unread, err := svc.List(context.Background(), owner, 0, 0, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

var fixedTime = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
