package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/model"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
)

func TestNotifyUserQueuesHubEvent(t *testing.T) {
	userID := uuid.New()

	var created []model.Notification
	repo := &fakeNotificationRepo{create: func(n *model.Notification) error {
		created = append(created, *n)
		return nil
	}}

	var notices pendingNotices
	err := notifyUser(context.Background(), repo, &notices, userID, "Your buy-back request was approved", model.NotifyBuyback)
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, userID, created[0].UserID)

	// The inbox row and its queued hub event travel together.
	require.Len(t, notices.events, 1)
	assert.Equal(t, userID.String(), notices.events[0]["user_id"])
	assert.Equal(t, "Your buy-back request was approved", notices.events[0]["message"])
	assert.Equal(t, model.NotifyBuyback, notices.events[0]["type"])
}

func TestNotifyUserSkipsQueueOnError(t *testing.T) {
	repo := &fakeNotificationRepo{create: func(*model.Notification) error {
		return errors.New("insert failed")
	}}

	var notices pendingNotices
	err := notifyUser(context.Background(), repo, &notices, uuid.New(), "msg", model.NotifyBuyback)
	assert.Error(t, err)
	assert.Empty(t, notices.events)
}

func TestNotifyAdminsFansOut(t *testing.T) {
	admins := []model.User{{ID: uuid.New()}, {ID: uuid.New()}}
	userRepo := &fakeUserRepo{listByRole: func(role string) ([]model.User, error) {
		assert.Equal(t, model.RoleAdmin, role)
		return admins, nil
	}}

	var created []model.Notification
	notifRepo := &fakeNotificationRepo{create: func(n *model.Notification) error {
		created = append(created, *n)
		return nil
	}}

	var notices pendingNotices
	err := notifyAdmins(context.Background(), userRepo, notifRepo, &notices, "new buy-back request", model.NotifyBuyback)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, notices.events, 2)
}

func TestPendingNoticesFlushBroadcasts(t *testing.T) {
	hub := ws.NewHub()
	hub.Broadcast = make(chan []byte, 4)

	userID := uuid.New()
	var notices pendingNotices
	notices.record(userID, "stock threshold reached", model.NotifyRestock)
	notices.flush(hub)

	require.Len(t, hub.Broadcast, 1)
	var event ws.Event
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &event))
	assert.Equal(t, ws.EventNotification, event.Event)
	assert.Equal(t, userID.String(), event.Data["user_id"])
	assert.Equal(t, "stock threshold reached", event.Data["message"])
}

func TestPendingNoticesEmptyFlushIsNoop(t *testing.T) {
	hub := ws.NewHub()
	hub.Broadcast = make(chan []byte, 1)

	var notices pendingNotices
	notices.flush(hub)
	assert.Empty(t, hub.Broadcast)
}
