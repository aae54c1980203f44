package services

import (
	"context"

	"github.com/google/uuid"
)

// Event kinds sent over the realtime hub.
const (
	EventMessageCreated    = "message.created"
	EventScheduleCompleted = "schedule.completed"
	EventConsumptionLogged = "food_history.logged"
	EventWaterLogged       = "water.logged"
)

// Pusher delivers mobile push notifications. PushService implements it.
type Pusher interface {
	PushToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string)
}

// Notifier fans events out to open websockets and, when asked, to devices.
// Both sinks are optional; a zero Notifier drops everything.
type Notifier struct {
	hub  *RealtimeHub
	push Pusher
}

func NewNotifier(hub *RealtimeHub, push Pusher) *Notifier {
	return &Notifier{hub: hub, push: push}
}

func (n *Notifier) Emit(userID uuid.UUID, kind string, data any) {
	if n == nil || n.hub == nil {
		return
	}
	n.hub.Broadcast(userID, map[string]any{"kind": kind, "data": data})
}

func (n *Notifier) Push(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if n == nil || n.push == nil {
		return
	}
	n.push.PushToUser(ctx, userID, title, body, data)
}
