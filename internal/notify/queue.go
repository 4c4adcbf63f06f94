package notify

import (
	"context"
	"fmt"
	"log"

	"focus-planner/internal/model"
)

// Queue drains notifications sequentially through a single provider, one
// in flight at a time. Enqueueing never blocks the caller; when the buffer
// is full the notification is dropped with a log line.
type Queue struct {
	provider Provider
	jobs     chan Notification
}

func NewQueue(provider Provider, size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		provider: provider,
		jobs:     make(chan Notification, size),
	}
}

// Run consumes the queue until ctx is cancelled. Delivery failures are
// logged and do not stop the drain.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-q.jobs:
			if err := q.provider.Send(ctx, n); err != nil {
				log.Printf("send push: %v", err)
			}
		}
	}
}

func (q *Queue) enqueue(n Notification) {
	select {
	case q.jobs <- n:
	default:
		log.Printf("push queue full, dropping %v", n.Payload["type"])
	}
}

func (q *Queue) TaskReminder(user model.User, task model.Task) {
	q.enqueue(Notification{
		ChatID: user.TelegramChatID,
		Title:  "Task reminder",
		Body:   fmt.Sprintf("Don't forget to finish: %s", task.Title),
		Payload: map[string]interface{}{
			"type":    "task_reminder",
			"task_id": task.ID,
		},
	})
}

func (q *Queue) FocusSessionStarted(user model.User) {
	q.enqueue(Notification{
		ChatID:  user.TelegramChatID,
		Title:   "Focus session started",
		Body:    "Keep your concentration!",
		Payload: map[string]interface{}{"type": "focus_start"},
	})
}

func (q *Queue) FocusSessionFinished(user model.User) {
	q.enqueue(Notification{
		ChatID:  user.TelegramChatID,
		Title:   "Focus session finished",
		Body:    "Time to rest.",
		Payload: map[string]interface{}{"type": "focus_end"},
	})
}

func (q *Queue) BreakFinished(user model.User) {
	q.enqueue(Notification{
		ChatID:  user.TelegramChatID,
		Title:   "Break finished",
		Body:    "Back to work!",
		Payload: map[string]interface{}{"type": "break_end"},
	})
}

func (q *Queue) DeviceOnline(user model.User, deviceID uint) {
	q.enqueue(Notification{
		ChatID: user.TelegramChatID,
		Title:  "Device online",
		Body:   fmt.Sprintf("Device #%d is back on the network.", deviceID),
		Payload: map[string]interface{}{
			"type":      "device_online",
			"device_id": deviceID,
		},
	})
}

func (q *Queue) DeviceOffline(user model.User, deviceID uint) {
	q.enqueue(Notification{
		ChatID: user.TelegramChatID,
		Title:  "Device unreachable",
		Body:   fmt.Sprintf("Device #%d stopped responding.", deviceID),
		Payload: map[string]interface{}{
			"type":      "device_offline",
			"device_id": deviceID,
		},
	})
}

func (q *Queue) OverloadWarning(user model.User, overloadDays int) {
	q.enqueue(Notification{
		ChatID: user.TelegramChatID,
		Title:  "Overload warning",
		Body:   fmt.Sprintf("You had %d very heavy days. Review your balance.", overloadDays),
		Payload: map[string]interface{}{
			"type":     "overload_warning",
			"overload": overloadDays,
		},
	})
}

func (q *Queue) DailySummary(user model.User, stats model.Statistics) {
	q.enqueue(Notification{
		ChatID: user.TelegramChatID,
		Title:  "Daily summary",
		Body:   fmt.Sprintf("Tasks completed: %d%%", stats.CompletedPercent),
		Payload: map[string]interface{}{
			"type":      "daily_summary",
			"completed": stats.CompletedPercent,
			"overload":  stats.OverloadDays,
		},
	})
}
