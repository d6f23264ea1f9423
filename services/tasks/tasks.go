package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names routed by the async worker.
const (
	TypeBroadcastSend   = "broadcast:send"
	TypeBookingReminder = "booking:reminder"
)

// BroadcastPayload carries a queued broadcast fan-out.
type BroadcastPayload struct {
	BroadcastID    string   `json:"broadcastId"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	TargetAudience string   `json:"targetAudience"`
	UserIDs        []string `json:"userIds,omitempty"`
	SentBy         string   `json:"sentBy"`
}

// ReminderPayload carries a scheduled booking reminder.
type ReminderPayload struct {
	BookingID     string `json:"bookingId"`
	BookingNumber string `json:"bookingNumber"`
	ResidentID    string `json:"residentId"`
	SevakID       string `json:"sevakId,omitempty"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
}

// NewBroadcastTask builds a fan-out task for immediate processing.
func NewBroadcastTask(payload BroadcastPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBroadcastSend, b), nil
}

// NewReminderTask builds a reminder task scheduled for fireAt.
func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
