package model

import (
	"encoding/json"
	"time"
)

const (
	EventParticipantRegistered = "participant.registered"
	EventParticipantReviewed   = "participant.reviewed"
	EventJudgeAssigned         = "judge.assigned"
	EventJudgeRemoved          = "judge.removed"
	EventScoreRecorded         = "score.recorded"
)

// NotificationEvent is the payload pushed onto the Redis queue by services and
// drained by the notification worker.
type NotificationEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	RecipientID string          `json:"recipient_id"`
	ContestID   string          `json:"contest_id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	EmittedAt   time.Time       `json:"emitted_at"`
}

// Notification is the persisted form of a delivered event.
type Notification struct {
	ID          string          `json:"id"`
	RecipientID string          `json:"recipient_id"`
	ContestID   string          `json:"contest_id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	DeliveredAt time.Time       `json:"delivered_at"`
}
