package model

import "time"

type ParticipationStatus string

const (
	ParticipationStatusPending   ParticipationStatus = "Pending"
	ParticipationStatusApproved  ParticipationStatus = "Approved"
	ParticipationStatusRejected  ParticipationStatus = "Rejected"
	ParticipationStatusWithdrawn ParticipationStatus = "Withdrawn"
)

// ContestParticipation binds a participant to a contest. Unique on (user_id, contest_id).
type ContestParticipation struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	ContestID    string              `json:"contest_id"`
	Status       ParticipationStatus `json:"status"`
	RegisteredAt time.Time           `json:"registered_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	UserUsername *string             `json:"user_username,omitempty"` // For display
}
