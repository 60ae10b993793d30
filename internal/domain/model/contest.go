package model

import "time"

type ContestStatus string

const (
	ContestStatusDraft              ContestStatus = "Draft"
	ContestStatusRegistrationOpen   ContestStatus = "RegistrationOpen"
	ContestStatusRegistrationClosed ContestStatus = "RegistrationClosed"
	ContestStatusJudging            ContestStatus = "Judging"
	ContestStatusFinished           ContestStatus = "Finished"
)

type Contest struct {
	ID                string            `json:"id"`
	CompanyID         string            `json:"company_id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	Description       string            `json:"description"`
	Status            ContestStatus     `json:"status"`
	RegistrationStart time.Time         `json:"registration_start"`
	RegistrationEnd   time.Time         `json:"registration_end"`
	MaxParticipants   *int              `json:"max_participants,omitempty"` // nil means uncapped
	CreatedByID       *string           `json:"created_by_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	CompanyName       *string           `json:"company_name,omitempty"` // For display
	Categories        []ContestCategory `json:"categories,omitempty"`
}

type ContestCategory struct {
	ID          string    `json:"id"`
	ContestID   string    `json:"contest_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
