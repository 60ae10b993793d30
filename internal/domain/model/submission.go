package model

import "time"

type SubmissionStatus string

const (
	SubmissionStatusSubmitted    SubmissionStatus = "Submitted"
	SubmissionStatusDisqualified SubmissionStatus = "Disqualified"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// ContestSubmission is a livestock entry made under a participation, within a category.
type ContestSubmission struct {
	ID              string            `json:"id"`
	ParticipationID string            `json:"participation_id"`
	CategoryID      string            `json:"category_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Status          SubmissionStatus  `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Media           []SubmissionMedia `json:"media,omitempty"`
	OwnerUserID     *string           `json:"owner_user_id,omitempty"` // For display/ownership checks
	CategoryName    *string           `json:"category_name,omitempty"` // For display
}

// SubmissionMedia is a stored reference to an already-uploaded file; upload
// plumbing itself lives outside this service.
type SubmissionMedia struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	URL          string    `json:"url"`
	Kind         MediaKind `json:"kind"`
	Caption      *string   `json:"caption,omitempty"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}
