package model

import "time"

// JudgingAssignment binds a judge to a contest. Unique on (judge_id, contest_id).
// Once any score exists for the judge within the contest, the assignment is
// permanent: removal is refused to preserve score provenance.
type JudgingAssignment struct {
	ID            string    `json:"id"`
	JudgeID       string    `json:"judge_id"`
	ContestID     string    `json:"contest_id"`
	AssignedByID  *string   `json:"assigned_by_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	JudgeUsername *string   `json:"judge_username,omitempty"` // For display
}

type JudgingCriteria struct {
	ID          string    `json:"id"`
	ContestID   string    `json:"contest_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MaxScore    float64   `json:"max_score"`
	Weight      float64   `json:"weight"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JudgingScore records one judge's evaluation of one submission against one
// criteria. Unique on (submission_id, judge_id, criteria_id).
type JudgingScore struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	JudgeID      string    `json:"judge_id"`
	CriteriaID   string    `json:"criteria_id"`
	Score        float64   `json:"score"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ContestResult is the weight-averaged standing of one submission.
type ContestResult struct {
	SubmissionID    string  `json:"submission_id"`
	SubmissionTitle string  `json:"submission_title"`
	CategoryID      string  `json:"category_id"`
	ParticipantID   string  `json:"participant_id"`
	ScoreCount      int     `json:"score_count"`
	WeightedScore   float64 `json:"weighted_score"`
}
