package model

import "time"

// ContestRole is a per-contest, per-user role.
type ContestRole string

const (
	ContestRoleAdministrator ContestRole = "CONTEST_ADMINISTRATOR"
	ContestRoleJudge         ContestRole = "JUDGE"
	ContestRoleParticipant   ContestRole = "PARTICIPANT"
	ContestRolePublicViewer  ContestRole = "PUBLIC_VIEWER"
)

// ContestUserRole grants one user one role within one contest's scope.
// The (user_id, contest_id) pair is unique: a user holds at most one role per contest.
type ContestUserRole struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	ContestID string      `json:"contest_id"`
	Role      ContestRole `json:"role"`
	GrantedAt time.Time   `json:"granted_at"`
}
