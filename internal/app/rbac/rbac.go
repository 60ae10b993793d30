// Package rbac resolves per-contest capability sets from contest user roles.
package rbac

import (
	"context"
	"errors"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
	"concursos_backend/internal/domain/repository"
)

// Permission is a named capability on a contest.
type Permission string

const (
	PermManageContest     Permission = "manage_contest"
	PermJudge             Permission = "judge"
	PermParticipate       Permission = "participate"
	PermViewResults       Permission = "view_results"
	PermManageUsers       Permission = "manage_users"
	PermManageCategories  Permission = "manage_categories"
	PermManageSubmissions Permission = "manage_submissions"
)

// roleGrants is the static role -> permission table. Results are public:
// view_results is granted to every role and to the no-role case.
var roleGrants = map[model.ContestRole][]Permission{
	model.ContestRoleAdministrator: {
		PermManageContest, PermViewResults, PermManageUsers,
		PermManageCategories, PermManageSubmissions,
	},
	model.ContestRoleJudge:        {PermJudge, PermViewResults},
	model.ContestRoleParticipant:  {PermParticipate, PermViewResults},
	model.ContestRolePublicViewer: {PermViewResults},
}

// PermissionSet is the resolved capability set of one user on one contest.
// The zero value is not meaningful; build it with PermissionsForRole.
type PermissionSet struct {
	role   model.ContestRole
	grants map[Permission]bool
}

// PermissionsForRole builds the capability set for a role. An empty role means
// the user holds no role on the contest.
func PermissionsForRole(role model.ContestRole) PermissionSet {
	set := PermissionSet{role: role, grants: map[Permission]bool{PermViewResults: true}}
	for _, p := range roleGrants[role] {
		set.grants[p] = true
	}
	return set
}

// Has reports whether the set grants the named permission. The administrator
// override lives here and nowhere else: a contest administrator holds every
// permission, including names absent from the static table. All permission
// queries, including the JSON flag rendering, funnel through this method.
func (s PermissionSet) Has(p Permission) bool {
	if s.role == model.ContestRoleAdministrator {
		return true
	}
	return s.grants[p]
}

// Role returns the resolved contest role ("" when none).
func (s PermissionSet) Role() model.ContestRole {
	return s.role
}

// Flags is the wire representation of the capability set.
type Flags struct {
	Role                 model.ContestRole `json:"role,omitempty"`
	CanManageContest     bool              `json:"can_manage_contest"`
	CanJudge             bool              `json:"can_judge"`
	CanParticipate       bool              `json:"can_participate"`
	CanViewResults       bool              `json:"can_view_results"`
	CanManageUsers       bool              `json:"can_manage_users"`
	CanManageCategories  bool              `json:"can_manage_categories"`
	CanManageSubmissions bool              `json:"can_manage_submissions"`
}

func (s PermissionSet) Flags() Flags {
	return Flags{
		Role:                 s.role,
		CanManageContest:     s.Has(PermManageContest),
		CanJudge:             s.Has(PermJudge),
		CanParticipate:       s.Has(PermParticipate),
		CanViewResults:       s.Has(PermViewResults),
		CanManageUsers:       s.Has(PermManageUsers),
		CanManageCategories:  s.Has(PermManageCategories),
		CanManageSubmissions: s.Has(PermManageSubmissions),
	}
}

// Resolver resolves permissions against the role store. Pure read, no
// caching: every call re-reads the role assignment, so it is safe to share
// across request handlers.
type Resolver struct {
	roleRepo repository.RoleRepository
}

func NewResolver(roleRepo repository.RoleRepository) *Resolver {
	return &Resolver{roleRepo: roleRepo}
}

// Resolve looks up at most one role row for (user, contest). A missing row is
// not an error: it yields the no-role set (view-only).
func (r *Resolver) Resolve(ctx context.Context, userID, contestID string) (PermissionSet, error) {
	role, err := r.roleRepo.FindRole(ctx, userID, contestID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return PermissionsForRole(""), nil
		}
		return PermissionSet{}, common.Errorf("rbac.Resolve: %w", err)
	}
	return PermissionsForRole(role.Role), nil
}

// Require resolves permissions and returns common.ErrForbidden unless the
// named permission is granted.
func (r *Resolver) Require(ctx context.Context, userID, contestID string, p Permission) error {
	set, err := r.Resolve(ctx, userID, contestID)
	if err != nil {
		return err
	}
	if !set.Has(p) {
		return common.Errorf("missing %s permission on contest: %w", p, common.ErrForbidden)
	}
	return nil
}
