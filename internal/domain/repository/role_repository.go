package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type RoleRepository interface {
	// FindRole returns the role a user holds on a contest, or common.ErrNotFound.
	// (user_id, contest_id) is unique, but legacy duplicates resolve by a fixed
	// priority: administrator > judge > participant > viewer.
	FindRole(ctx context.Context, userID, contestID string) (*model.ContestUserRole, error)
	Grant(ctx context.Context, tx *sql.Tx, role *model.ContestUserRole) error
	Revoke(ctx context.Context, tx *sql.Tx, userID, contestID string, role model.ContestRole) error
}

type pgRoleRepository struct {
	db *sql.DB
}

func NewPgRoleRepository(db *sql.DB) RoleRepository {
	return &pgRoleRepository{db: db}
}

func (r *pgRoleRepository) FindRole(ctx context.Context, userID, contestID string) (*model.ContestUserRole, error) {
	query := `SELECT id, user_id, contest_id, role, granted_at
	          FROM contest_user_roles
	          WHERE user_id = $1 AND contest_id = $2
	          ORDER BY CASE role
	              WHEN 'CONTEST_ADMINISTRATOR' THEN 1
	              WHEN 'JUDGE' THEN 2
	              WHEN 'PARTICIPANT' THEN 3
	              ELSE 4
	          END
	          LIMIT 1`
	role := &model.ContestUserRole{}
	err := r.db.QueryRowContext(ctx, query, userID, contestID).Scan(
		&role.ID, &role.UserID, &role.ContestID, &role.Role, &role.GrantedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRoleRepository.FindRole: %w", err)
	}
	return role, nil
}

func (r *pgRoleRepository) Grant(ctx context.Context, tx *sql.Tx, role *model.ContestUserRole) error {
	query := `INSERT INTO contest_user_roles (id, user_id, contest_id, role)
	          VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, role.ID, role.UserID, role.ContestID, role.Role)
	} else {
		_, err = r.db.ExecContext(ctx, query, role.ID, role.UserID, role.ContestID, role.Role)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // One role per (user, contest)
			return fmt.Errorf("user already holds a role on this contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgRoleRepository.Grant: %w", err)
	}
	return nil
}

func (r *pgRoleRepository) Revoke(ctx context.Context, tx *sql.Tx, userID, contestID string, role model.ContestRole) error {
	query := `DELETE FROM contest_user_roles WHERE user_id = $1 AND contest_id = $2 AND role = $3`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, userID, contestID, role)
	} else {
		res, err = r.db.ExecContext(ctx, query, userID, contestID, role)
	}
	if err != nil {
		return fmt.Errorf("pgRoleRepository.Revoke: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
