package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type ParticipationRepository interface {
	// CreateWithRole inserts the participation row and the PARTICIPANT role row
	// as a single atomic unit (both-or-neither).
	CreateWithRole(ctx context.Context, participation *model.ContestParticipation) error
	FindByUserAndContest(ctx context.Context, userID, contestID string) (*model.ContestParticipation, error)
	FindByID(ctx context.Context, id string) (*model.ContestParticipation, error)
	CountByContest(ctx context.Context, contestID string) (int, error)
	ListByContest(ctx context.Context, contestID string, limit, offset int) ([]model.ContestParticipation, int, error)
	UpdateStatus(ctx context.Context, id string, status model.ParticipationStatus) error
}

type pgParticipationRepository struct {
	db *sql.DB
}

func NewPgParticipationRepository(db *sql.DB) ParticipationRepository {
	return &pgParticipationRepository{db: db}
}

func (r *pgParticipationRepository) CreateWithRole(ctx context.Context, p *model.ContestParticipation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgParticipationRepository.CreateWithRole begin: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	insertParticipation := `INSERT INTO contest_participations (id, user_id, contest_id, status)
	                        VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertParticipation, p.ID, p.UserID, p.ContestID, p.Status); err != nil {
		return translateParticipationErr("CreateWithRole participation", err)
	}

	insertRole := `INSERT INTO contest_user_roles (id, user_id, contest_id, role)
	               VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertRole, uuid.NewString(), p.UserID, p.ContestID, model.ContestRoleParticipant); err != nil {
		return translateParticipationErr("CreateWithRole role", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgParticipationRepository.CreateWithRole commit: %w", err)
	}
	return nil
}

func translateParticipationErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("user is already registered for this contest: %w", common.ErrConflict)
	}
	return fmt.Errorf("pgParticipationRepository.%s: %w", op, err)
}

func (r *pgParticipationRepository) FindByUserAndContest(ctx context.Context, userID, contestID string) (*model.ContestParticipation, error) {
	query := `SELECT id, user_id, contest_id, status, registered_at, updated_at
	          FROM contest_participations WHERE user_id = $1 AND contest_id = $2`
	p := &model.ContestParticipation{}
	err := r.db.QueryRowContext(ctx, query, userID, contestID).Scan(
		&p.ID, &p.UserID, &p.ContestID, &p.Status, &p.RegisteredAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgParticipationRepository.FindByUserAndContest: %w", err)
	}
	return p, nil
}

func (r *pgParticipationRepository) FindByID(ctx context.Context, id string) (*model.ContestParticipation, error) {
	query := `SELECT id, user_id, contest_id, status, registered_at, updated_at
	          FROM contest_participations WHERE id = $1`
	p := &model.ContestParticipation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.ContestID, &p.Status, &p.RegisteredAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgParticipationRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgParticipationRepository) CountByContest(ctx context.Context, contestID string) (int, error) {
	query := `SELECT COUNT(*) FROM contest_participations
	          WHERE contest_id = $1 AND status NOT IN ('Rejected', 'Withdrawn')`
	var count int
	if err := r.db.QueryRowContext(ctx, query, contestID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgParticipationRepository.CountByContest: %w", err)
	}
	return count, nil
}

func (r *pgParticipationRepository) ListByContest(ctx context.Context, contestID string, limit, offset int) ([]model.ContestParticipation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM contest_participations WHERE contest_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, contestID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgParticipationRepository.ListByContest count: %w", err)
	}

	query := `SELECT p.id, p.user_id, p.contest_id, p.status, p.registered_at, p.updated_at, u.username
	          FROM contest_participations p
	          JOIN users u ON p.user_id = u.id
	          WHERE p.contest_id = $1
	          ORDER BY p.registered_at ASC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, contestID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgParticipationRepository.ListByContest query: %w", err)
	}
	defer rows.Close()

	participations := []model.ContestParticipation{}
	for rows.Next() {
		var p model.ContestParticipation
		if err := rows.Scan(&p.ID, &p.UserID, &p.ContestID, &p.Status, &p.RegisteredAt, &p.UpdatedAt, &p.UserUsername); err != nil {
			return nil, 0, fmt.Errorf("pgParticipationRepository.ListByContest scan: %w", err)
		}
		participations = append(participations, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgParticipationRepository.ListByContest rows.Err: %w", err)
	}
	return participations, total, nil
}

func (r *pgParticipationRepository) UpdateStatus(ctx context.Context, id string, status model.ParticipationStatus) error {
	query := `UPDATE contest_participations SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("pgParticipationRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
