package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ContestRepository interface {
	CreateContest(ctx context.Context, tx *sql.Tx, contest *model.Contest) error
	UpdateContest(ctx context.Context, contest *model.Contest) error
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)
	FindContestBySlug(ctx context.Context, slug string) (*model.Contest, error)
	ListContests(ctx context.Context, limit, offset int, status model.ContestStatus, companyID string) ([]model.Contest, int, error)

	CreateCategory(ctx context.Context, category *model.ContestCategory) error
	UpdateCategory(ctx context.Context, category *model.ContestCategory) error
	DeleteCategory(ctx context.Context, id string) error
	FindCategoryByID(ctx context.Context, id string) (*model.ContestCategory, error)
	ListCategoriesByContest(ctx context.Context, contestID string) ([]model.ContestCategory, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateContest(ctx context.Context, tx *sql.Tx, c *model.Contest) error {
	query := `INSERT INTO contests (id, company_id, name, slug, description, status, registration_start, registration_end, max_participants, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.ID, c.CompanyID, c.Name, c.Slug, c.Description, c.Status, c.RegistrationStart, c.RegistrationEnd, c.MaxParticipants, c.CreatedByID)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.ID, c.CompanyID, c.Name, c.Slug, c.Description, c.Status, c.RegistrationStart, c.RegistrationEnd, c.MaxParticipants, c.CreatedByID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("contest with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.CreateContest: %w", err)
	}
	return nil
}

func (r *pgContestRepository) UpdateContest(ctx context.Context, c *model.Contest) error {
	query := `UPDATE contests SET
	            name = $1, slug = $2, description = $3, status = $4,
	            registration_start = $5, registration_end = $6, max_participants = $7,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.Status, c.RegistrationStart, c.RegistrationEnd, c.MaxParticipants, c.ID)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpdateContest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	return r.findContest(ctx, "c.id = $1", id)
}

func (r *pgContestRepository) FindContestBySlug(ctx context.Context, slug string) (*model.Contest, error) {
	return r.findContest(ctx, "c.slug = $1", slug)
}

func (r *pgContestRepository) findContest(ctx context.Context, where string, arg interface{}) (*model.Contest, error) {
	query := `
        SELECT c.id, c.company_id, co.name AS company_name, c.name, c.slug, c.description, c.status,
               c.registration_start, c.registration_end, c.max_participants,
               c.created_by, c.created_at, c.updated_at
        FROM contests c
        LEFT JOIN companies co ON c.company_id = co.id
        WHERE ` + where

	contest := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&contest.ID, &contest.CompanyID, &contest.CompanyName, &contest.Name, &contest.Slug, &contest.Description, &contest.Status,
		&contest.RegistrationStart, &contest.RegistrationEnd, &contest.MaxParticipants,
		&contest.CreatedByID, &contest.CreatedAt, &contest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.findContest: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) ListContests(ctx context.Context, limit, offset int, status model.ContestStatus, companyID string) ([]model.Contest, int, error) {
	var baseQuery strings.Builder
	baseQuery.WriteString(`
        SELECT c.id, c.company_id, c.name, c.slug, c.description, c.status,
               c.registration_start, c.registration_end, c.max_participants, c.created_at, c.updated_at
        FROM contests c`)

	var countQuery strings.Builder
	countQuery.WriteString(`SELECT COUNT(*) FROM contests c`)

	var conditions []string
	var args []interface{}
	argID := 1

	if status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argID))
		args = append(args, status)
		argID++
	}
	if companyID != "" {
		conditions = append(conditions, fmt.Sprintf("c.company_id = $%d", argID))
		args = append(args, companyID)
		argID++
	}

	if len(conditions) > 0 {
		whereClause := " WHERE " + strings.Join(conditions, " AND ")
		baseQuery.WriteString(whereClause)
		countQuery.WriteString(whereClause)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests count: %w", err)
	}

	baseQuery.WriteString(fmt.Sprintf(" ORDER BY c.registration_start DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests query: %w", err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Slug, &c.Description, &c.Status,
			&c.RegistrationStart, &c.RegistrationEnd, &c.MaxParticipants, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgContestRepository.ListContests scan: %w", err)
		}
		contests = append(contests, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests rows.Err: %w", err)
	}
	return contests, total, nil
}

func (r *pgContestRepository) CreateCategory(ctx context.Context, cat *model.ContestCategory) error {
	query := `INSERT INTO contest_categories (id, contest_id, name, description, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, cat.ID, cat.ContestID, cat.Name, cat.Description, cat.SortOrder)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("category with this name already exists in contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.CreateCategory: %w", err)
	}
	return nil
}

func (r *pgContestRepository) UpdateCategory(ctx context.Context, cat *model.ContestCategory) error {
	query := `UPDATE contest_categories SET
	            name = $1, description = $2, sort_order = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, cat.Name, cat.Description, cat.SortOrder, cat.ID)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpdateCategory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContestRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contest_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgContestRepository.DeleteCategory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgContestRepository) FindCategoryByID(ctx context.Context, id string) (*model.ContestCategory, error) {
	query := `SELECT id, contest_id, name, description, sort_order, created_at, updated_at
	          FROM contest_categories WHERE id = $1`
	cat := &model.ContestCategory{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cat.ID, &cat.ContestID, &cat.Name, &cat.Description, &cat.SortOrder, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindCategoryByID: %w", err)
	}
	return cat, nil
}

func (r *pgContestRepository) ListCategoriesByContest(ctx context.Context, contestID string) ([]model.ContestCategory, error) {
	query := `SELECT id, contest_id, name, description, sort_order, created_at, updated_at
	          FROM contest_categories WHERE contest_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListCategoriesByContest query: %w", err)
	}
	defer rows.Close()

	var categories []model.ContestCategory
	for rows.Next() {
		var cat model.ContestCategory
		if err := rows.Scan(&cat.ID, &cat.ContestID, &cat.Name, &cat.Description, &cat.SortOrder, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListCategoriesByContest scan: %w", err)
		}
		categories = append(categories, cat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListCategoriesByContest rows.Err: %w", err)
	}
	return categories, nil
}
