package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concursos_backend/internal/common"
	"concursos_backend/internal/domain/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.ContestSubmission) error
	FindSubmissionByID(ctx context.Context, id string) (*model.ContestSubmission, error)
	ListSubmissionsByContest(ctx context.Context, contestID string, limit, offset int) ([]model.ContestSubmission, int, error)
	ListSubmissionsByParticipation(ctx context.Context, participationID string) ([]model.ContestSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error
	DeleteSubmission(ctx context.Context, id string) error

	AddMedia(ctx context.Context, tx *sql.Tx, media []model.SubmissionMedia) error
	ListMediaBySubmission(ctx context.Context, submissionID string) ([]model.SubmissionMedia, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, tx *sql.Tx, s *model.ContestSubmission) error {
	query := `INSERT INTO contest_submissions (id, participation_id, category_id, title, description, status)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, s.ID, s.ParticipationID, s.CategoryID, s.Title, s.Description, s.Status)
	} else {
		_, err = r.db.ExecContext(ctx, query, s.ID, s.ParticipationID, s.CategoryID, s.Title, s.Description, s.Status)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindSubmissionByID(ctx context.Context, id string) (*model.ContestSubmission, error) {
	query := `
        SELECT s.id, s.participation_id, s.category_id, s.title, s.description, s.status,
               s.created_at, s.updated_at, p.user_id, c.name
        FROM contest_submissions s
        JOIN contest_participations p ON s.participation_id = p.id
        LEFT JOIN contest_categories c ON s.category_id = c.id
        WHERE s.id = $1`
	s := &model.ContestSubmission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ParticipationID, &s.CategoryID, &s.Title, &s.Description, &s.Status,
		&s.CreatedAt, &s.UpdatedAt, &s.OwnerUserID, &s.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindSubmissionByID: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) ListSubmissionsByContest(ctx context.Context, contestID string, limit, offset int) ([]model.ContestSubmission, int, error) {
	var total int
	countQuery := `SELECT COUNT(*)
	               FROM contest_submissions s
	               JOIN contest_participations p ON s.participation_id = p.id
	               WHERE p.contest_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, contestID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByContest count: %w", err)
	}

	query := `
        SELECT s.id, s.participation_id, s.category_id, s.title, s.description, s.status,
               s.created_at, s.updated_at, p.user_id, c.name
        FROM contest_submissions s
        JOIN contest_participations p ON s.participation_id = p.id
        LEFT JOIN contest_categories c ON s.category_id = c.id
        WHERE p.contest_id = $1
        ORDER BY s.created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, contestID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByContest query: %w", err)
	}
	defer rows.Close()

	submissions := []model.ContestSubmission{}
	for rows.Next() {
		var s model.ContestSubmission
		if err := rows.Scan(&s.ID, &s.ParticipationID, &s.CategoryID, &s.Title, &s.Description, &s.Status,
			&s.CreatedAt, &s.UpdatedAt, &s.OwnerUserID, &s.CategoryName); err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByContest scan: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByContest rows.Err: %w", err)
	}
	return submissions, total, nil
}

func (r *pgSubmissionRepository) ListSubmissionsByParticipation(ctx context.Context, participationID string) ([]model.ContestSubmission, error) {
	query := `SELECT id, participation_id, category_id, title, description, status, created_at, updated_at
	          FROM contest_submissions WHERE participation_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, participationID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByParticipation query: %w", err)
	}
	defer rows.Close()

	var submissions []model.ContestSubmission
	for rows.Next() {
		var s model.ContestSubmission
		if err := rows.Scan(&s.ID, &s.ParticipationID, &s.CategoryID, &s.Title, &s.Description, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByParticipation scan: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListSubmissionsByParticipation rows.Err: %w", err)
	}
	return submissions, nil
}

func (r *pgSubmissionRepository) UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	query := `UPDATE contest_submissions SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateSubmissionStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) DeleteSubmission(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contest_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.DeleteSubmission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) AddMedia(ctx context.Context, tx *sql.Tx, media []model.SubmissionMedia) error {
	if len(media) == 0 {
		return nil
	}
	query := `INSERT INTO submission_media (id, submission_id, url, kind, caption, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	// Sort order comes from the caller, which appends after existing rows.
	for _, m := range media {
		var err error
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, m.ID, m.SubmissionID, m.URL, m.Kind, m.Caption, m.SortOrder)
		} else {
			_, err = r.db.ExecContext(ctx, query, m.ID, m.SubmissionID, m.URL, m.Kind, m.Caption, m.SortOrder)
		}
		if err != nil {
			return fmt.Errorf("pgSubmissionRepository.AddMedia exec for media %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *pgSubmissionRepository) ListMediaBySubmission(ctx context.Context, submissionID string) ([]model.SubmissionMedia, error) {
	query := `SELECT id, submission_id, url, kind, caption, sort_order, created_at
	          FROM submission_media WHERE submission_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListMediaBySubmission query: %w", err)
	}
	defer rows.Close()

	var media []model.SubmissionMedia
	for rows.Next() {
		var m model.SubmissionMedia
		if err := rows.Scan(&m.ID, &m.SubmissionID, &m.URL, &m.Kind, &m.Caption, &m.SortOrder, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListMediaBySubmission scan: %w", err)
		}
		media = append(media, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListMediaBySubmission rows.Err: %w", err)
	}
	return media, nil
}
