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

type JudgingRepository interface {
	// AssignJudge inserts the assignment row and the JUDGE role row as a single
	// atomic unit (both-or-neither).
	AssignJudge(ctx context.Context, assignment *model.JudgingAssignment) error
	// RemoveJudge deletes the assignment row and the JUDGE role row atomically.
	// Score-existence checks are the caller's responsibility.
	RemoveJudge(ctx context.Context, judgeID, contestID string) error
	FindAssignment(ctx context.Context, judgeID, contestID string) (*model.JudgingAssignment, error)
	ListAssignmentsByContest(ctx context.Context, contestID string) ([]model.JudgingAssignment, error)
	// CountScoresByJudgeAndContest counts scores a judge recorded within a
	// contest, joining score -> submission -> participation -> contest.
	CountScoresByJudgeAndContest(ctx context.Context, judgeID, contestID string) (int, error)

	CreateCriteria(ctx context.Context, criteria *model.JudgingCriteria) error
	UpdateCriteria(ctx context.Context, criteria *model.JudgingCriteria) error
	DeleteCriteria(ctx context.Context, id string) error
	FindCriteriaByID(ctx context.Context, id string) (*model.JudgingCriteria, error)
	ListCriteriaByContest(ctx context.Context, contestID string) ([]model.JudgingCriteria, error)

	CreateScore(ctx context.Context, score *model.JudgingScore) error
	ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error)
	GetContestResults(ctx context.Context, contestID string) ([]model.ContestResult, error)
}

type pgJudgingRepository struct {
	db *sql.DB
}

func NewPgJudgingRepository(db *sql.DB) JudgingRepository {
	return &pgJudgingRepository{db: db}
}

func (r *pgJudgingRepository) AssignJudge(ctx context.Context, a *model.JudgingAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.AssignJudge begin: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	insertAssignment := `INSERT INTO judging_assignments (id, judge_id, contest_id, assigned_by)
	                     VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertAssignment, a.ID, a.JudgeID, a.ContestID, a.AssignedByID); err != nil {
		return translateJudgingErr("AssignJudge assignment", err)
	}

	insertRole := `INSERT INTO contest_user_roles (id, user_id, contest_id, role)
	               VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertRole, uuid.NewString(), a.JudgeID, a.ContestID, model.ContestRoleJudge); err != nil {
		return translateJudgingErr("AssignJudge role", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgJudgingRepository.AssignJudge commit: %w", err)
	}
	return nil
}

func (r *pgJudgingRepository) RemoveJudge(ctx context.Context, judgeID, contestID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.RemoveJudge begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM judging_assignments WHERE judge_id = $1 AND contest_id = $2`, judgeID, contestID)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.RemoveJudge assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM contest_user_roles WHERE user_id = $1 AND contest_id = $2 AND role = $3`,
		judgeID, contestID, model.ContestRoleJudge)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.RemoveJudge role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgJudgingRepository.RemoveJudge commit: %w", err)
	}
	return nil
}

func translateJudgingErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("judge is already assigned to this contest: %w", common.ErrConflict)
	}
	return fmt.Errorf("pgJudgingRepository.%s: %w", op, err)
}

func (r *pgJudgingRepository) FindAssignment(ctx context.Context, judgeID, contestID string) (*model.JudgingAssignment, error) {
	query := `SELECT a.id, a.judge_id, a.contest_id, a.assigned_by, a.created_at
	          FROM judging_assignments a WHERE a.judge_id = $1 AND a.contest_id = $2`
	a := &model.JudgingAssignment{}
	err := r.db.QueryRowContext(ctx, query, judgeID, contestID).Scan(
		&a.ID, &a.JudgeID, &a.ContestID, &a.AssignedByID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgJudgingRepository.FindAssignment: %w", err)
	}
	return a, nil
}

func (r *pgJudgingRepository) ListAssignmentsByContest(ctx context.Context, contestID string) ([]model.JudgingAssignment, error) {
	query := `SELECT a.id, a.judge_id, a.contest_id, a.assigned_by, a.created_at, u.username
	          FROM judging_assignments a
	          JOIN users u ON a.judge_id = u.id
	          WHERE a.contest_id = $1
	          ORDER BY a.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListAssignmentsByContest query: %w", err)
	}
	defer rows.Close()

	var assignments []model.JudgingAssignment
	for rows.Next() {
		var a model.JudgingAssignment
		if err := rows.Scan(&a.ID, &a.JudgeID, &a.ContestID, &a.AssignedByID, &a.CreatedAt, &a.JudgeUsername); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.ListAssignmentsByContest scan: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListAssignmentsByContest rows.Err: %w", err)
	}
	return assignments, nil
}

func (r *pgJudgingRepository) CountScoresByJudgeAndContest(ctx context.Context, judgeID, contestID string) (int, error) {
	query := `SELECT COUNT(*)
	          FROM judging_scores js
	          JOIN contest_submissions s ON js.submission_id = s.id
	          JOIN contest_participations p ON s.participation_id = p.id
	          WHERE js.judge_id = $1 AND p.contest_id = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, judgeID, contestID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgJudgingRepository.CountScoresByJudgeAndContest: %w", err)
	}
	return count, nil
}

func (r *pgJudgingRepository) CreateCriteria(ctx context.Context, c *model.JudgingCriteria) error {
	query := `INSERT INTO judging_criteria (id, contest_id, name, description, max_score, weight, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.ContestID, c.Name, c.Description, c.MaxScore, c.Weight, c.SortOrder)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("criteria with this name already exists in contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgJudgingRepository.CreateCriteria: %w", err)
	}
	return nil
}

func (r *pgJudgingRepository) UpdateCriteria(ctx context.Context, c *model.JudgingCriteria) error {
	query := `UPDATE judging_criteria SET
	            name = $1, description = $2, max_score = $3, weight = $4, sort_order = $5,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.MaxScore, c.Weight, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.UpdateCriteria: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgJudgingRepository) DeleteCriteria(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM judging_criteria WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.DeleteCriteria: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgJudgingRepository) FindCriteriaByID(ctx context.Context, id string) (*model.JudgingCriteria, error) {
	query := `SELECT id, contest_id, name, description, max_score, weight, sort_order, created_at, updated_at
	          FROM judging_criteria WHERE id = $1`
	c := &model.JudgingCriteria{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ContestID, &c.Name, &c.Description, &c.MaxScore, &c.Weight, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgJudgingRepository.FindCriteriaByID: %w", err)
	}
	return c, nil
}

func (r *pgJudgingRepository) ListCriteriaByContest(ctx context.Context, contestID string) ([]model.JudgingCriteria, error) {
	query := `SELECT id, contest_id, name, description, max_score, weight, sort_order, created_at, updated_at
	          FROM judging_criteria WHERE contest_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListCriteriaByContest query: %w", err)
	}
	defer rows.Close()

	var criteria []model.JudgingCriteria
	for rows.Next() {
		var c model.JudgingCriteria
		if err := rows.Scan(&c.ID, &c.ContestID, &c.Name, &c.Description, &c.MaxScore, &c.Weight, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.ListCriteriaByContest scan: %w", err)
		}
		criteria = append(criteria, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListCriteriaByContest rows.Err: %w", err)
	}
	return criteria, nil
}

func (r *pgJudgingRepository) CreateScore(ctx context.Context, s *model.JudgingScore) error {
	query := `INSERT INTO judging_scores (id, submission_id, judge_id, criteria_id, score, comment)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.SubmissionID, s.JudgeID, s.CriteriaID, s.Score, s.Comment)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // One score per (submission, judge, criteria)
			return fmt.Errorf("score already recorded for this submission and criteria: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgJudgingRepository.CreateScore: %w", err)
	}
	return nil
}

func (r *pgJudgingRepository) ListScoresBySubmission(ctx context.Context, submissionID string) ([]model.JudgingScore, error) {
	query := `SELECT id, submission_id, judge_id, criteria_id, score, comment, created_at, updated_at
	          FROM judging_scores WHERE submission_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListScoresBySubmission query: %w", err)
	}
	defer rows.Close()

	var scores []model.JudgingScore
	for rows.Next() {
		var s model.JudgingScore
		if err := rows.Scan(&s.ID, &s.SubmissionID, &s.JudgeID, &s.CriteriaID, &s.Score, &s.Comment, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.ListScoresBySubmission scan: %w", err)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListScoresBySubmission rows.Err: %w", err)
	}
	return scores, nil
}

func (r *pgJudgingRepository) GetContestResults(ctx context.Context, contestID string) ([]model.ContestResult, error) {
	query := `
        SELECT s.id, s.title, s.category_id, p.user_id,
               COUNT(js.id) AS score_count,
               COALESCE(SUM(js.score * jc.weight) / NULLIF(SUM(jc.weight), 0), 0) AS weighted_score
        FROM contest_submissions s
        JOIN contest_participations p ON s.participation_id = p.id
        LEFT JOIN judging_scores js ON js.submission_id = s.id
        LEFT JOIN judging_criteria jc ON js.criteria_id = jc.id
        WHERE p.contest_id = $1 AND s.status <> 'Disqualified'
        GROUP BY s.id, s.title, s.category_id, p.user_id
        ORDER BY weighted_score DESC, s.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.GetContestResults query: %w", err)
	}
	defer rows.Close()

	results := []model.ContestResult{}
	for rows.Next() {
		var res model.ContestResult
		if err := rows.Scan(&res.SubmissionID, &res.SubmissionTitle, &res.CategoryID, &res.ParticipantID, &res.ScoreCount, &res.WeightedScore); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.GetContestResults scan: %w", err)
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.GetContestResults rows.Err: %w", err)
	}
	return results, nil
}
