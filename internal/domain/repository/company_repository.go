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

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Company, error)
	FindBySlug(ctx context.Context, slug string) (*model.Company, error)
	List(ctx context.Context, limit, offset int) ([]model.Company, int, error)
}

type pgCompanyRepository struct {
	db *sql.DB
}

func NewPgCompanyRepository(db *sql.DB) CompanyRepository {
	return &pgCompanyRepository{db: db}
}

func (r *pgCompanyRepository) Create(ctx context.Context, c *model.Company) error {
	query := `INSERT INTO companies (id, name, slug, description, contact_email, logo_url)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ContactEmail, c.LogoURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("company with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCompanyRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCompanyRepository) Update(ctx context.Context, c *model.Company) error {
	query := `UPDATE companies SET
	            name = $1, slug = $2, description = $3, contact_email = $4, logo_url = $5,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.ContactEmail, c.LogoURL, c.ID)
	if err != nil {
		return fmt.Errorf("pgCompanyRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCompanyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCompanyRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCompanyRepository) FindByID(ctx context.Context, id string) (*model.Company, error) {
	query := `SELECT id, name, slug, description, contact_email, logo_url, created_at, updated_at
	          FROM companies WHERE id = $1`
	return r.scanCompany(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgCompanyRepository) FindBySlug(ctx context.Context, slug string) (*model.Company, error) {
	query := `SELECT id, name, slug, description, contact_email, logo_url, created_at, updated_at
	          FROM companies WHERE slug = $1`
	return r.scanCompany(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgCompanyRepository) List(ctx context.Context, limit, offset int) ([]model.Company, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgCompanyRepository.List count: %w", err)
	}

	query := `SELECT id, name, slug, description, contact_email, logo_url, created_at, updated_at
	          FROM companies ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCompanyRepository.List query: %w", err)
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ContactEmail, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgCompanyRepository.List scan: %w", err)
		}
		companies = append(companies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgCompanyRepository.List rows.Err: %w", err)
	}
	return companies, total, nil
}

func (r *pgCompanyRepository) scanCompany(row *sql.Row, op string) (*model.Company, error) {
	c := &model.Company{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ContactEmail, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCompanyRepository.%s: %w", op, err)
	}
	return c, nil
}
