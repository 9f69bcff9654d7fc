package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/api/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, answer, contact_person_id, parent_id, active, created_at, updated_at`

func scanCategory(row pgx.Row) (models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Answer,
		&category.ContactPersonID,
		&category.ParentID,
		&category.Active,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) error {
	const query = `
		INSERT INTO categories (
			id, name, answer, contact_person_id, parent_id, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Answer,
		category.ContactPersonID,
		category.ParentID,
		category.Active,
	)
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, category models.Category) error {
	const query = `
		UPDATE categories
		SET name = $2, answer = $3, contact_person_id = $4, parent_id = $5, active = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Answer,
		category.ContactPersonID,
		category.ParentID,
		category.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes the category; subcategories, the category's chat,
// participants and messages go with it through ON DELETE CASCADE.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.pool.QueryRow(ctx, query, id))
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at`
	return r.list(ctx, query)
}

// ListParents returns categories with at least one subcategory.
func (r *CategoryRepository) ListParents(ctx context.Context) ([]models.Category, error) {
	const query = `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE EXISTS (SELECT 1 FROM categories sub WHERE sub.parent_id = c.id)
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

// ListLeaves returns categories with no subcategories.
func (r *CategoryRepository) ListLeaves(ctx context.Context) ([]models.Category, error) {
	const query = `
		SELECT ` + categoryColumns + `
		FROM categories c
		WHERE NOT EXISTS (SELECT 1 FROM categories sub WHERE sub.parent_id = c.id)
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *CategoryRepository) list(ctx context.Context, query string) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
