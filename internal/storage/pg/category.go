package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
)

// uniqueViolation is postgres error class 23505.
const uniqueViolation = "23505"

func (s *Storage) CreateCategory(ctx context.Context, creationData domain.CategoryCreationData) (domain.CategoryId, error) {
	var id domain.CategoryId
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO categories (slug, name, description)
        VALUES ($1, $2, $3)
        RETURNING id
    `, creationData.Slug, creationData.Name, creationData.Description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return -1, &internal_errors.ErrorWithStatusCode{
				Message:    "Category already exists",
				StatusCode: http.StatusConflict,
			}
		}
		return -1, fmt.Errorf("failed to insert category: %w", err)
	}
	return id, nil
}

func (s *Storage) GetCategory(ctx context.Context, slug domain.CategorySlug) (domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, `
        SELECT c.id, c.slug, c.name, c.description, c.created_at,
               (SELECT count(*) FROM threads t WHERE t.category = c.slug)
        FROM categories c
        WHERE c.slug = $1
    `, slug).Scan(&c.Id, &c.Slug, &c.Name, &c.Description, &c.CreatedAt, &c.ThreadCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, &internal_errors.ErrorWithStatusCode{
				Message:    "Category not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return domain.Category{}, fmt.Errorf("failed to fetch category: %w", err)
	}
	return c, nil
}

func (s *Storage) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT c.id, c.slug, c.name, c.description, c.created_at,
               (SELECT count(*) FROM threads t WHERE t.category = c.slug)
        FROM categories c
        ORDER BY c.name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Id, &c.Slug, &c.Name, &c.Description, &c.CreatedAt, &c.ThreadCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return categories, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, slug domain.CategorySlug) error {
	// Threads cascade via foreign key
	result, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE slug = $1", slug)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireAffected(result, "Category not found")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
