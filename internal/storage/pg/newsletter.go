package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
)

func (s *Storage) CreateNewsletter(ctx context.Context, creationData domain.NewsletterCreationData) (domain.NewsletterId, error) {
	var id domain.NewsletterId
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO newsletters (slug, name)
        VALUES ($1, $2)
        RETURNING id
    `, creationData.Slug, creationData.Name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return -1, &internal_errors.ErrorWithStatusCode{
				Message:    "Newsletter already exists",
				StatusCode: http.StatusConflict,
			}
		}
		return -1, fmt.Errorf("failed to insert newsletter: %w", err)
	}
	return id, nil
}

func (s *Storage) GetNewsletterBySlug(ctx context.Context, slug string) (domain.Newsletter, error) {
	var n domain.Newsletter
	err := s.db.QueryRowContext(ctx, `
        SELECT id, slug, name, created_at FROM newsletters WHERE slug = $1
    `, slug).Scan(&n.Id, &n.Slug, &n.Name, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Newsletter{}, &internal_errors.ErrorWithStatusCode{
				Message:    "Newsletter not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return domain.Newsletter{}, fmt.Errorf("failed to fetch newsletter: %w", err)
	}
	return n, nil
}

func (s *Storage) ListNewsletters(ctx context.Context) ([]domain.Newsletter, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, slug, name, created_at FROM newsletters ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch newsletters: %w", err)
	}
	defer rows.Close()

	var newsletters []domain.Newsletter
	for rows.Next() {
		var n domain.Newsletter
		if err := rows.Scan(&n.Id, &n.Slug, &n.Name, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan newsletter: %w", err)
		}
		newsletters = append(newsletters, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return newsletters, nil
}
