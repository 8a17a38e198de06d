package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/logger"
)

// undefinedColumn is postgres error class 42703. Older deployments may miss
// the optional newsletter_id column; we detect that structurally instead of
// matching error-message text.
const undefinedColumn = "42703"

// ListThreadPage fetches one page of the thread feed. The projection carries
// no reply counts: signal classification fetches those separately through
// the reply gateway.
func (s *Storage) ListThreadPage(ctx context.Context, filter domain.ThreadFilter) (domain.ThreadPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}

	page, err := s.listThreadPage(ctx, filter, true)
	if err != nil && isUndefinedColumn(err) && filter.Newsletter == nil {
		// Schema predates newsletters and the filter doesn't need them:
		// degrade to the reduced projection instead of failing the feed.
		logger.Log.Warn("newsletter_id column missing, using reduced thread projection")
		return s.listThreadPage(ctx, filter, false)
	}
	return page, err
}

func (s *Storage) listThreadPage(ctx context.Context, filter domain.ThreadFilter, withNewsletter bool) (domain.ThreadPage, error) {
	var (
		where         string
		newsletterCol string
		filterArgs    []interface{}
	)
	if withNewsletter {
		where = `
        WHERE ($1 = '' OR t.category = $1)
          AND ($2 = '' OR t.title ILIKE '%' || $2 || '%' OR t.body ILIKE '%' || $2 || '%')
          AND ($3::bigint IS NULL OR t.newsletter_id = $3)`
		newsletterCol = "t.newsletter_id"
		filterArgs = []interface{}{filter.Category, filter.Query, filter.Newsletter}
	} else {
		where = `
        WHERE ($1 = '' OR t.category = $1)
          AND ($2 = '' OR t.title ILIKE '%' || $2 || '%' OR t.body ILIKE '%' || $2 || '%')`
		newsletterCol = "NULL::bigint"
		filterArgs = []interface{}{filter.Category, filter.Query}
	}

	var total int
	countQuery := "SELECT count(*) FROM threads t " + where
	if err := s.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return domain.ThreadPage{}, fmt.Errorf("failed to count threads: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`
        SELECT
            t.id, t.title, t.category, %s,
            t.author_id, t.author_name,
            t.is_locked, t.is_pinned, t.created_at, t.updated_at, t.last_activity_at
        FROM threads t
        %s
        ORDER BY %s
        LIMIT %d OFFSET %d
    `, newsletterCol, where, orderClause(filter.Sort), filter.PageSize, offset)

	rows, err := s.db.QueryContext(ctx, query, filterArgs...)
	if err != nil {
		return domain.ThreadPage{}, fmt.Errorf("failed to fetch threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.ThreadMetadata
	for rows.Next() {
		var t domain.ThreadMetadata
		if err := rows.Scan(
			&t.Id, &t.Title, &t.Category, &t.NewsletterId,
			&t.Author.Id, &t.Author.DisplayName,
			&t.IsLocked, &t.IsPinned, &t.CreatedAt, &t.UpdatedAt, &t.LastActivity,
		); err != nil {
			return domain.ThreadPage{}, fmt.Errorf("failed to scan thread row: %w", err)
		}
		threads = append(threads, t)
	}
	if err = rows.Err(); err != nil {
		return domain.ThreadPage{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return domain.ThreadPage{
		Threads:  threads,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func orderClause(sort domain.ThreadSort) string {
	switch sort {
	case domain.SortNewest:
		return "t.created_at DESC, t.id DESC"
	case domain.SortOldest:
		return "t.created_at ASC, t.id ASC"
	default: // activity
		return "t.last_activity_at DESC, t.id DESC"
	}
}

func isUndefinedColumn(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedColumn
}
