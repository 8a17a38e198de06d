package pg

import (
	"context"
	"fmt"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

func (s *Storage) CreateReport(ctx context.Context, report *domain.ReportCreationData) error {
	var replyId any
	if report.ReplyId != nil {
		replyId = *report.ReplyId
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO reports (reporter_id, thread_id, reply_id, reason)
        VALUES ($1, $2, $3, $4)
    `, report.Reporter.Id, report.ThreadId, replyId, report.Reason)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (s *Storage) Reports(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, reporter_id, thread_id, reply_id, reason, created_at
        FROM reports
        ORDER BY created_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(&r.Id, &r.ReporterId, &r.ThreadId, &r.ReplyId, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return reports, nil
}
