// Package discovery applies signal filtering on top of the paginated
// thread feed. Signals depend on reply counts the storage query doesn't
// know about, so a signal filter can't be pushed into SQL: we materialize
// every thread matching the base filter, classify, filter, and re-paginate
// the filtered list in memory.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/signal"
)

// SourcePageSize is the fixed bulk-fetch unit used while materializing the
// candidate set. Distinct from the caller-facing page size.
const SourcePageSize = 30

type ThreadPager interface {
	ListThreadPage(ctx context.Context, filter domain.ThreadFilter) (domain.ThreadPage, error)
}

type ReplyCounter interface {
	ReplyCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error)
}

type Request struct {
	domain.ThreadFilter
	Signal signal.Filter
}

type Orchestrator struct {
	threads ThreadPager
	replies ReplyCounter
	now     func() time.Time
}

func New(threads ThreadPager, replies ReplyCounter) *Orchestrator {
	return &Orchestrator{threads: threads, replies: replies, now: time.Now}
}

// ListPage returns the requested page of the feed. With Signal == all it
// delegates straight to storage; otherwise the page is drawn from the
// signal-filtered set, with the page number clamped so it's always valid
// for the filtered total.
//
// Materializing the full candidate set is O(threads in the base filter) in
// memory and round-trips. Fine at forum scale; this is the documented
// scalability ceiling of signal filtering.
func (o *Orchestrator) ListPage(ctx context.Context, req Request) (domain.ThreadPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 10
	}

	if req.Signal == signal.FilterAll {
		return o.threads.ListThreadPage(ctx, req.ThreadFilter)
	}

	all, err := o.fetchAll(ctx, req.ThreadFilter)
	if err != nil {
		return domain.ThreadPage{}, err
	}

	counts := map[domain.ThreadId]int{}
	if len(all) > 0 {
		ids := lo.Map(all, func(t domain.ThreadMetadata, _ int) domain.ThreadId { return t.Id })
		// No fallback here: a page filtered against unknown reply counts
		// would be structurally wrong, not just incomplete.
		counts, err = o.replies.ReplyCountsByThread(ctx, ids)
		if err != nil {
			return domain.ThreadPage{}, fmt.Errorf("failed to fetch reply counts: %w", err)
		}
	}

	now := o.now()
	// Sort was applied by storage before filtering; lo.Filter keeps order.
	filtered := lo.Filter(all, func(t domain.ThreadMetadata, _ int) bool {
		return signal.Matches(req.Signal, counts[t.Id], t.LastActivity, now)
	})

	total := len(filtered)
	totalPages := (total + req.PageSize - 1) / req.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := req.Page
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * req.PageSize
	end := start + req.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return domain.ThreadPage{
		Threads:  filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: req.PageSize,
	}, nil
}

// fetchAll gathers every thread matching the base filter, in storage order,
// by walking bulk pages of SourcePageSize sequentially.
func (o *Orchestrator) fetchAll(ctx context.Context, filter domain.ThreadFilter) ([]domain.ThreadMetadata, error) {
	filter.Page = 1
	filter.PageSize = SourcePageSize

	first, err := o.threads.ListThreadPage(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source page 1: %w", err)
	}

	all := first.Threads
	sourcePages := (first.Total + SourcePageSize - 1) / SourcePageSize
	for p := 2; p <= sourcePages; p++ {
		filter.Page = p
		next, err := o.threads.ListThreadPage(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch source page %d: %w", p, err)
		}
		all = append(all, next.Threads...)
	}

	return all, nil
}
