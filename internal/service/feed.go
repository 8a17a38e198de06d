package service

import (
	"context"

	"github.com/driftwood-dev/driftwood/internal/discovery"
	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/logger"
	"github.com/samber/lo"
)

type FeedService interface {
	List(ctx context.Context, req discovery.Request) (domain.ThreadPage, error)
}

// FeedPager is the signal-aware page source (the discovery orchestrator).
type FeedPager interface {
	ListPage(ctx context.Context, req discovery.Request) (domain.ThreadPage, error)
}

// FeedCounts supplies per-thread counters for page enrichment.
type FeedCounts interface {
	ReplyCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error)
	LikeCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error)
}

type Feed struct {
	pager  FeedPager
	counts FeedCounts
}

func NewFeed(pager FeedPager, counts FeedCounts) FeedService {
	return &Feed{pager, counts}
}

// List returns one feed page with reply and like counts filled in. Counts
// here are display data for the already-selected page, so failures degrade
// to zeroes instead of failing the request; filtering correctness was
// already handled inside the pager.
func (f *Feed) List(ctx context.Context, req discovery.Request) (domain.ThreadPage, error) {
	page, err := f.pager.ListPage(ctx, req)
	if err != nil {
		return domain.ThreadPage{}, err
	}
	if len(page.Threads) == 0 {
		return page, nil
	}

	ids := lo.Map(page.Threads, func(t domain.ThreadMetadata, _ int) domain.ThreadId { return t.Id })

	replyCounts, err := f.counts.ReplyCountsByThread(ctx, ids)
	if err != nil {
		logger.Log.Warn("failed to fetch reply counts for feed page", "error", err)
		replyCounts = map[domain.ThreadId]int{}
	}
	likeCounts, err := f.counts.LikeCountsByThread(ctx, ids)
	if err != nil {
		logger.Log.Warn("failed to fetch like counts for feed page", "error", err)
		likeCounts = map[domain.ThreadId]int{}
	}

	for i := range page.Threads {
		page.Threads[i].NumReplies = replyCounts[page.Threads[i].Id]
		page.Threads[i].LikeCount = likeCounts[page.Threads[i].Id]
	}
	return page, nil
}
