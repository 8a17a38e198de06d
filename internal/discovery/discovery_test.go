package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/signal"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// --- Mocks ---

// MockThreadPager serves pages out of a fixed ordered thread list,
// mimicking storage-side offset pagination.
type MockThreadPager struct {
	threads      []domain.ThreadMetadata
	listPageFunc func(ctx context.Context, filter domain.ThreadFilter) (domain.ThreadPage, error)

	mu             sync.Mutex
	requestedPages []int
}

func (m *MockThreadPager) ListThreadPage(ctx context.Context, filter domain.ThreadFilter) (domain.ThreadPage, error) {
	m.mu.Lock()
	m.requestedPages = append(m.requestedPages, filter.Page)
	m.mu.Unlock()

	if m.listPageFunc != nil {
		return m.listPageFunc(ctx, filter)
	}

	start := (filter.Page - 1) * filter.PageSize
	end := start + filter.PageSize
	if start > len(m.threads) {
		start = len(m.threads)
	}
	if end > len(m.threads) {
		end = len(m.threads)
	}
	return domain.ThreadPage{
		Threads:  m.threads[start:end],
		Total:    len(m.threads),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// MockReplyCounter returns fixed counts; missing ids count as zero.
type MockReplyCounter struct {
	counts     map[domain.ThreadId]int
	countsFunc func(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error)

	mu     sync.Mutex
	called bool
	idsArg []domain.ThreadId
}

func (m *MockReplyCounter) ReplyCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
	m.mu.Lock()
	m.called = true
	m.idsArg = ids
	m.mu.Unlock()

	if m.countsFunc != nil {
		return m.countsFunc(ctx, ids)
	}
	return m.counts, nil
}

// --- Helpers ---

func mkThread(id int64, lastActivity time.Time) domain.ThreadMetadata {
	return domain.ThreadMetadata{
		Id:           id,
		Title:        fmt.Sprintf("thread %d", id),
		Category:     "general",
		LastActivity: lastActivity,
	}
}

func newOrchestrator(pager *MockThreadPager, counter *MockReplyCounter) *Orchestrator {
	o := New(pager, counter)
	o.now = func() time.Time { return now }
	return o
}

func request(f signal.Filter, page, pageSize int) Request {
	return Request{
		ThreadFilter: domain.ThreadFilter{Sort: domain.SortActivity, Page: page, PageSize: pageSize},
		Signal:       f,
	}
}

// --- Tests ---

func TestListPageFastPath(t *testing.T) {
	threads := make([]domain.ThreadMetadata, 25)
	for i := range threads {
		threads[i] = mkThread(int64(i+1), now.Add(-time.Hour))
	}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{}
	o := newOrchestrator(pager, counter)

	page, err := o.ListPage(context.Background(), request(signal.FilterAll, 2, 10))
	require.NoError(t, err)

	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Threads, 10)
	assert.Equal(t, int64(11), page.Threads[0].Id)

	// no bulk materialization and no reply counting on the fast path
	assert.Equal(t, []int{2}, pager.requestedPages)
	assert.False(t, counter.called)
}

// Scenario: 12 threads, 3 unanswered, all stale. signal=unanswered must
// return exactly those 3 with total=3; page 2 clamps back to page 1.
func TestListPageSignalFilterKnownData(t *testing.T) {
	stale := now.Add(-48 * time.Hour)
	var threads []domain.ThreadMetadata
	counts := map[domain.ThreadId]int{}
	for i := int64(1); i <= 12; i++ {
		threads = append(threads, mkThread(i, stale))
		if i%4 == 0 { // 4, 8, 12 have no replies
			counts[i] = 0
		} else {
			counts[i] = 2
		}
	}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{counts: counts}
	o := newOrchestrator(pager, counter)

	page, err := o.ListPage(context.Background(), request("unanswered", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Threads, 3)
	assert.Equal(t, []int64{4, 8, 12}, ids(page.Threads))

	// past-the-end request clamps to the last valid filtered page
	page, err = o.ListPage(context.Background(), request("unanswered", 2, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []int64{4, 8, 12}, ids(page.Threads))
}

func TestListPageEveryResultMatchesSignal(t *testing.T) {
	var threads []domain.ThreadMetadata
	counts := map[domain.ThreadId]int{}
	for i := int64(1); i <= 70; i++ {
		la := now.Add(-time.Duration(i) * time.Hour) // first 24 are active
		threads = append(threads, mkThread(i, la))
		counts[i] = int(i % 8) // 0..7 replies
	}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{counts: counts}
	o := newOrchestrator(pager, counter)

	for _, f := range []signal.Filter{"unanswered", "active", "popular"} {
		page, err := o.ListPage(context.Background(), request(f, 1, 50))
		require.NoError(t, err)

		want := 0
		for _, th := range threads {
			if signal.Matches(f, counts[th.Id], th.LastActivity, now) {
				want++
			}
		}
		assert.Equal(t, want, page.Total, "filter %s", f)
		for _, th := range page.Threads {
			assert.True(t, signal.Matches(f, counts[th.Id], th.LastActivity, now),
				"filter %s leaked thread %d", f, th.Id)
		}
	}
}

func TestListPageMaterializesAllSourcePages(t *testing.T) {
	// 70 threads = 3 source pages of 30
	var threads []domain.ThreadMetadata
	counts := map[domain.ThreadId]int{}
	for i := int64(1); i <= 70; i++ {
		threads = append(threads, mkThread(i, now.Add(-48*time.Hour)))
		counts[i] = 0
	}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{counts: counts}
	o := newOrchestrator(pager, counter)

	page, err := o.ListPage(context.Background(), request("unanswered", 3, 10))
	require.NoError(t, err)

	// bulk pages fetched sequentially with the fixed source size
	assert.Equal(t, []int{1, 2, 3}, pager.requestedPages)
	assert.Len(t, counter.idsArg, 70)

	// all 70 are unanswered; page 3 of 10 is threads 21..30 in source order
	assert.Equal(t, 70, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, []int64{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}, ids(page.Threads))
}

func TestListPageOrderingPreserved(t *testing.T) {
	// storage order is the contract; filtering must not reorder
	stale := now.Add(-48 * time.Hour)
	threads := []domain.ThreadMetadata{
		mkThread(9, stale), mkThread(2, stale), mkThread(31, stale), mkThread(5, stale),
	}
	counts := map[domain.ThreadId]int{9: 0, 2: 1, 31: 0, 5: 0}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{counts: counts}
	o := newOrchestrator(pager, counter)

	page, err := o.ListPage(context.Background(), request("unanswered", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 31, 5}, ids(page.Threads))
}

func TestListPageEmptyFilteredSet(t *testing.T) {
	threads := []domain.ThreadMetadata{mkThread(1, now.Add(-48 * time.Hour))}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{counts: map[domain.ThreadId]int{1: 3}}
	o := newOrchestrator(pager, counter)

	page, err := o.ListPage(context.Background(), request("unanswered", 5, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page) // clamps to 1, not 0
	assert.Empty(t, page.Threads)
}

func TestListPageReplyCountFailureFailsWhole(t *testing.T) {
	threads := []domain.ThreadMetadata{mkThread(1, now)}
	pager := &MockThreadPager{threads: threads}
	counter := &MockReplyCounter{
		countsFunc: func(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
			return nil, errors.New("connection refused")
		},
	}
	o := newOrchestrator(pager, counter)

	_, err := o.ListPage(context.Background(), request("popular", 1, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reply counts")
}

func TestListPageSourcePageFailurePropagates(t *testing.T) {
	pager := &MockThreadPager{
		listPageFunc: func(ctx context.Context, filter domain.ThreadFilter) (domain.ThreadPage, error) {
			if filter.Page == 2 {
				return domain.ThreadPage{}, errors.New("storage gone")
			}
			threads := make([]domain.ThreadMetadata, SourcePageSize)
			for i := range threads {
				threads[i] = mkThread(int64(i+1), now)
			}
			return domain.ThreadPage{Threads: threads, Total: 40, Page: filter.Page, PageSize: filter.PageSize}, nil
		},
	}
	o := newOrchestrator(pager, &MockReplyCounter{})

	_, err := o.ListPage(context.Background(), request("active", 1, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source page 2")
}

func TestListPageNormalizesBadPaging(t *testing.T) {
	pager := &MockThreadPager{threads: []domain.ThreadMetadata{mkThread(1, now)}}
	o := newOrchestrator(pager, &MockReplyCounter{counts: map[domain.ThreadId]int{1: 0}})

	page, err := o.ListPage(context.Background(), request("unanswered", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
}

func ids(threads []domain.ThreadMetadata) []int64 {
	out := make([]int64, 0, len(threads))
	for _, t := range threads {
		out = append(out, t.Id)
	}
	return out
}
