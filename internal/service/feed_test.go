package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwood-dev/driftwood/internal/discovery"
	"github.com/driftwood-dev/driftwood/internal/domain"
)

type MockFeedPager struct {
	listPageFunc func(req discovery.Request) (domain.ThreadPage, error)
}

func (m *MockFeedPager) ListPage(_ context.Context, req discovery.Request) (domain.ThreadPage, error) {
	if m.listPageFunc != nil {
		return m.listPageFunc(req)
	}
	return domain.ThreadPage{Page: 1, PageSize: 10}, nil
}

type MockFeedCounts struct {
	replyCountsFunc func(ids []domain.ThreadId) (map[domain.ThreadId]int, error)
	likeCountsFunc  func(ids []domain.ThreadId) (map[domain.ThreadId]int, error)
}

func (m *MockFeedCounts) ReplyCountsByThread(_ context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
	if m.replyCountsFunc != nil {
		return m.replyCountsFunc(ids)
	}
	return map[domain.ThreadId]int{}, nil
}

func (m *MockFeedCounts) LikeCountsByThread(_ context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
	if m.likeCountsFunc != nil {
		return m.likeCountsFunc(ids)
	}
	return map[domain.ThreadId]int{}, nil
}

func TestFeedList(t *testing.T) {
	ctx := context.Background()
	twoThreads := domain.ThreadPage{
		Threads:  []domain.ThreadMetadata{{Id: 1}, {Id: 2}},
		Total:    2,
		Page:     1,
		PageSize: 10,
	}

	t.Run("EnrichesCounts", func(t *testing.T) {
		pager := &MockFeedPager{listPageFunc: func(discovery.Request) (domain.ThreadPage, error) {
			return twoThreads, nil
		}}
		counts := &MockFeedCounts{
			replyCountsFunc: func(ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
				assert.Equal(t, []domain.ThreadId{1, 2}, ids)
				return map[domain.ThreadId]int{1: 3, 2: 0}, nil
			},
			likeCountsFunc: func(ids []domain.ThreadId) (map[domain.ThreadId]int, error) {
				return map[domain.ThreadId]int{1: 0, 2: 7}, nil
			},
		}
		svc := NewFeed(pager, counts)

		page, err := svc.List(ctx, discovery.Request{})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Threads[0].NumReplies)
		assert.Equal(t, 7, page.Threads[1].LikeCount)
	})

	t.Run("CountFailuresDegradeToZero", func(t *testing.T) {
		pager := &MockFeedPager{listPageFunc: func(discovery.Request) (domain.ThreadPage, error) {
			return twoThreads, nil
		}}
		counts := &MockFeedCounts{
			replyCountsFunc: func([]domain.ThreadId) (map[domain.ThreadId]int, error) {
				return nil, errors.New("db hiccup")
			},
			likeCountsFunc: func([]domain.ThreadId) (map[domain.ThreadId]int, error) {
				return nil, errors.New("db hiccup")
			},
		}
		svc := NewFeed(pager, counts)

		page, err := svc.List(ctx, discovery.Request{})
		require.NoError(t, err, "display counts never fail the page")
		assert.Zero(t, page.Threads[0].NumReplies)
		assert.Zero(t, page.Threads[1].LikeCount)
	})

	t.Run("PagerErrorPropagates", func(t *testing.T) {
		pager := &MockFeedPager{listPageFunc: func(discovery.Request) (domain.ThreadPage, error) {
			return domain.ThreadPage{}, errors.New("failed to fetch reply counts: db down")
		}}
		svc := NewFeed(pager, &MockFeedCounts{})

		_, err := svc.List(ctx, discovery.Request{})
		require.Error(t, err)
	})

	t.Run("EmptyPageSkipsCounts", func(t *testing.T) {
		pager := &MockFeedPager{}
		countsCalled := false
		counts := &MockFeedCounts{replyCountsFunc: func([]domain.ThreadId) (map[domain.ThreadId]int, error) {
			countsCalled = true
			return nil, nil
		}}
		svc := NewFeed(pager, counts)

		_, err := svc.List(ctx, discovery.Request{})
		require.NoError(t, err)
		assert.False(t, countsCalled)
	})
}
