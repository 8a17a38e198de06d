package domain

type ThreadSort string

const (
	SortNewest   ThreadSort = "newest"   // created_at desc
	SortOldest   ThreadSort = "oldest"   // created_at asc
	SortActivity ThreadSort = "activity" // last_activity_at desc, default for feeds
)

// ParseThreadSort falls back to the activity sort on unknown input.
func ParseThreadSort(raw string) ThreadSort {
	switch ThreadSort(raw) {
	case SortNewest, SortOldest, SortActivity:
		return ThreadSort(raw)
	}
	return SortActivity
}

// ThreadFilter describes one page of the thread feed.
// Query matches case-insensitively against title or body.
type ThreadFilter struct {
	Category   CategorySlug // empty = all categories
	Newsletter *NewsletterId
	Query      string
	Sort       ThreadSort
	Page       int // 1-based
	PageSize   int
}

// ThreadPage is a view of the feed, not a stored entity.
// Total counts the whole filtered set, not just this page.
type ThreadPage struct {
	Threads  []ThreadMetadata
	Total    int
	Page     int
	PageSize int
}
