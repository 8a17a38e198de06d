package api

import (
	"time"

	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/draft"
)

// Request DTOs

type CreateThreadRequest struct {
	Title      string `json:"title" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Body       string `json:"body" validate:"required"`
	Newsletter *int64 `json:"newsletter,omitempty"`
}

type EditThreadRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type CreateReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

type CreateCategoryRequest struct {
	Slug        string `json:"slug" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CreateNewsletterRequest struct {
	Slug string `json:"slug" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type IngestIssueRequest struct {
	Newsletter string `json:"newsletter" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Subject    string `json:"subject" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

type CreateReportRequest struct {
	ThreadId domain.ThreadId `json:"thread_id" validate:"required"`
	ReplyId  *domain.ReplyId `json:"reply_id,omitempty"`
	Reason   string          `json:"reason" validate:"required"`
}

type SaveDraftRequest struct {
	Title string `json:"title"`
	Body  string `json:"body" validate:"required"`
}

// Response DTOs

type ThreadResponse struct {
	domain.Thread
}

type FeedResponse struct {
	domain.ThreadPage
}

type ReplyResponse struct {
	domain.Reply
}

type CategoryListResponse struct {
	Categories []domain.Category `json:"categories"`
}

type NewsletterListResponse struct {
	Newsletters []domain.Newsletter `json:"newsletters"`
}

type NotificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

type ReportListResponse struct {
	Reports []domain.Report `json:"reports"`
}

type LikeResponse struct {
	AlreadyLiked bool `json:"already_liked"`
}

// DraftResponse surfaces the stored draft plus whether it's worth restoring
// against the caller's current editor contents.
type DraftResponse struct {
	Draft      *draft.Payload `json:"draft"`
	Restorable bool           `json:"restorable"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}
