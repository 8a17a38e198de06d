package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/config"
	"github.com/driftwood-dev/driftwood/internal/draft"
	"github.com/driftwood-dev/driftwood/internal/logger"
	"github.com/driftwood-dev/driftwood/internal/service"
)

// DraftKVFactory opens the per-user draft key-value view.
type DraftKVFactory interface {
	DraftKV(sessionId string) draft.KV
}

// HealthChecker reports whether the backing store can serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	feed         service.FeedService
	thread       service.ThreadService
	reply        service.ReplyService
	category     service.CategoryService
	newsletter   service.NewsletterService
	notification service.NotificationService
	reaction     service.ReactionService
	report       service.ReportService
	drafts       DraftKVFactory
	health       HealthChecker
	cfg          *config.Config
}

func New(
	feed service.FeedService,
	thread service.ThreadService,
	reply service.ReplyService,
	category service.CategoryService,
	newsletter service.NewsletterService,
	notification service.NotificationService,
	reaction service.ReactionService,
	report service.ReportService,
	drafts DraftKVFactory,
	health HealthChecker,
	cfg *config.Config,
) *Handler {
	return &Handler{feed, thread, reply, category, newsletter, notification, reaction, report, drafts, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "err", err)
	}
}
