package setup

import (
	"context"
	"time"

	"github.com/driftwood-dev/driftwood/internal/config"
	"github.com/driftwood-dev/driftwood/internal/discovery"
	"github.com/driftwood-dev/driftwood/internal/draft"
	"github.com/driftwood-dev/driftwood/internal/handler"
	"github.com/driftwood-dev/driftwood/internal/jwt"
	"github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/ratelimiter"
	"github.com/driftwood-dev/driftwood/internal/service"
	"github.com/driftwood-dev/driftwood/internal/storage/object"
	"github.com/driftwood-dev/driftwood/internal/storage/pg"
	"github.com/driftwood-dev/driftwood/internal/writeerr"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// draftFactory adapts the postgres storage to the handler's per-session
// draft KV view.
type draftFactory struct {
	storage *pg.Storage
}

func (f draftFactory) DraftKV(sessionId string) draft.KV {
	return f.storage.DraftKV(sessionId)
}

// SetupDependencies initializes storage, services and the HTTP handler.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attachments, err := object.New(ctx, cfg.Private.S3)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	jwtService := jwt.New(cfg.Private.JwtKey)
	authMw := middleware.NewAuth(jwtService)

	threadGate := ratelimiter.NewCooldown(time.Duration(cfg.Public.ThreadCooldown)*time.Second, 1, writeerr.MarkerThreadCooldown)
	replyGate := ratelimiter.NewCooldown(time.Duration(cfg.Public.ReplyCooldown)*time.Second, 1, writeerr.MarkerReplyCooldown)
	reportGate := ratelimiter.NewCooldown(time.Duration(cfg.Public.ReportCooldown)*time.Second, 1, writeerr.MarkerReportCooldown)
	reportBurstGate := ratelimiter.NewCooldown(time.Hour, cfg.Public.ReportBurst, writeerr.MarkerReportBurstLimit)

	validator := &service.TextValidator{}

	orchestrator := discovery.New(storage, storage)
	feed := service.NewFeed(orchestrator, storage)
	thread := service.NewThread(storage, validator, attachments, threadGate)
	reply := service.NewReply(storage, validator, replyGate)
	category := service.NewCategory(storage)
	newsletter := service.NewNewsletter(storage, validator, cfg.Private.IngestTokenHash)
	notification := service.NewNotification(storage)
	reaction := service.NewReaction(storage)
	report := service.NewReport(storage, validator, reportBurstGate, reportGate)

	h := handler.New(
		feed, thread, reply, category, newsletter,
		notification, reaction, report,
		draftFactory{storage}, storage, cfg,
	)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}
