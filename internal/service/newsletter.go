package service

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
	"github.com/driftwood-dev/driftwood/internal/logger"
)

type NewsletterService interface {
	Create(ctx context.Context, creationData domain.NewsletterCreationData) (domain.NewsletterId, error)
	List(ctx context.Context) ([]domain.Newsletter, error)
	Ingest(ctx context.Context, token string, issue domain.IssueIngestData) (domain.ThreadId, error)
}

type NewsletterStorage interface {
	CreateNewsletter(ctx context.Context, creationData domain.NewsletterCreationData) (domain.NewsletterId, error)
	GetNewsletterBySlug(ctx context.Context, slug string) (domain.Newsletter, error)
	ListNewsletters(ctx context.Context) ([]domain.Newsletter, error)
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.ThreadId, error)
}

type Newsletter struct {
	storage   NewsletterStorage
	validator ThreadValidator
	tokenHash string // bcrypt hash of the ingest token
}

func NewNewsletter(storage NewsletterStorage, validator ThreadValidator, tokenHash string) NewsletterService {
	return &Newsletter{storage, validator, tokenHash}
}

func (n *Newsletter) Create(ctx context.Context, creationData domain.NewsletterCreationData) (domain.NewsletterId, error) {
	if !slugPattern.MatchString(creationData.Slug) {
		return -1, badRequest("Slug must be lowercase letters, digits or dashes")
	}
	if creationData.Name == "" {
		return -1, badRequest("Name can't be empty")
	}
	return n.storage.CreateNewsletter(ctx, creationData)
}

func (n *Newsletter) List(ctx context.Context) ([]domain.Newsletter, error) {
	return n.storage.ListNewsletters(ctx)
}

// Ingest turns a delivered newsletter issue into a discussion thread. The
// caller is the newsletter pipeline, not a user; it authenticates with a
// pre-shared token checked against a bcrypt hash from private config.
func (n *Newsletter) Ingest(ctx context.Context, token string, issue domain.IssueIngestData) (domain.ThreadId, error) {
	if n.tokenHash == "" {
		return -1, &internal_errors.ErrorWithStatusCode{
			Message:    "Ingestion is not configured",
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(n.tokenHash), []byte(token)); err != nil {
		return -1, &internal_errors.ErrorWithStatusCode{
			Message:    "Invalid ingest token",
			StatusCode: http.StatusUnauthorized,
		}
	}

	if err := n.validator.Title(issue.Subject); err != nil {
		return -1, err
	}
	if err := n.validator.Body(issue.Body); err != nil {
		return -1, err
	}

	newsletter, err := n.storage.GetNewsletterBySlug(ctx, issue.Newsletter)
	if err != nil {
		return -1, err
	}

	threadId, err := n.storage.CreateThread(ctx, domain.ThreadCreationData{
		Title:        issue.Subject,
		Category:     issue.Category,
		NewsletterId: &newsletter.Id,
		Author:       domain.User{Id: 0, DisplayName: newsletter.Name},
		Body:         issue.Body,
	})
	if err != nil {
		return -1, err
	}
	logger.Log.Info("ingested newsletter issue", "newsletter", newsletter.Slug, "thread", threadId)
	return threadId, nil
}
