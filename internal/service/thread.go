package service

import (
	"context"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
	"github.com/driftwood-dev/driftwood/internal/logger"
	"github.com/driftwood-dev/driftwood/internal/markdown"
)

type ThreadService interface {
	Create(ctx context.Context, creationData domain.ThreadCreationData, files []*domain.PendingFile) (domain.ThreadId, error)
	Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	Edit(ctx context.Context, actor domain.User, id domain.ThreadId, title domain.ThreadTitle, body domain.Body) error
	Delete(ctx context.Context, actor domain.User, id domain.ThreadId) error
	ToggleLocked(ctx context.Context, id domain.ThreadId) (bool, error)
	TogglePinned(ctx context.Context, id domain.ThreadId) (bool, error)
}

type ThreadStorage interface {
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.ThreadId, error)
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	EditThread(ctx context.Context, id domain.ThreadId, title domain.ThreadTitle, body domain.Body) error
	DeleteThread(ctx context.Context, id domain.ThreadId) error
	ToggleLocked(ctx context.Context, id domain.ThreadId) (bool, error)
	TogglePinned(ctx context.Context, id domain.ThreadId) (bool, error)
	ThreadAuthor(ctx context.Context, id domain.ThreadId) (domain.UserId, error)
	LikeCountsByThread(ctx context.Context, ids []domain.ThreadId) (map[domain.ThreadId]int, error)
}

type ThreadValidator interface {
	Title(title string) error
	Body(body string) error
}

// AttachmentStore persists validated uploads and returns their object keys.
type AttachmentStore interface {
	Save(ctx context.Context, files []*domain.PendingFile) (domain.Attachments, error)
	Delete(ctx context.Context, keys domain.Attachments) error
}

// CooldownGate denies a write when the user posted too recently.
type CooldownGate interface {
	Check(userId domain.UserId) error
}

type Thread struct {
	storage     ThreadStorage
	validator   ThreadValidator
	attachments AttachmentStore
	cooldown    CooldownGate
}

func NewThread(storage ThreadStorage, validator ThreadValidator, attachments AttachmentStore, cooldown CooldownGate) ThreadService {
	return &Thread{storage, validator, attachments, cooldown}
}

func (t *Thread) Create(ctx context.Context, creationData domain.ThreadCreationData, files []*domain.PendingFile) (domain.ThreadId, error) {
	if err := t.validator.Title(creationData.Title); err != nil {
		return -1, err
	}
	if err := t.validator.Body(creationData.Body); err != nil {
		return -1, err
	}
	if err := t.cooldown.Check(creationData.Author.Id); err != nil {
		return -1, err
	}

	if len(files) > 0 {
		keys, err := t.attachments.Save(ctx, files)
		if err != nil {
			return -1, err
		}
		creationData.Attachments = &keys
	}

	id, err := t.storage.CreateThread(ctx, creationData)
	if err != nil {
		if creationData.Attachments != nil {
			// thread row never landed, don't strand the uploads
			if delErr := t.attachments.Delete(ctx, *creationData.Attachments); delErr != nil {
				logger.Log.Warn("failed to clean up attachments after create failure", "error", delErr)
			}
		}
		return -1, err
	}
	return id, nil
}

func (t *Thread) Get(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	thread, err := t.storage.GetThread(ctx, id)
	if err != nil {
		return domain.Thread{}, err
	}

	thread.BodyHTML = markdown.Render(thread.Body)
	for _, reply := range thread.Replies {
		reply.BodyHTML = markdown.Render(reply.Body)
	}

	// like counts are auxiliary: a failure renders zeroes, not an error page
	counts, err := t.storage.LikeCountsByThread(ctx, []domain.ThreadId{id})
	if err != nil {
		logger.Log.Warn("failed to fetch like count", "thread", id, "error", err)
	} else {
		thread.LikeCount = counts[id]
	}

	return thread, nil
}

func (t *Thread) Edit(ctx context.Context, actor domain.User, id domain.ThreadId, title domain.ThreadTitle, body domain.Body) error {
	if err := t.validator.Title(title); err != nil {
		return err
	}
	if err := t.validator.Body(body); err != nil {
		return err
	}
	if err := t.requireOwnerOrAdmin(ctx, actor, id); err != nil {
		return err
	}
	return t.storage.EditThread(ctx, id, title, body)
}

func (t *Thread) Delete(ctx context.Context, actor domain.User, id domain.ThreadId) error {
	if err := t.requireOwnerOrAdmin(ctx, actor, id); err != nil {
		return err
	}

	thread, err := t.storage.GetThread(ctx, id)
	if err != nil {
		return err
	}
	if err := t.storage.DeleteThread(ctx, id); err != nil {
		return err
	}

	if thread.Attachments != nil {
		if err := t.attachments.Delete(ctx, *thread.Attachments); err != nil {
			// the row is gone; orphaned objects are a cleanup concern, not a failure
			logger.Log.Warn("failed to delete attachments", "thread", id, "error", err)
		}
	}
	return nil
}

func (t *Thread) ToggleLocked(ctx context.Context, id domain.ThreadId) (bool, error) {
	return t.storage.ToggleLocked(ctx, id)
}

func (t *Thread) TogglePinned(ctx context.Context, id domain.ThreadId) (bool, error) {
	return t.storage.TogglePinned(ctx, id)
}

func (t *Thread) requireOwnerOrAdmin(ctx context.Context, actor domain.User, id domain.ThreadId) error {
	if actor.Admin {
		return nil
	}
	authorId, err := t.storage.ThreadAuthor(ctx, id)
	if err != nil {
		return err
	}
	if authorId != actor.Id {
		return &internal_errors.ErrorWithStatusCode{
			Message:    "You can only modify your own threads",
			StatusCode: http.StatusForbidden,
		}
	}
	return nil
}
