package service

import (
	"context"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
	"github.com/driftwood-dev/driftwood/internal/logger"
)

type ReplyService interface {
	Create(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error)
	Delete(ctx context.Context, actor domain.User, id domain.ReplyId) error
}

type ReplyStorage interface {
	CreateReply(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error)
	DeleteReply(ctx context.Context, id domain.ReplyId) error
	ReplyAuthor(ctx context.Context, id domain.ReplyId) (domain.UserId, error)
	ThreadState(ctx context.Context, id domain.ThreadId) (authorId domain.UserId, locked bool, err error)
	CreateNotification(ctx context.Context, userId domain.UserId, threadId domain.ThreadId, replyId domain.ReplyId) error
}

type ReplyValidator interface {
	Body(body string) error
}

type Reply struct {
	storage   ReplyStorage
	validator ReplyValidator
	cooldown  CooldownGate
}

func NewReply(storage ReplyStorage, validator ReplyValidator, cooldown CooldownGate) ReplyService {
	return &Reply{storage, validator, cooldown}
}

func (r *Reply) Create(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error) {
	if err := r.validator.Body(creationData.Body); err != nil {
		return domain.Reply{}, err
	}

	threadAuthor, locked, err := r.storage.ThreadState(ctx, creationData.Thread)
	if err != nil {
		return domain.Reply{}, err
	}
	if locked {
		return domain.Reply{}, &internal_errors.ErrorWithStatusCode{
			Message:    "Thread is locked",
			StatusCode: http.StatusLocked,
		}
	}

	if err := r.cooldown.Check(creationData.Author.Id); err != nil {
		return domain.Reply{}, err
	}

	reply, err := r.storage.CreateReply(ctx, creationData)
	if err != nil {
		return domain.Reply{}, err
	}

	// Notify the thread author about replies from others. The reply is
	// already committed, so a notification failure only gets logged.
	if threadAuthor != creationData.Author.Id {
		if err := r.storage.CreateNotification(ctx, threadAuthor, creationData.Thread, reply.Id); err != nil {
			logger.Log.Warn("failed to create reply notification", "thread", creationData.Thread, "error", err)
		}
	}

	return reply, nil
}

func (r *Reply) Delete(ctx context.Context, actor domain.User, id domain.ReplyId) error {
	if !actor.Admin {
		authorId, err := r.storage.ReplyAuthor(ctx, id)
		if err != nil {
			return err
		}
		if authorId != actor.Id {
			return &internal_errors.ErrorWithStatusCode{
				Message:    "You can only delete your own replies",
				StatusCode: http.StatusForbidden,
			}
		}
	}
	return r.storage.DeleteReply(ctx, id)
}
