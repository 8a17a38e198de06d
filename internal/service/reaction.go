package service

import (
	"context"

	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/writeerr"
)

type ReactionService interface {
	Like(ctx context.Context, actor domain.User, threadId domain.ThreadId) (alreadyLiked bool, err error)
	Unlike(ctx context.Context, actor domain.User, threadId domain.ThreadId) error
}

type ReactionStorage interface {
	LikeThread(ctx context.Context, threadId domain.ThreadId, userId domain.UserId) (bool, error)
	UnlikeThread(ctx context.Context, threadId domain.ThreadId, userId domain.UserId) error
	ThreadAuthor(ctx context.Context, id domain.ThreadId) (domain.UserId, error)
}

type Reaction struct {
	storage ReactionStorage
}

func NewReaction(storage ReactionStorage) ReactionService {
	return &Reaction{storage}
}

// Like records the actor's like. Liking twice is not an error: the second
// call reports alreadyLiked. Liking your own thread is rejected.
func (r *Reaction) Like(ctx context.Context, actor domain.User, threadId domain.ThreadId) (bool, error) {
	authorId, err := r.storage.ThreadAuthor(ctx, threadId)
	if err != nil {
		return false, err
	}
	if authorId == actor.Id {
		return false, writeerr.New(writeerr.SelfAction)
	}

	newlyLiked, err := r.storage.LikeThread(ctx, threadId, actor.Id)
	if err != nil {
		return false, err
	}
	return !newlyLiked, nil
}

func (r *Reaction) Unlike(ctx context.Context, actor domain.User, threadId domain.ThreadId) error {
	return r.storage.UnlikeThread(ctx, threadId, actor.Id)
}
