package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
)

// --- Mocks ---

type MockReplyStorage struct {
	createReplyFunc  func(creationData domain.ReplyCreationData) (domain.Reply, error)
	deleteReplyFunc  func(id domain.ReplyId) error
	replyAuthorFunc  func(id domain.ReplyId) (domain.UserId, error)
	threadStateFunc  func(id domain.ThreadId) (domain.UserId, bool, error)
	notificationFunc func(userId domain.UserId, threadId domain.ThreadId, replyId domain.ReplyId) error

	notifyCalled bool
	notifiedUser domain.UserId
}

func (m *MockReplyStorage) CreateReply(_ context.Context, creationData domain.ReplyCreationData) (domain.Reply, error) {
	if m.createReplyFunc != nil {
		return m.createReplyFunc(creationData)
	}
	return domain.Reply{Id: 1, ThreadId: creationData.Thread, Author: creationData.Author, Body: creationData.Body}, nil
}

func (m *MockReplyStorage) DeleteReply(_ context.Context, id domain.ReplyId) error {
	if m.deleteReplyFunc != nil {
		return m.deleteReplyFunc(id)
	}
	return nil
}

func (m *MockReplyStorage) ReplyAuthor(_ context.Context, id domain.ReplyId) (domain.UserId, error) {
	if m.replyAuthorFunc != nil {
		return m.replyAuthorFunc(id)
	}
	return 1, nil
}

func (m *MockReplyStorage) ThreadState(_ context.Context, id domain.ThreadId) (domain.UserId, bool, error) {
	if m.threadStateFunc != nil {
		return m.threadStateFunc(id)
	}
	return 1, false, nil
}

func (m *MockReplyStorage) CreateNotification(_ context.Context, userId domain.UserId, threadId domain.ThreadId, replyId domain.ReplyId) error {
	m.notifyCalled = true
	m.notifiedUser = userId
	if m.notificationFunc != nil {
		return m.notificationFunc(userId, threadId, replyId)
	}
	return nil
}

// --- Tests ---

func TestReplyCreate(t *testing.T) {
	ctx := context.Background()
	creationData := domain.ReplyCreationData{
		Thread: 5,
		Author: domain.User{Id: 2, DisplayName: "bob"},
		Body:   "A thoughtful reply",
	}

	t.Run("Success", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.threadStateFunc = func(domain.ThreadId) (domain.UserId, bool, error) { return 1, false, nil }
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		reply, err := svc.Create(ctx, creationData)
		require.NoError(t, err)
		assert.Equal(t, creationData.Body, reply.Body)
	})

	t.Run("LockedThread", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.threadStateFunc = func(domain.ThreadId) (domain.UserId, bool, error) { return 1, true, nil }
		createCalled := false
		storage.createReplyFunc = func(domain.ReplyCreationData) (domain.Reply, error) {
			createCalled = true
			return domain.Reply{}, nil
		}
		cooldown := &MockCooldown{}
		svc := NewReply(storage, &MockValidator{}, cooldown)

		_, err := svc.Create(ctx, creationData)
		require.Error(t, err)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusLocked, statusErr.StatusCode)
		assert.False(t, createCalled)
		assert.False(t, cooldown.called, "a reply to a locked thread should not consume the cooldown")
	})

	t.Run("NotifiesThreadAuthor", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.threadStateFunc = func(domain.ThreadId) (domain.UserId, bool, error) { return 99, false, nil }
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		_, err := svc.Create(ctx, creationData)
		require.NoError(t, err)
		assert.True(t, storage.notifyCalled)
		assert.Equal(t, int64(99), storage.notifiedUser)
	})

	t.Run("NoSelfNotification", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.threadStateFunc = func(domain.ThreadId) (domain.UserId, bool, error) {
			return creationData.Author.Id, false, nil
		}
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		_, err := svc.Create(ctx, creationData)
		require.NoError(t, err)
		assert.False(t, storage.notifyCalled)
	})

	t.Run("NotificationFailureDoesNotFailReply", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.threadStateFunc = func(domain.ThreadId) (domain.UserId, bool, error) { return 99, false, nil }
		storage.notificationFunc = func(domain.UserId, domain.ThreadId, domain.ReplyId) error {
			return errors.New("notifications table locked")
		}
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		reply, err := svc.Create(ctx, creationData)
		require.NoError(t, err, "the committed reply must be returned even if notifying fails")
		assert.Equal(t, creationData.Body, reply.Body)
	})

	t.Run("CooldownDenied", func(t *testing.T) {
		storage := &MockReplyStorage{}
		cooldown := &MockCooldown{checkFunc: func(domain.UserId) error {
			return errors.New("RATE_LIMIT_REPLY_COOLDOWN: user 2")
		}}
		createCalled := false
		storage.createReplyFunc = func(domain.ReplyCreationData) (domain.Reply, error) {
			createCalled = true
			return domain.Reply{}, nil
		}
		svc := NewReply(storage, &MockValidator{}, cooldown)

		_, err := svc.Create(ctx, creationData)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_REPLY_COOLDOWN")
		assert.False(t, createCalled)
	})
}

func TestReplyDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.replyAuthorFunc = func(domain.ReplyId) (domain.UserId, error) { return 2, nil }
		deleteCalled := false
		storage.deleteReplyFunc = func(domain.ReplyId) error {
			deleteCalled = true
			return nil
		}
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		require.NoError(t, svc.Delete(ctx, domain.User{Id: 2}, 10))
		assert.True(t, deleteCalled)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		storage := &MockReplyStorage{}
		storage.replyAuthorFunc = func(domain.ReplyId) (domain.UserId, error) { return 2, nil }
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		err := svc.Delete(ctx, domain.User{Id: 3}, 10)
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	})

	t.Run("AdminSkipsOwnershipLookup", func(t *testing.T) {
		storage := &MockReplyStorage{}
		authorLookups := 0
		storage.replyAuthorFunc = func(domain.ReplyId) (domain.UserId, error) {
			authorLookups++
			return 2, nil
		}
		svc := NewReply(storage, &MockValidator{}, &MockCooldown{})

		require.NoError(t, svc.Delete(ctx, domain.User{Id: 3, Admin: true}, 10))
		assert.Zero(t, authorLookups)
	})
}
