// Package draft persists in-progress thread and reply text so a user's
// typing survives reloads. Drafts live in an injected key-value store
// scoped per profile; concurrent writers are last-write-wins.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// KV is the storage port. Get returns (nil, nil) on absence.
// Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

const defaultCategory = "default"

// ThreadKey derives the draft key for a new thread in a category.
func ThreadKey(category string) string {
	if category == "" {
		category = defaultCategory
	}
	return "draft:new-thread:" + category
}

// ReplyKey derives the draft key for a reply to a thread.
func ReplyKey(threadId int64) string {
	return fmt.Sprintf("draft:reply:%d", threadId)
}

type Payload struct {
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	kv      KV
	markers KV // short-lived pending-clear markers, separate lifetime
	now     func() time.Time
}

func NewStore(kv, markers KV) *Store {
	return &Store{kv: kv, markers: markers, now: time.Now}
}

// Write persists the draft with a fresh UpdatedAt. Debouncing is the
// caller's job (see Debouncer); the store itself is synchronous.
func (s *Store) Write(ctx context.Context, key string, title, body string) error {
	payload := Payload{Title: title, Body: body, UpdatedAt: s.now()}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	return s.kv.Set(ctx, key, raw)
}

// Read returns the stored draft, or nil when absent or malformed.
// Malformed content is treated as no draft, never an error.
func (s *Store) Read(ctx context.Context, key string) *Payload {
	raw, err := s.kv.Get(ctx, key)
	if err != nil || raw == nil {
		return nil
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return &payload
}

// Clear removes the draft. Idempotent.
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

// Restorable reports whether a stored draft should be surfaced for an
// explicit restore. A draft identical (after trimming) to what's already
// on screen is not worth restoring; it is never auto-applied either way,
// so a stale draft can't clobber freshly typed text.
func Restorable(stored *Payload, currentTitle, currentBody string) bool {
	if stored == nil {
		return false
	}
	return strings.TrimSpace(stored.Title) != strings.TrimSpace(currentTitle) ||
		strings.TrimSpace(stored.Body) != strings.TrimSpace(currentBody)
}

// MarkPendingClear records that a key should be cleared once navigation
// confirms the submission went through.
func (s *Store) MarkPendingClear(ctx context.Context, key string) error {
	return s.markers.Set(ctx, "pending-clear:"+key, []byte("1"))
}

// ConsumePendingClear checks and removes the marker in one step. It is
// consumed on the next evaluation regardless of the submission outcome,
// so markers never leak across unrelated navigations.
func (s *Store) ConsumePendingClear(ctx context.Context, key string) bool {
	markerKey := "pending-clear:" + key
	raw, err := s.markers.Get(ctx, markerKey)
	if err != nil || raw == nil {
		return false
	}
	s.markers.Delete(ctx, markerKey)
	return true
}
