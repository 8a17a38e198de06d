package draft

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestStore() *Store {
	return NewStore(NewMemoryKV(), NewMemoryKV())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "draft:new-thread:general", ThreadKey("general"))
	assert.Equal(t, "draft:new-thread:default", ThreadKey(""))
	assert.Equal(t, "draft:reply:42", ReplyKey(42))

	// distinct discriminators never collide
	assert.NotEqual(t, ThreadKey("a"), ThreadKey("b"))
	assert.NotEqual(t, ThreadKey("42"), ReplyKey(42))
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore()
	key := ThreadKey("general")

	require.NoError(t, s.Write(ctx, key, "My title", "My body"))

	got := s.Read(ctx, key)
	require.NotNil(t, got)
	assert.Equal(t, "My title", got.Title)
	assert.Equal(t, "My body", got.Body)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestReadAbsentAndMalformed(t *testing.T) {
	kv := NewMemoryKV()
	s := NewStore(kv, NewMemoryKV())

	assert.Nil(t, s.Read(ctx, "draft:reply:1"))

	// malformed stored content reads as no draft, never errors
	require.NoError(t, kv.Set(ctx, "draft:reply:1", []byte("{not json")))
	assert.Nil(t, s.Read(ctx, "draft:reply:1"))
}

func TestClearIdempotent(t *testing.T) {
	s := newTestStore()
	key := ReplyKey(7)

	require.NoError(t, s.Write(ctx, key, "", "half-typed reply"))
	require.NoError(t, s.Clear(ctx, key))
	assert.Nil(t, s.Read(ctx, key))

	// second clear is a no-op, not an error
	require.NoError(t, s.Clear(ctx, key))
}

func TestRestorable(t *testing.T) {
	stored := &Payload{Title: "Draft title", Body: "Draft body", UpdatedAt: time.Now()}

	assert.True(t, Restorable(stored, "", ""))
	assert.True(t, Restorable(stored, "Other title", "Other body"))

	// identical after trimming: nothing to restore
	assert.False(t, Restorable(stored, "  Draft title ", "Draft body\n"))
	assert.False(t, Restorable(nil, "anything", "anything"))
}

// Scenario: draft restore and discard lifecycle.
func TestRestoreLifecycle(t *testing.T) {
	s := newTestStore()
	key := ThreadKey("general")

	require.NoError(t, s.Write(ctx, key, "Saved title", "Saved body"))

	// fresh mount with different initial values: draft is restorable
	stored := s.Read(ctx, key)
	require.True(t, Restorable(stored, "New title", "New body"))

	// user discards: stored entry goes away, later mounts see nothing
	require.NoError(t, s.Clear(ctx, key))
	assert.Nil(t, s.Read(ctx, key))
	assert.False(t, Restorable(s.Read(ctx, key), "New title", "New body"))
}

func TestPendingClearMarker(t *testing.T) {
	s := newTestStore()
	key := ReplyKey(3)

	require.NoError(t, s.MarkPendingClear(ctx, key))

	// consumed exactly once, regardless of outcome
	assert.True(t, s.ConsumePendingClear(ctx, key))
	assert.False(t, s.ConsumePendingClear(ctx, key))

	// markers for other keys are untouched
	require.NoError(t, s.MarkPendingClear(ctx, ReplyKey(4)))
	assert.False(t, s.ConsumePendingClear(ctx, ReplyKey(5)))
	assert.True(t, s.ConsumePendingClear(ctx, ReplyKey(4)))
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired atomic.Int32

	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
