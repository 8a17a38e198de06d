package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/config"
	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/draft"
)

// memoryDraftFactory keeps one in-memory KV per session id.
type memoryDraftFactory struct {
	sessions map[string]*draft.MemoryKV
}

func newMemoryDraftFactory() *memoryDraftFactory {
	return &memoryDraftFactory{sessions: make(map[string]*draft.MemoryKV)}
}

func (f *memoryDraftFactory) DraftKV(sessionId string) draft.KV {
	kv, ok := f.sessions[sessionId]
	if !ok {
		kv = draft.NewMemoryKV()
		f.sessions[sessionId] = kv
	}
	return kv
}

func draftHandler() *Handler {
	return &Handler{drafts: newMemoryDraftFactory(), cfg: &config.Config{}}
}

func saveDraft(t *testing.T, handler *Handler, user *domain.User, query, title, body string) {
	t.Helper()
	payload, err := json.Marshal(api.SaveDraftRequest{Title: title, Body: body})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/v1/drafts?"+query, strings.NewReader(string(payload)))
	rr := httptest.NewRecorder()
	handler.SaveDraft(rr, withUser(req, user))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func getDraft(t *testing.T, handler *Handler, user *domain.User, query string) api.DraftResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/drafts?"+query, nil)
	rr := httptest.NewRecorder()
	handler.GetDraft(rr, withUser(req, user))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.DraftResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestDraftEndpoints(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		handler := draftHandler()
		req := httptest.NewRequest(http.MethodGet, "/v1/drafts?scope=thread&category=general", nil)
		rr := httptest.NewRecorder()
		handler.GetDraft(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects unknown scope", func(t *testing.T) {
		handler := draftHandler()
		req := httptest.NewRequest(http.MethodGet, "/v1/drafts?scope=везде", nil)
		rr := httptest.NewRecorder()
		handler.GetDraft(rr, withUser(req, testUser()))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("save then restore", func(t *testing.T) {
		handler := draftHandler()
		user := testUser()
		query := "scope=reply&thread=9"

		saveDraft(t, handler, user, query, "", "half-written reply")

		resp := getDraft(t, handler, user, query)
		require.NotNil(t, resp.Draft)
		assert.Equal(t, "half-written reply", resp.Draft.Body)
		assert.True(t, resp.Restorable)
		assert.NotNil(t, resp.UpdatedAt)
	})

	t.Run("not restorable over identical editor contents", func(t *testing.T) {
		handler := draftHandler()
		user := testUser()
		query := "scope=thread&category=general"

		saveDraft(t, handler, user, query, "Title", "Body")

		resp := getDraft(t, handler, user, query+"&title=Title&body=Body")
		assert.False(t, resp.Restorable)
	})

	t.Run("drafts are per-user", func(t *testing.T) {
		handler := draftHandler()
		query := "scope=thread&category=general"

		saveDraft(t, handler, testUser(), query, "Mine", "secret")

		other := &domain.User{Id: 99, DisplayName: "other"}
		resp := getDraft(t, handler, other, query)
		assert.Nil(t, resp.Draft)
	})

	t.Run("discard removes the draft", func(t *testing.T) {
		handler := draftHandler()
		user := testUser()
		query := "scope=thread&category=general"

		saveDraft(t, handler, user, query, "Title", "Body")

		req := httptest.NewRequest(http.MethodDelete, "/v1/drafts?"+query, nil)
		rr := httptest.NewRecorder()
		handler.DiscardDraft(rr, withUser(req, user))
		require.Equal(t, http.StatusNoContent, rr.Code)

		resp := getDraft(t, handler, user, query)
		assert.Nil(t, resp.Draft)
	})

	t.Run("pending clear consumes the draft on next get only", func(t *testing.T) {
		handler := draftHandler()
		user := testUser()
		query := "scope=reply&thread=3"

		saveDraft(t, handler, user, query, "", "posted text")

		req := httptest.NewRequest(http.MethodPost, "/v1/drafts/pending-clear?"+query, nil)
		rr := httptest.NewRecorder()
		handler.MarkDraftPendingClear(rr, withUser(req, user))
		require.Equal(t, http.StatusNoContent, rr.Code)

		// first get after the mark clears the draft
		resp := getDraft(t, handler, user, query)
		assert.Nil(t, resp.Draft)
		assert.False(t, resp.Restorable)

		// the marker is single-use: saving again survives the next get
		saveDraft(t, handler, user, query, "", "new draft")
		resp = getDraft(t, handler, user, query)
		require.NotNil(t, resp.Draft)
		assert.Equal(t, "new draft", resp.Draft.Body)
	})
}
