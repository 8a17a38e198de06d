package handler

import (
	"fmt"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/draft"
	mw "github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/utils"
)

// draftKeyFromQuery derives the draft key from the request scope:
//
//	scope=thread&category=<slug>   new-thread draft per category
//	scope=reply&thread=<id>        reply draft per thread
func draftKeyFromQuery(r *http.Request) (string, error) {
	query := r.URL.Query()
	switch query.Get("scope") {
	case "thread":
		return draft.ThreadKey(query.Get("category")), nil
	case "reply":
		threadId, err := parseIntParam(query.Get("thread"), "thread ID")
		if err != nil {
			return "", err
		}
		return draft.ReplyKey(threadId), nil
	}
	return "", fmt.Errorf("scope must be thread or reply")
}

func (h *Handler) draftStore(userId int64) *draft.Store {
	kv := h.drafts.DraftKV(fmt.Sprintf("user_%d", userId))
	// the same KV carries the pending-clear markers, they live under their
	// own key prefix
	return draft.NewStore(kv, kv)
}

// GetDraft returns the stored draft for the key plus whether it's worth
// restoring over the caller's current editor contents (title/body query
// params). A pending-clear marker set by a successful submission is
// consumed here: it clears the stored draft exactly once, so the editor
// never resurrects text that was already posted.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	key, err := draftKeyFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	store := h.draftStore(user.Id)

	if store.ConsumePendingClear(r.Context(), key) {
		if err := store.Clear(r.Context(), key); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, api.DraftResponse{})
		return
	}

	stored := store.Read(r.Context(), key)
	resp := api.DraftResponse{
		Draft:      stored,
		Restorable: draft.Restorable(stored, r.URL.Query().Get("title"), r.URL.Query().Get("body")),
	}
	if stored != nil {
		resp.UpdatedAt = &stored.UpdatedAt
	}
	writeJSON(w, resp)
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	key, err := draftKeyFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.SaveDraftRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.draftStore(user.Id).Write(r.Context(), key, body.Title, body.Body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	key, err := draftKeyFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.draftStore(user.Id).Clear(r.Context(), key); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkDraftPendingClear is called right after a successful thread or reply
// submission. The draft itself is cleared on the next GetDraft evaluation.
func (h *Handler) MarkDraftPendingClear(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	key, err := draftKeyFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.draftStore(user.Id).MarkPendingClear(r.Context(), key); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
