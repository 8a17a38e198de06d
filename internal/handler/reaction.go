package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftwood-dev/driftwood/internal/api"
	mw "github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/utils"
)

func (h *Handler) LikeThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	alreadyLiked, err := h.reaction.Like(r.Context(), *user, threadId)
	if err != nil {
		writeWriteError(w, err)
		return
	}
	writeJSON(w, api.LikeResponse{AlreadyLiked: alreadyLiked})
}

func (h *Handler) UnlikeThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.reaction.Unlike(r.Context(), *user, threadId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
