package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
	"github.com/driftwood-dev/driftwood/internal/logger"
	mw "github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/utils"
	"github.com/driftwood-dev/driftwood/internal/validation"
	"github.com/driftwood-dev/driftwood/internal/writeerr"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body, pendingFiles, cleanup, err := parseMultipartRequest[api.CreateThreadRequest](w, r)
	if err != nil {
		writeAttachmentError(w, err)
		return
	}
	defer cleanup()

	creation := domain.ThreadCreationData{
		Title:        body.Title,
		Category:     body.Category,
		NewsletterId: body.Newsletter,
		Author:       *user,
		Body:         body.Body,
	}

	threadId, err := h.thread.Create(r.Context(), creation, pendingFiles)
	if err != nil {
		writeWriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", threadId)
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	thread, err := h.thread.Get(r.Context(), threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ThreadResponse{Thread: thread})
}

func (h *Handler) EditThread(w http.ResponseWriter, r *http.Request) {
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

	var body api.EditThreadRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.thread.Edit(r.Context(), *user, threadId, body.Title, body.Body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
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

	if err := h.thread.Delete(r.Context(), *user, threadId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ToggleLockedThread(w http.ResponseWriter, r *http.Request) {
	toggleThreadFlag(w, r, "is_locked", h.thread.ToggleLocked)
}

func (h *Handler) TogglePinnedThread(w http.ResponseWriter, r *http.Request) {
	toggleThreadFlag(w, r, "is_pinned", h.thread.TogglePinned)
}

func toggleThreadFlag(w http.ResponseWriter, r *http.Request, field string, toggle func(ctx context.Context, id domain.ThreadId) (bool, error)) {
	threadId, err := parseIntParam(chi.URLParam(r, "thread"), "thread ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	newStatus, err := toggle(r.Context(), threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"%s": %t}`, field, newStatus)
}

// writeAttachmentError maps upload validation failures onto stable codes:
// 413 for an oversized request body, 400 with the attachment code otherwise.
func writeAttachmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, validation.ErrPayloadTooLarge) {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	var attachmentErr *validation.AttachmentError
	if errors.As(err, &attachmentErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"code":%q,"message":%q}`, attachmentErr.Code, attachmentErr.Message)
		return
	}
	utils.WriteErrorAndStatusCode(w, err)
}

// writeWriteError normalizes post/reply/report write failures to the closed
// user-facing code set. Status-coded errors (validation, not-found, locked)
// pass through untouched; only rate limits and unknown write failures get
// normalized, so backend internals never leak.
func writeWriteError(w http.ResponseWriter, err error) {
	var statusErr *internal_errors.ErrorWithStatusCode
	if errors.As(err, &statusErr) {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	normalized := writeerr.Normalize(err)
	status := http.StatusTooManyRequests
	if normalized.Code == writeerr.UnknownWriteError {
		logger.Log.Error("write failed", "err", err)
		status = http.StatusInternalServerError
	} else if normalized.Code == writeerr.SelfAction || normalized.Code == writeerr.ReactionUnavailable {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":%q,"message":%q}`, normalized.Code, normalized.Message)
}
