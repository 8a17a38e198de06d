package handler

import (
	"fmt"
	"net/http"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/utils"
)

func (h *Handler) CreateNewsletter(w http.ResponseWriter, r *http.Request) {
	var body api.CreateNewsletterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.newsletter.Create(r.Context(), domain.NewsletterCreationData{
		Slug: body.Slug,
		Name: body.Name,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", id)
}

func (h *Handler) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	newsletters, err := h.newsletter.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewsletterListResponse{Newsletters: newsletters})
}

// IngestIssue is called by the newsletter delivery pipeline, not by users.
// It authenticates with the pre-shared token in the X-Ingest-Token header.
func (h *Handler) IngestIssue(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Ingest-Token")

	var body api.IngestIssueRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	threadId, err := h.newsletter.Ingest(r.Context(), token, domain.IssueIngestData{
		Newsletter: body.Newsletter,
		Category:   body.Category,
		Subject:    body.Subject,
		Body:       body.Body,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, "%d", threadId)
}
