package handler

import (
	"net/http"
	"strconv"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/domain"
	mw "github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/utils"
)

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateReportRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err := h.report.Create(r.Context(), &domain.ReportCreationData{
		Reporter: *user,
		ThreadId: body.ThreadId,
		ReplyId:  body.ReplyId,
		Reason:   body.Reason,
	})
	if err != nil {
		writeWriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := h.report.List(r.Context(), limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.ReportListResponse{Reports: reports})
}
