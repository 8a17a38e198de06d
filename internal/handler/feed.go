package handler

import (
	"net/http"
	"strconv"

	"github.com/driftwood-dev/driftwood/internal/api"
	"github.com/driftwood-dev/driftwood/internal/discovery"
	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/signal"
	"github.com/driftwood-dev/driftwood/internal/utils"
)

// Feed serves GET /v1/threads. Every query parameter is optional and
// invalid values fall back to defaults rather than erroring:
//
//	q          substring match against title or body
//	sort       newest | oldest | activity (default activity)
//	signal     all | unanswered | active | popular (default all)
//	page       1-based, default 1
//	category   category slug scope
//	newsletter newsletter id scope
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := discovery.Request{
		ThreadFilter: domain.ThreadFilter{
			Category: query.Get("category"),
			Query:    query.Get("q"),
			Sort:     domain.ParseThreadSort(query.Get("sort")),
			Page:     parsePage(query.Get("page")),
			PageSize: h.cfg.Public.ThreadsPerPage,
		},
		Signal: signal.ParseFilter(query.Get("signal")),
	}
	if raw := query.Get("newsletter"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			req.Newsletter = &id
		}
	}

	page, err := h.feed.List(r.Context(), req)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.FeedResponse{ThreadPage: page})
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
