package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/driftwood-dev/driftwood/internal/domain"
	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
	"github.com/driftwood-dev/driftwood/internal/utils"
	"github.com/driftwood-dev/driftwood/internal/validation"
)

// parseMultipartRequest parses a multipart form request carrying a "json"
// field plus optional "attachments" files. Returns the decoded payload, the
// validated files and a cleanup that closes them.
func parseMultipartRequest[T any](w http.ResponseWriter, r *http.Request) (body T, pendingFiles []*domain.PendingFile, cleanup func(), err error) {
	cleanup = func() {}

	if err = validation.ValidateAndParseMultipart(r, w, validation.MaxRequestSize()); err != nil {
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		err = &internal_errors.ErrorWithStatusCode{Message: "Missing JSON payload in multipart form", StatusCode: http.StatusBadRequest}
		return
	}
	if err = utils.DecodeValidate(io.NopCloser(strings.NewReader(jsonPayload)), &body); err != nil {
		return
	}

	files := r.MultipartForm.File["attachments"]
	if len(files) > 0 {
		pendingFiles, err = validation.ValidateAttachments(files)
		if err != nil {
			return
		}
		cleanup = func() {
			for _, pf := range pendingFiles {
				pf.Data.Close()
			}
		}
	}
	return
}

func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}
