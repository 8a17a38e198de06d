package validation

import (
	"fmt"
	"net/http"
)

// ValidateAndParseMultipart caps the request body and parses the multipart
// form. MaxBytesReader stops reading at the limit, so an oversized upload
// cannot exhaust the server regardless of its declared size.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// MaxRequestSize is the request-body cap for thread/reply forms: all
// attachments plus a buffer for the text fields and multipart overhead.
func MaxRequestSize() int64 {
	return MaxAttachmentCount*MaxAttachmentBytes + 1<<20
}
