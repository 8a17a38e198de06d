package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

type AttachmentCode string

const (
	AttachmentsTooMany    AttachmentCode = "ATTACHMENTS_TOO_MANY"
	AttachmentInvalidType AttachmentCode = "ATTACHMENT_INVALID_TYPE"
	AttachmentTooLarge    AttachmentCode = "ATTACHMENT_TOO_LARGE"
)

// AttachmentError is a pre-storage validation failure with a stable code.
type AttachmentError struct {
	Code    AttachmentCode
	Message string
}

func (e *AttachmentError) Error() string {
	return string(e.Code) + ": " + e.Message
}
