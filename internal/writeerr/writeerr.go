// Package writeerr maps backend write failures to a closed set of
// user-facing error codes. Raw backend text never reaches the user.
package writeerr

import (
	"errors"
	"strings"
)

type Code string

const (
	ThreadCooldown      Code = "THREAD_COOLDOWN"
	ReplyCooldown       Code = "REPLY_COOLDOWN"
	ReportCooldown      Code = "REPORT_COOLDOWN"
	ReportBurstLimit    Code = "REPORT_BURST_LIMIT"
	ReactionUnavailable Code = "REACTION_UNAVAILABLE"
	SelfAction          Code = "SELF_ACTION"
	UnknownWriteError   Code = "UNKNOWN_WRITE_ERROR"
)

// Rate-limit markers embedded in backend error messages.
const (
	MarkerThreadCooldown   = "RATE_LIMIT_THREAD_COOLDOWN"
	MarkerReplyCooldown    = "RATE_LIMIT_REPLY_COOLDOWN"
	MarkerReportCooldown   = "RATE_LIMIT_REPORT_COOLDOWN"
	MarkerReportBurstLimit = "RATE_LIMIT_REPORT_BURST"
)

// Error is a write failure that already carries a recognized code.
// Normalize uses the code verbatim.
type Error struct {
	Code Code
}

func (e *Error) Error() string { return string(e.Code) }

func New(code Code) *Error { return &Error{Code: code} }

type Normalized struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Rule maps a backend marker substring to a code. Rules are evaluated in
// order, first match wins.
type Rule struct {
	Marker string
	Code   Code
}

// Rules is the full, ordered marker table. Exported so tests can enumerate it.
var Rules = []Rule{
	{MarkerThreadCooldown, ThreadCooldown},
	{MarkerReplyCooldown, ReplyCooldown},
	{MarkerReportBurstLimit, ReportBurstLimit}, // before the cooldown marker, which is its prefix-sibling
	{MarkerReportCooldown, ReportCooldown},
}

var messages = map[Code]string{
	ThreadCooldown:      "You're posting threads too quickly. Wait a moment and try again.",
	ReplyCooldown:       "You're replying too quickly. Wait a moment and try again.",
	ReportCooldown:      "You're reporting too quickly. Wait a moment and try again.",
	ReportBurstLimit:    "You've reached the report limit for now. Try again later.",
	ReactionUnavailable: "Reactions aren't available for this thread.",
	SelfAction:          "You can't do that to your own post.",
	UnknownWriteError:   "Something went wrong saving your changes. Please try again.",
}

// Message returns the fixed user-facing message for a code.
func Message(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[UnknownWriteError]
}

// Normalize maps any write-path error to a user-facing code and message.
// A typed *Error wins; otherwise the raw message is matched against the
// marker table; no match means UnknownWriteError.
func Normalize(err error) Normalized {
	var typed *Error
	if errors.As(err, &typed) {
		return Normalized{Code: typed.Code, Message: Message(typed.Code)}
	}

	msg := err.Error()
	for _, rule := range Rules {
		if strings.Contains(msg, rule.Marker) {
			return Normalized{Code: rule.Code, Message: Message(rule.Code)}
		}
	}
	return Normalized{Code: UnknownWriteError, Message: Message(UnknownWriteError)}
}
