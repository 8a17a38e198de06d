// Package markdown renders user-authored thread and reply bodies to HTML.
// Output is always run through the sanitizer, so storage keeps raw text and
// templates only ever see a safe fragment.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policy = bluemonday.UGCPolicy()
)

// Render converts markdown to sanitized HTML. On a rendering failure the
// body is returned sanitized as-is rather than dropped.
func Render(body string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return policy.Sanitize(body)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}
