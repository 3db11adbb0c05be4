// Package htmlsanitize strips dangerous markup from user-supplied rich
// text before it is persisted. Story descriptions and acceptance criteria
// accept limited formatting; everything else is stripped.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and unapproved tags
// removed. Safe formatting (paragraphs, emphasis, lists, links) survives.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
