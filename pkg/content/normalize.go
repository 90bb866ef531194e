package content

import (
	"regexp"
	"strings"
)

var (
	blankLineRun  = regexp.MustCompile(`(\n\s*){3,}`)
	whitespaceRun = regexp.MustCompile(`\s{2,}`)
)

// NormalizeText collapses runs of three or more line breaks to two, then any
// run of two or more whitespace characters to a single space, and trims.
// Applying it to its own output is a no-op.
func NormalizeText(s string) string {
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
