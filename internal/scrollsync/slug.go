package scrollsync

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	dashVariants    = strings.NewReplacer("‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-")
	nonWordRe       = regexp.MustCompile(`[^a-z0-9_\- ]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	excessHyphensRe = regexp.MustCompile(`-{3,}`)
)

// Slugify converts heading or alt text into a stable identifier fragment:
// lowercased, dash variants normalized, non-word characters stripped,
// whitespace collapsed to single hyphens, runs of 3+ hyphens collapsed to
// two, and leading/trailing hyphens trimmed.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = dashVariants.Replace(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = excessHyphensRe.ReplaceAllString(s, "--")
	return strings.Trim(s, "-")
}

// slugCounter disambiguates repeated identifiers within a single parse or
// resolve pass. It is always rebuilt per pass; the parser and the preview
// resolver must independently produce identical counters given identical
// document order.
type slugCounter struct {
	seen map[string]int
}

func newSlugCounter() *slugCounter {
	return &slugCounter{seen: make(map[string]int)}
}

// take returns base for the first occurrence and base--N for repeats,
// numbered by first-seen order.
func (c *slugCounter) take(base string) string {
	n := c.seen[base]
	c.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s--%d", base, n)
}
