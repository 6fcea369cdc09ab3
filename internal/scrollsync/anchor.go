package scrollsync

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// AnchorType categorizes structural anchors.
type AnchorType int

const (
	AnchorHeader AnchorType = iota
	AnchorRule
	AnchorCodeBlock
	AnchorTable
	AnchorImage
	AnchorBlockquote
)

// String returns the string representation of the anchor type.
func (t AnchorType) String() string {
	switch t {
	case AnchorHeader:
		return "header"
	case AnchorRule:
		return "hr"
	case AnchorCodeBlock:
		return "codeblock"
	case AnchorTable:
		return "table"
	case AnchorImage:
		return "image"
	case AnchorBlockquote:
		return "blockquote"
	default:
		return "unknown"
	}
}

// Anchor ties one source line to one rendered structural element.
type Anchor struct {
	SourceLine int    // 1-indexed line in the raw document
	Type       AnchorType
	ID         string // unique within one parse pass
}

// ParsedSource is the parse result for one document revision. It is rebuilt
// wholesale on every content change.
type ParsedSource struct {
	Anchors []Anchor // ascending by SourceLine

	// prefixHidden[i] is the count of non-rendering lines among lines 1..i.
	// Index 0 is always zero.
	prefixHidden []int
	lineCount    int
}

var (
	htmlHeadingRe = regexp.MustCompile(`^<h([1-6])[\s>]`)
	htmlBlockRe   = regexp.MustCompile(`^<(hr|table|img)\b`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	atxHeadingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	imageRe       = regexp.MustCompile(`!\[([^\]]*)\][\(\[]`)
)

// Parse scans the full document once and produces the anchor list plus the
// hidden-line prefix table. Unterminated comment blocks and fences hide or
// swallow the remainder of the document; that is the defined outcome for
// malformed input, not an error.
func Parse(content string) *ParsedSource {
	lines := strings.Split(content, "\n")
	parsed := &ParsedSource{
		prefixHidden: make([]int, len(lines)+1),
		lineCount:    len(lines),
	}

	slugs := newSlugCounter()

	var (
		inFrontmatter bool
		inComment     bool
		inFence       bool
		fenceChar     byte
		fenceLen      int
	)

	hidden := 0
	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		switch {
		case inFrontmatter:
			hidden++
			if trimmed == "---" || trimmed == "..." {
				inFrontmatter = false
			}

		case inComment:
			hidden++
			if strings.Contains(raw, "-->") {
				inComment = false
			}

		case inFence:
			// Closes only on a fence of the same character with length
			// greater than or equal to the opener's.
			if ch, n, ok := fenceLine(trimmed); ok && ch == fenceChar && n >= fenceLen {
				inFence = false
			}

		case i == 0 && trimmed == "---":
			hidden++
			inFrontmatter = true

		case opensComment(raw):
			hidden++
			inComment = true

		default:
			if ch, n, ok := fenceLine(trimmed); ok {
				inFence = true
				fenceChar = ch
				fenceLen = n
				parsed.append(lineNo, AnchorCodeBlock, slugs.take("code"))
				break
			}

			prev := ""
			if i > 0 {
				prev = strings.TrimSpace(lines[i-1])
			}
			parsed.detect(lineNo, trimmed, prev, slugs)
		}

		parsed.prefixHidden[lineNo] = hidden
	}

	return parsed
}

// detect applies the structural detectors in priority order to a single
// visible line outside any fence, comment, or frontmatter block.
func (p *ParsedSource) detect(lineNo int, trimmed, prev string, slugs *slugCounter) {
	lower := strings.ToLower(trimmed)

	if m := htmlHeadingRe.FindStringSubmatch(lower); m != nil {
		text := strings.TrimSpace(htmlTagRe.ReplaceAllString(trimmed, " "))
		p.append(lineNo, AnchorHeader, slugs.take(headingBase(m[1], text)))
		return
	}

	if m := htmlBlockRe.FindStringSubmatch(lower); m != nil {
		switch m[1] {
		case "hr":
			p.append(lineNo, AnchorRule, slugs.take("hr"))
		case "table":
			p.append(lineNo, AnchorTable, slugs.take("table"))
		case "img":
			p.append(lineNo, AnchorImage, slugs.take("img"))
		}
		return
	}

	if m := atxHeadingRe.FindStringSubmatch(trimmed); m != nil {
		level := fmt.Sprintf("%d", len(m[1]))
		p.append(lineNo, AnchorHeader, slugs.take(headingBase(level, m[2])))
		return
	}

	if isRuleLine(trimmed) {
		p.append(lineNo, AnchorRule, slugs.take("hr"))
		return
	}

	if isTableStart(trimmed, prev) {
		p.append(lineNo, AnchorTable, slugs.take("table"))
		return
	}

	if m := imageRe.FindStringSubmatch(trimmed); m != nil {
		p.append(lineNo, AnchorImage, slugs.take(imageBase(m[1])))
		return
	}

	if strings.HasPrefix(trimmed, ">") && !strings.HasPrefix(prev, ">") {
		p.append(lineNo, AnchorBlockquote, slugs.take("quote"))
	}
}

func (p *ParsedSource) append(line int, t AnchorType, id string) {
	p.Anchors = append(p.Anchors, Anchor{SourceLine: line, Type: t, ID: id})
}

func headingBase(level, text string) string {
	slug := Slugify(text)
	if slug == "" {
		return "h" + level
	}
	return "h" + level + "-" + slug
}

func imageBase(alt string) string {
	slug := Slugify(alt)
	if slug == "" {
		return "img"
	}
	return "img-" + slug
}

// fenceLine reports whether trimmed opens or closes a fenced block: three or
// more repeated backticks or tildes, optionally followed by an info string.
func fenceLine(trimmed string) (byte, int, bool) {
	if trimmed == "" {
		return 0, 0, false
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// opensComment reports whether the line opens an HTML comment that is not
// closed on the same line.
func opensComment(raw string) bool {
	idx := strings.Index(raw, "<!--")
	if idx < 0 {
		return false
	}
	return !strings.Contains(raw[idx+4:], "-->")
}

// isRuleLine matches horizontal rules: 3+ repeated '-', '*', or '_', with
// interior spaces permitted.
func isRuleLine(trimmed string) bool {
	compact := strings.ReplaceAll(trimmed, " ", "")
	if len(compact) < 3 {
		return false
	}
	ch := compact[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	for i := 1; i < len(compact); i++ {
		if compact[i] != ch {
			return false
		}
	}
	return true
}

// isTableStart matches the first line of a pipe table: starts with '|', is
// not itself a separator row, and the previous line does not also start
// with '|'.
func isTableStart(trimmed, prev string) bool {
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	if strings.HasPrefix(prev, "|") {
		return false
	}
	return !isTableSeparator(trimmed)
}

func isTableSeparator(trimmed string) bool {
	sawDash := false
	for _, r := range trimmed {
		switch r {
		case '|', ':', ' ', '\t':
		case '-':
			sawDash = true
		default:
			return false
		}
	}
	return sawDash
}

// LineCount returns the total number of source lines.
func (p *ParsedSource) LineCount() int {
	return p.lineCount
}

// HiddenThrough returns the count of non-rendering lines among lines 1..line.
// Lookups are O(1) via the prefix table.
func (p *ParsedSource) HiddenThrough(line int) int {
	if line <= 0 {
		return 0
	}
	if line > p.lineCount {
		line = p.lineCount
	}
	return p.prefixHidden[line]
}

// IsHidden reports whether the given 1-indexed source line produces no
// rendered output (frontmatter or comment content).
func (p *ParsedSource) IsHidden(line int) bool {
	if line <= 0 || line > p.lineCount {
		return false
	}
	return p.prefixHidden[line] > p.prefixHidden[line-1]
}

// RenderedLineCount returns the number of lines that produce rendered output.
func (p *ParsedSource) RenderedLineCount() int {
	return p.lineCount - p.prefixHidden[p.lineCount]
}

// RenderedIndex maps a 1-indexed source line to its 0-indexed position among
// rendered lines, skipping hidden lines above it.
func (p *ParsedSource) RenderedIndex(line int) int {
	if line <= 0 {
		return 0
	}
	if line > p.lineCount {
		line = p.lineCount
	}
	return line - 1 - p.HiddenThrough(line-1)
}

// LineForRenderedIndex is the inverse of RenderedIndex: it returns the first
// source line whose rendered index is at least idx.
func (p *ParsedSource) LineForRenderedIndex(idx int) int {
	if p.lineCount == 0 {
		return 1
	}
	line := sort.Search(p.lineCount, func(i int) bool {
		return p.RenderedIndex(i+1) >= idx
	})
	if line >= p.lineCount {
		return p.lineCount
	}
	return line + 1
}
