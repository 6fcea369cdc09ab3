package scrollsync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchorIDs(p *ParsedSource) []string {
	ids := make([]string, 0, len(p.Anchors))
	for _, a := range p.Anchors {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestParseProducesUniqueOrderedAnchors(t *testing.T) {
	content := strings.Join([]string{
		"# Title",
		"text",
		"## Intro",
		"text",
		"## Intro",
		"---",
		"| a | b |",
		"|---|---|",
		"| 1 | 2 |",
		"![Logo](logo.png)",
		"> quoted",
		"> still quoted",
	}, "\n")

	p := Parse(content)

	assert.Equal(t, []string{
		"h1-title", "h2-intro", "h2-intro--1", "hr", "table", "img-logo", "quote",
	}, anchorIDs(p))

	seen := make(map[string]bool)
	lastLine := 0
	for _, a := range p.Anchors {
		assert.False(t, seen[a.ID], "duplicate identifier %q", a.ID)
		seen[a.ID] = true
		assert.Greater(t, a.SourceLine, lastLine, "anchors out of order at %q", a.ID)
		lastLine = a.SourceLine
	}
}

func TestParseAnchorTypes(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType AnchorType
		wantID   string
	}{
		{
			name:     "atx heading",
			content:  "### Deep Dive",
			wantType: AnchorHeader,
			wantID:   "h3-deep-dive",
		},
		{
			name:     "heading with empty slug",
			content:  "## !!!",
			wantType: AnchorHeader,
			wantID:   "h2",
		},
		{
			name:     "html heading",
			content:  "<h2>Hello World</h2>",
			wantType: AnchorHeader,
			wantID:   "h2-hello-world",
		},
		{
			name:     "html rule",
			content:  "<hr/>",
			wantType: AnchorRule,
			wantID:   "hr",
		},
		{
			name:     "html table",
			content:  "<table>",
			wantType: AnchorTable,
			wantID:   "table",
		},
		{
			name:     "html image",
			content:  `<img src="x.png">`,
			wantType: AnchorImage,
			wantID:   "img",
		},
		{
			name:     "rule with spaces",
			content:  "- - -",
			wantType: AnchorRule,
			wantID:   "hr",
		},
		{
			name:     "asterisk rule",
			content:  "***",
			wantType: AnchorRule,
			wantID:   "hr",
		},
		{
			name:     "image without alt",
			content:  "![](pic.png)",
			wantType: AnchorImage,
			wantID:   "img",
		},
		{
			name:     "reference style image",
			content:  "![Diagram][ref]",
			wantType: AnchorImage,
			wantID:   "img-diagram",
		},
		{
			name:     "blockquote",
			content:  "> words",
			wantType: AnchorBlockquote,
			wantID:   "quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.content)
			require.Len(t, p.Anchors, 1)
			assert.Equal(t, tt.wantType, p.Anchors[0].Type)
			assert.Equal(t, tt.wantID, p.Anchors[0].ID)
			assert.Equal(t, 1, p.Anchors[0].SourceLine)
		})
	}
}

func TestParseTableOnlyFirstLineAnchors(t *testing.T) {
	content := strings.Join([]string{
		"| a | b |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"|---|",
	}, "\n")

	p := Parse(content)

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, AnchorTable, p.Anchors[0].Type)
	assert.Equal(t, 1, p.Anchors[0].SourceLine)
}

func TestParseBlockquoteOnlyFirstLineAnchors(t *testing.T) {
	content := "> one\n> two\n\n> new quote"

	p := Parse(content)

	require.Len(t, p.Anchors, 2)
	assert.Equal(t, []string{"quote", "quote--1"}, anchorIDs(p))
	assert.Equal(t, 1, p.Anchors[0].SourceLine)
	assert.Equal(t, 4, p.Anchors[1].SourceLine)
}

func TestParseFrontmatterHidden(t *testing.T) {
	content := strings.Join([]string{
		"---",
		"title: duet",
		"---",
		"# After",
	}, "\n")

	p := Parse(content)

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, "h1-after", p.Anchors[0].ID)
	assert.Equal(t, 4, p.Anchors[0].SourceLine)

	assert.Equal(t, 3, p.HiddenThrough(3))
	assert.True(t, p.IsHidden(1))
	assert.True(t, p.IsHidden(3))
	assert.False(t, p.IsHidden(4))
	assert.Equal(t, 1, p.RenderedLineCount())
	assert.Equal(t, 0, p.RenderedIndex(4))
}

func TestParseFrontmatterOnlyAtLineOne(t *testing.T) {
	// A --- block later in the document is a rule, not frontmatter.
	p := Parse("intro\n---\ntitle: nope\n---")

	assert.Equal(t, 0, p.HiddenThrough(4))
	require.Len(t, p.Anchors, 2)
	assert.Equal(t, AnchorRule, p.Anchors[0].Type)
	assert.Equal(t, AnchorRule, p.Anchors[1].Type)
}

func TestParseUnterminatedCommentHidesRemainder(t *testing.T) {
	content := strings.Join([]string{
		"# Top",
		"<!-- note",
		"still hidden",
		"# not an anchor",
	}, "\n")

	p := Parse(content)

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, "h1-top", p.Anchors[0].ID)
	assert.Equal(t, 3, p.HiddenThrough(4))
	assert.True(t, p.IsHidden(4))
}

func TestParseCommentClosedSameLine(t *testing.T) {
	p := Parse("<!-- inline -->\n# Visible")

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, "h1-visible", p.Anchors[0].ID)
	assert.Equal(t, 0, p.HiddenThrough(2))
}

func TestParseCommentBlockSuppressesAnchors(t *testing.T) {
	content := strings.Join([]string{
		"<!--",
		"# inside comment",
		"-->",
		"## Outside",
	}, "\n")

	p := Parse(content)

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, "h2-outside", p.Anchors[0].ID)
	assert.Equal(t, 3, p.HiddenThrough(3))
}

func TestParseFenceSwallowsContent(t *testing.T) {
	content := "```go\n# inside\n~~~\n``\n```\n# after"

	p := Parse(content)

	require.Len(t, p.Anchors, 2)
	assert.Equal(t, AnchorCodeBlock, p.Anchors[0].Type)
	assert.Equal(t, "code", p.Anchors[0].ID)
	assert.Equal(t, 1, p.Anchors[0].SourceLine)
	assert.Equal(t, "h1-after", p.Anchors[1].ID)
	assert.Equal(t, 6, p.Anchors[1].SourceLine)
}

func TestParseFenceCloseRequiresOpenerLength(t *testing.T) {
	content := "````\ntext\n```\nstill inside\n````\n# end"

	p := Parse(content)

	require.Len(t, p.Anchors, 2)
	assert.Equal(t, AnchorCodeBlock, p.Anchors[0].Type)
	assert.Equal(t, "h1-end", p.Anchors[1].ID)
}

func TestParseTildeFence(t *testing.T) {
	content := "~~~\n# hidden\n~~~\n# ok"

	p := Parse(content)

	require.Len(t, p.Anchors, 2)
	assert.Equal(t, AnchorCodeBlock, p.Anchors[0].Type)
	assert.Equal(t, "h1-ok", p.Anchors[1].ID)
}

func TestParseUnterminatedFenceSwallowsToEnd(t *testing.T) {
	content := "```\n# never closes\n## also inside"

	p := Parse(content)

	require.Len(t, p.Anchors, 1)
	assert.Equal(t, AnchorCodeBlock, p.Anchors[0].Type)
}

func TestRenderedIndexInverse(t *testing.T) {
	content := strings.Join([]string{
		"---",
		"a: 1",
		"---",
		"one",
		"two",
		"three",
	}, "\n")

	p := Parse(content)

	assert.Equal(t, 3, p.RenderedLineCount())
	assert.Equal(t, 4, p.LineForRenderedIndex(0))
	assert.Equal(t, 5, p.LineForRenderedIndex(1))
	assert.Equal(t, 6, p.LineForRenderedIndex(2))
	for _, line := range []int{4, 5, 6} {
		assert.Equal(t, line, p.LineForRenderedIndex(p.RenderedIndex(line)))
	}
}

func TestParseEmptyContent(t *testing.T) {
	p := Parse("")

	assert.Empty(t, p.Anchors)
	assert.Equal(t, 1, p.LineCount())
	assert.Equal(t, 0, p.HiddenThrough(1))
}
