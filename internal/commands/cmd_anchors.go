package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/duetview/duet/internal/core/docs"
	"github.com/duetview/duet/internal/core/styles"
	"github.com/duetview/duet/internal/scrollsync"
)

type AnchorsCmd struct {
	flags *Flags
}

// NewAnchorsCmd creates the anchors command, a diagnostic dump of the
// structural landmarks the sync engine aligns on.
func NewAnchorsCmd(flags *Flags) *AnchorsCmd {
	return &AnchorsCmd{flags: flags}
}

func (cmd *AnchorsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "anchors",
		Usage:     "Print the structural anchors parsed from a document",
		UsageText: "duet anchors <file>",
		Description: `Parses the document and prints each structural anchor with its source
line, type, and identifier, plus a summary of hidden (non-rendering) lines.
Useful for understanding why two panes align the way they do.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *AnchorsCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	doc, err := docs.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	parsed := scrollsync.Parse(doc.Content)
	printAnchors(c.Root().Writer, doc.RelPath, parsed)
	return nil
}

func printAnchors(w io.Writer, name string, parsed *scrollsync.ParsedSource) {
	fmt.Fprintln(w, styles.CommandHeaderStyle.Render(name))
	fmt.Fprintln(w, styles.DividerStyle.Render("────────────────────────────────────────"))

	if len(parsed.Anchors) == 0 {
		fmt.Fprintln(w, "no structural anchors; scroll mapping falls back to percentage")
	}
	for _, a := range parsed.Anchors {
		fmt.Fprintf(w, "%5d  %-10s  %s\n", a.SourceLine, a.Type, a.ID)
	}

	hidden := parsed.HiddenThrough(parsed.LineCount())
	fmt.Fprintln(w, styles.DividerStyle.Render("────────────────────────────────────────"))
	fmt.Fprintf(w, "%d lines, %d hidden, %d anchors\n", parsed.LineCount(), hidden, len(parsed.Anchors))
}
