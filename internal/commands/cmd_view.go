package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/duetview/duet/internal/core/docs"
	"github.com/duetview/duet/internal/tui"
)

type ViewCmd struct {
	flags *Flags
}

// NewViewCmd creates the view command. It also serves as the default action
// when duet is invoked without a subcommand.
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Open a markdown document in the split view",
		UsageText: "duet view [path]",
		Description: `Opens the document in a side-by-side source and preview layout with
synchronized scrolling. Given a directory, discovers markdown files using the
configured include patterns and prompts for a selection.`,
		Action: cmd.Run,
	})
	return app
}

// Run executes the split view. Exported for use as the default command.
func (cmd *ViewCmd) Run(ctx context.Context, c *cli.Command) error {
	path, err := cmd.resolveTarget(c.Args().First())
	if err != nil {
		return err
	}

	doc, err := docs.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}

	log.Info().Str("path", doc.Path).Msg("opening document")

	model := tui.NewModel(cmd.flags.Config, doc)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// resolveTarget turns the CLI argument into a single document path. An empty
// argument means the current directory; directories go through discovery and,
// when more than one file matches, an interactive picker.
func (cmd *ViewCmd) resolveTarget(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}

	info, err := os.Stat(arg)
	if err == nil && !info.IsDir() {
		return arg, nil
	}

	var found []docs.Document
	switch {
	case err == nil:
		found, err = docs.Discover(arg, cmd.flags.Config.Files.Include)
		if err != nil {
			return "", fmt.Errorf("discover documents: %w", err)
		}
	case doublestar.ValidatePattern(arg):
		// Not a file or directory; treat the argument as a glob.
		found, err = docs.Glob(arg)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("cannot access %q: %w", arg, err)
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("no markdown files found under %q", arg)
	case 1:
		return found[0].Path, nil
	}

	return pickDocument(found)
}

// pickDocument prompts for a document selection, newest first.
func pickDocument(found []docs.Document) (string, error) {
	options := make([]huh.Option[string], 0, len(found))
	for _, d := range found {
		label := fmt.Sprintf("%s  (%s)", d.RelPath, d.ModTime.Format("2006-01-02 15:04"))
		options = append(options, huh.NewOption(label, d.Path))
	}

	var selected string
	err := huh.NewSelect[string]().
		Title("Select a document").
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("no document selected")
		}
		return "", fmt.Errorf("select document: %w", err)
	}
	return selected, nil
}
