package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/listctl/internal/loader"
	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/source"
	"github.com/rshade/listctl/internal/tui"
)

// ErrNotTerminal is returned when browse runs without a terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal, use list instead")

type browseFlags struct {
	datasetFlags

	watch    bool
	debounce time.Duration
}

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse <groups|flows>",
		Short: "Page through records interactively",
		Long: `Opens an interactive list of broadcast groups or flows.

Type / to search by name, s to cycle the status filter, n and p to change
page and d to delete the selected record. With --watch, local source files
are reloaded when they change on disk. Logs go to a file while the list is open.`,
		Example: `  # Browse groups from the configured source
  listctl browse groups

  # Browse a local flows file and reload it on every save
  listctl browse flows --source ./flows.yaml --watch`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			return runBrowse(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "reload when local source files change")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", loader.DefaultDebounce, "quiet period before a watched change reloads")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string, flags *browseFlags) error {
	ctx := cmd.Context()

	model, cleanup, err := newBrowseModel(ctx, cmd, args, flags)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	if err = model.Err(); err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}
	return nil
}

// newBrowseModel wires the source, loader, controller and optional file
// watcher into a browser model. cleanup releases the watcher.
func newBrowseModel(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	flags *browseFlags,
) (*tui.BrowseModel, func(), error) {
	log := logging.FromContext(ctx)

	kind, err := kindArg(args)
	if err != nil {
		return nil, nil, err
	}

	cfg := configFromContext(ctx)
	p := flags.params(cmd, cfg)
	if err = p.Validate(); err != nil {
		return nil, nil, err
	}

	f, err := newFetcher(ctx, cfg, kind, flags.source)
	if err != nil {
		return nil, nil, err
	}

	ld := loader.New(f, loader.WithLogger(*log))
	ctrl := newController(ctx, p)

	opts := []tui.BrowseOption{}
	if d, ok := f.(source.Deleter); ok {
		opts = append(opts, tui.WithDeleter(d))
	}

	cleanup := func() {}
	if flags.watch {
		w, werr := watchSource(ctx, f, flags.debounce)
		if werr != nil {
			return nil, nil, werr
		}
		if w != nil {
			opts = append(opts, tui.WithReloads(w.Reloads()))
			cleanup = func() { _ = w.Close() }
		}
	}

	log.Info().Ctx(ctx).
		Str("component", "cli").
		Str("kind", string(kind)).
		Str("source", f.Describe()).
		Int("page_size", p.PageSize).
		Str("reset_policy", p.Policy().String()).
		Bool("watch", flags.watch).
		Msg("browse started")

	return tui.NewBrowseModel(ctx, kind, ctrl, ld, opts...), cleanup, nil
}

// watchSource watches the local files behind f. It returns nil when f has
// no local files.
func watchSource(ctx context.Context, f source.Fetcher, debounce time.Duration) (*loader.Watcher, error) {
	log := logging.FromContext(ctx)
	paths := source.FilePaths(f)
	if len(paths) == 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("source", f.Describe()).
			Msg("--watch ignored: source has no local files")
		return nil, nil
	}
	w, err := loader.NewWatcher(paths, debounce, logging.ComponentLogger(*log, "watcher"))
	if err != nil {
		return nil, fmt.Errorf("watching %v: %w", paths, err)
	}
	return w, nil
}
