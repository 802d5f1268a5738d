package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listctl/internal/config"
	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/source"
	"github.com/rshade/listctl/internal/tui"
)

// browseCmd returns a command carrying the browse flags, parsed from args.
func browseCmd(t *testing.T, cfg *config.Config, args ...string) (*cobra.Command, *browseFlags) {
	t.Helper()
	flags := &browseFlags{}
	cmd := &cobra.Command{Use: "browse"}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 20*time.Millisecond, "")
	require.NoError(t, cmd.ParseFlags(args))
	cmd.SetContext(contextWithConfig(context.Background(), cfg))
	return cmd, flags
}

func TestNewBrowseModel(t *testing.T) {
	isolate(t)
	path := writeGroups(t, t.TempDir(), 12)
	cfg := config.New()

	cmd, flags := browseCmd(t, cfg, "--source", path, "--page-size", "5", "--reset-on-filter")

	model, cleanup, err := newBrowseModel(cmd.Context(), cmd, []string{"groups"}, flags)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, tui.ViewStateLoading, model.State())
	ctrl := model.Controller()
	assert.Equal(t, 5, ctrl.PageSize())
	assert.Equal(t, pagination.PageResetFirst, ctrl.Policy())
	assert.NotNil(t, model.Init())
}

func TestNewBrowseModel_Errors(t *testing.T) {
	isolate(t)
	cfg := config.New()

	cmd, flags := browseCmd(t, cfg, "--visible-pages", "2", "--source", "x.json")
	_, _, err := newBrowseModel(cmd.Context(), cmd, []string{"groups"}, flags)
	require.ErrorIs(t, err, pagination.ErrInvalidVisiblePages)

	cmd, flags = browseCmd(t, cfg)
	_, _, err = newBrowseModel(cmd.Context(), cmd, []string{"flows"}, flags)
	require.ErrorIs(t, err, source.ErrNoSource)

	cmd, flags = browseCmd(t, cfg)
	_, _, err = newBrowseModel(cmd.Context(), cmd, []string{"people"}, flags)
	require.Error(t, err)
}

func TestWatchSource(t *testing.T) {
	isolate(t)
	path := writeGroups(t, t.TempDir(), 2)
	ctx := context.Background()

	f, err := newFetcher(ctx, config.New(), "groups", path)
	require.NoError(t, err)

	w, err := watchSource(ctx, f, 20*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))
	select {
	case <-w.Reloads():
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after the source file changed")
	}

	remote, err := newFetcher(ctx, config.New(), "groups", "https://api.example.com/groups")
	require.NoError(t, err)
	w, err = watchSource(ctx, remote, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, w, "remote sources have nothing to watch")
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	isolate(t)

	_, _, err := execute(t, "browse", "groups")
	require.ErrorIs(t, err, ErrNotTerminal)
}
