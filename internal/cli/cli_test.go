package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate points the global config at a temp dir, clears overrides and
// moves into an empty working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LISTCTL_HOME", home)
	t.Setenv("LISTCTL_PROJECT_DIR", "")
	t.Setenv("LISTCTL_LOG_LEVEL", "error")
	t.Setenv("LISTCTL_LOG_FORMAT", "")
	t.Setenv("LISTCTL_PAGE_SIZE", "")

	wd := t.TempDir()
	t.Chdir(wd)
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd("test")
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

type groupFixture struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Members int    `json:"members"`
}

// writeGroups writes n groups named "Group 01".. with rotating statuses.
func writeGroups(t *testing.T, dir string, n int) string {
	t.Helper()
	statuses := []string{"active", "archived", "draft"}
	groups := make([]groupFixture, n)
	for i := range groups {
		groups[i] = groupFixture{
			ID:      fmt.Sprintf("g%02d", i+1),
			Name:    fmt.Sprintf("Group %02d", i+1),
			Status:  statuses[i%len(statuses)],
			Members: i,
		}
	}
	data, err := json.Marshal(groups)
	require.NoError(t, err)

	path := filepath.Join(dir, "groups.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
