package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LISTCTL_HOME", home)
	t.Setenv("LISTCTL_PROJECT_DIR", "")
	t.Setenv("LISTCTL_LOG_LEVEL", "error")
	t.Setenv("LISTCTL_PAGE_SIZE", "")
	t.Chdir(home)
	return home
}

func TestRun_Version(t *testing.T) {
	isolate(t)
	var out, errOut bytes.Buffer

	code := run([]string{"--version"}, &out, &errOut)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), version)
}

func TestRun_ListJSON(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "groups.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"1","name":"Sales","status":"active","members":3},
		{"id":"2","name":"Support","status":"archived","members":8}
	]`), 0o600))

	var out, errOut bytes.Buffer
	code := run([]string{"list", "groups", "--source", path, "--output", "json"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var doc struct {
		Records []struct {
			Name string `json:"name"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Records, 2)
	assert.Equal(t, "Sales", doc.Records[0].Name)
}

func TestRun_ErrorExitCode(t *testing.T) {
	isolate(t)
	var out, errOut bytes.Buffer

	code := run([]string{"list", "widgets"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Error:")
}
