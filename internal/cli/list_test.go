package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
)

func listJSON(t *testing.T, args ...string) listResult {
	t.Helper()
	out, _, err := execute(t, append([]string{"list", "--output", "json"}, args...)...)
	require.NoError(t, err)

	var res listResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestList_JSONPages(t *testing.T) {
	dir := isolate(t)
	path := writeGroups(t, dir, 37)

	tests := []struct {
		name        string
		args        []string
		expectPage  int
		expectCount int
		expectFirst string
	}{
		{name: "first page", args: nil, expectPage: 1, expectCount: 15, expectFirst: "Group 01"},
		{name: "second page", args: []string{"--page", "2"}, expectPage: 2, expectCount: 15, expectFirst: "Group 16"},
		{name: "last page remainder", args: []string{"--page", "3"}, expectPage: 3, expectCount: 7, expectFirst: "Group 31"},
		{name: "page past end clamps", args: []string{"--page", "99"}, expectPage: 3, expectCount: 7, expectFirst: "Group 31"},
		{name: "custom page size", args: []string{"--page-size", "10", "--page", "4"}, expectPage: 4, expectCount: 7, expectFirst: "Group 31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := listJSON(t, append([]string{"groups", "--source", path}, tt.args...)...)

			assert.Equal(t, records.KindGroups, res.Kind)
			assert.Equal(t, tt.expectPage, res.Meta.CurrentPage)
			assert.Equal(t, 37, res.Meta.TotalItems)
			require.Len(t, res.Records, tt.expectCount)
			assert.Equal(t, tt.expectFirst, res.Records[0].Name)
			assert.NotEmpty(t, res.Window)
		})
	}
}

func TestList_Filters(t *testing.T) {
	dir := isolate(t)
	path := writeGroups(t, dir, 37)

	res := listJSON(t, "groups", "--source", path, "--status", "ACTIVE")
	assert.Equal(t, []string{records.GroupActive}, res.Filter.Statuses, "status input is matched case-insensitively")
	assert.Equal(t, 13, res.Meta.TotalItems)
	for _, r := range res.Records {
		assert.Equal(t, records.GroupActive, r.Status)
	}

	res = listJSON(t, "groups", "--source", path, "--search", "GROUP 3")
	assert.Equal(t, 8, res.Meta.TotalItems)
	assert.Equal(t, "group 3", res.Filter.Search)

	res = listJSON(t, "groups", "--source", path, "--status", "active", "--status", "draft", "--search", "group 1")
	// Group 10..19 at indices 9..18: active 9,12,15,18 and draft 11,14,17
	assert.Equal(t, 7, res.Meta.TotalItems)

	res = listJSON(t, "groups", "--source", path, "--search", "nothing like this")
	assert.Zero(t, res.Meta.TotalItems)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Window)
}

func TestList_Table(t *testing.T) {
	dir := isolate(t)
	path := writeGroups(t, dir, 37)

	out, _, err := execute(t, "list", "groups", "--source", path, "--page", "2", "--output", "table")
	require.NoError(t, err)

	got := lines(out)
	assert.Contains(t, got[0], "NAME")
	assert.Contains(t, got[0], "STATUS")
	assert.Contains(t, got[1], "Group 16")
	assert.Contains(t, out, "‹ 1 [2] 3 ›")
	assert.Contains(t, out, "Showing 16–30 of 37 groups (page 2 of 3)")
}

func TestList_TableEmptyMessages(t *testing.T) {
	dir := isolate(t)

	empty := writeGroups(t, dir, 0)
	out, _, err := execute(t, "list", "groups", "--source", empty, "--output", "table")
	require.NoError(t, err)
	assert.Equal(t, "No groups yet.\n", out)

	full := writeGroups(t, t.TempDir(), 5)
	out, _, err = execute(t, "list", "groups", "--source", full, "--search", "zzz", "--output", "table")
	require.NoError(t, err)
	assert.Equal(t, "No groups match the current filter.\n", out)
}

func TestList_NDJSON(t *testing.T) {
	dir := isolate(t)
	path := writeGroups(t, dir, 20)

	out, _, err := execute(t, "list", "groups", "--source", path, "--page-size", "4", "--output", "ndjson")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 4)
	var r records.Record
	require.NoError(t, json.Unmarshal([]byte(got[3]), &r))
	assert.Equal(t, "g04", r.ID)
}

func TestList_Errors(t *testing.T) {
	dir := isolate(t)
	path := writeGroups(t, dir, 3)

	tests := []struct {
		name      string
		args      []string
		expectErr error
		expectMsg string
	}{
		{name: "unknown kind", args: []string{"widgets"}, expectErr: records.ErrUnknownKind},
		{name: "unknown status", args: []string{"groups", "--source", path, "--status", "PUBLISHED"}, expectErr: records.ErrUnknownStatus},
		{name: "bad output", args: []string{"groups", "--source", path, "--output", "xml"}, expectErr: ErrInvalidOutput},
		{name: "page zero", args: []string{"groups", "--source", path, "--page", "0"}, expectErr: pagination.ErrInvalidPage},
		{name: "page size too big", args: []string{"groups", "--source", path, "--page-size", "5000"}, expectErr: pagination.ErrInvalidPageSize},
		{name: "no source", args: []string{"flows"}, expectMsg: "sources.flows.location"},
		{name: "missing file", args: []string{"groups", "--source", dir + "/missing.json"}, expectMsg: "loading from"},
		{name: "missing kind", args: nil, expectMsg: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"list", "--output", "json"}, tt.args...)...)
			require.Error(t, err)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			}
			if tt.expectMsg != "" {
				assert.Contains(t, err.Error(), tt.expectMsg)
			}
		})
	}
}

func TestList_UsesConfiguredSource(t *testing.T) {
	home := isolate(t)
	path := writeGroups(t, t.TempDir(), 30)

	_, _, err := execute(t, "config", "set", "sources.groups.location", path)
	require.NoError(t, err)
	_, _, err = execute(t, "config", "set", "pagination.page_size", "7")
	require.NoError(t, err)
	require.FileExists(t, home+"/config.yaml")

	res := listJSON(t, "groups")
	assert.Equal(t, 7, res.Meta.PageSize)
	assert.Equal(t, 5, res.Meta.TotalPages)
	assert.Equal(t, "file:"+path, res.Source)
}

func TestResolveOutput(t *testing.T) {
	var buf bytes.Buffer

	got, err := resolveOutput("", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, got, "non-terminal writers default to JSON")

	got, err = resolveOutput("TABLE", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputTable, got)
}

func TestCanonicalStatuses(t *testing.T) {
	got, err := canonicalStatuses(records.KindFlows, []string{"published", " Draft "})
	require.NoError(t, err)
	assert.Equal(t, []string{records.FlowPublished, records.FlowDraft}, got)

	_, err = canonicalStatuses(records.KindFlows, []string{"active"})
	assert.ErrorIs(t, err, records.ErrUnknownStatus)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}
