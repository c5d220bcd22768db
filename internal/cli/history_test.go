package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tealium/internal/testutil"
)

type historyResponse struct {
	Status string        `json:"status"`
	Data   HistoryResult `json:"data"`
}

func runHistoryCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedHistory records front_page twice and the two CUE tag sets once.
func seedHistory(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tealium.db")
	ids := testutil.NewSequenceIDs("snap")

	_, err := runDataLayerCommandWithIDs(t, ids, "text", "testdata/tagsets/front_page.yaml", "--db", dbPath)
	require.NoError(t, err)
	_, err = runDataLayerCommandWithIDs(t, ids, "text", "../tagset/testdata/cue", "--db", dbPath)
	require.NoError(t, err)
	_, err = runDataLayerCommandWithIDs(t, ids, "text", "testdata/tagsets/front_page.yaml", "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

func TestHistoryCommandRequiresDB(t *testing.T) {
	_, err := runHistoryCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestHistoryCommandMissingDatabase(t *testing.T) {
	out, err := runHistoryCommand(t, "text", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
}

func TestHistoryCommandListsNewestFirst(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := runHistoryCommand(t, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp historyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Equal(t, 4, resp.Data.Count)

	seqs := make([]int64, len(resp.Data.Snapshots))
	for i, s := range resp.Data.Snapshots {
		seqs[i] = s.Seq
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, seqs)
	assert.Equal(t, "front_page", resp.Data.Snapshots[0].Name)
}

func TestHistoryCommandNameAndLimit(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := runHistoryCommand(t, "json", "--db", dbPath, "--name", "front_page", "--limit", "1")
	require.NoError(t, err)

	var resp historyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, int64(4), resp.Data.Snapshots[0].Seq)
	assert.Equal(t, frontPageHash, resp.Data.Snapshots[0].ContentHash)
}

func TestHistoryCommandHash(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := runHistoryCommand(t, "json", "--db", dbPath, "--hash", frontPageHash)
	require.NoError(t, err)

	var resp historyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, int64(1), resp.Data.Snapshots[0].Seq)
	assert.Equal(t, int64(4), resp.Data.Snapshots[1].Seq)
}

func TestHistoryCommandText(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := runHistoryCommand(t, "text", "--db", dbPath, "--name", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "search")
	assert.Contains(t, out, "2 accepted, 1 rejected")
	assert.NotContains(t, out, "front_page")
}

func TestHistoryCommandNoMatches(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := runHistoryCommand(t, "text", "--db", dbPath, "--name", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots found")
}

func TestHistoryCommandInvalidArgs(t *testing.T) {
	dbPath := seedHistory(t)

	_, err := runHistoryCommand(t, "text", "--db", dbPath, "--name", "search", "--hash", frontPageHash)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runHistoryCommand(t, "text", "--db", dbPath, "--limit", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
