package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseweave/caseweave/internal/recorder"
)

func TestSnapshotCommand_RecordsRun(t *testing.T) {
	path := writeFixtureManifest(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, err := executeCommand(t, "snapshot", path, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded run ")
	assert.Contains(t, out, "4 cases (2 expected)")

	rec, err := recorder.Open(db)
	require.NoError(t, err)
	defer rec.Close()

	runs, err := rec.ListRuns(context.Background(), "retry_dial")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 4, runs[0].CaseCount)
	assert.Equal(t, 2, runs[0].ExpectedCount)
}

func TestSnapshotCommand_JSON(t *testing.T) {
	path := writeFixtureManifest(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	out, err := executeCommand(t, "--format", "json", "snapshot", path, "--db", db)
	require.NoError(t, err)

	var run recorder.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, "retry_dial", run.MatrixName)
	assert.Equal(t, 4, run.CaseCount)
	assert.NotEmpty(t, run.ID)
	assert.NotEmpty(t, run.SnapshotDigest)
}

func TestSnapshotCommand_MissingManifest(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, err := executeCommand(t, "snapshot", "/nonexistent/matrix.yaml", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReportCommand_ListsRuns(t *testing.T) {
	path := writeFixtureManifest(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, err := executeCommand(t, "snapshot", path, "--db", db)
	require.NoError(t, err)
	_, err = executeCommand(t, "snapshot", path, "--db", db)
	require.NoError(t, err)

	out, err := executeCommand(t, "report", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "retry_dial")
	assert.Contains(t, out, "2 runs")
}

func TestReportCommand_FiltersByMatrix(t *testing.T) {
	path := writeFixtureManifest(t)
	db := filepath.Join(t.TempDir(), "snapshots.db")

	_, err := executeCommand(t, "snapshot", path, "--db", db)
	require.NoError(t, err)

	out, err := executeCommand(t, "--format", "json", "report", "--db", db, "--matrix", "other")
	require.NoError(t, err)

	var result ReportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Runs)
}

func TestReportCommand_MissingDatabase(t *testing.T) {
	_, err := executeCommand(t, "report", "--db", "/nonexistent/snapshots.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}
