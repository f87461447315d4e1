package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidManifest(t *testing.T) {
	path := writeFixtureManifest(t)

	out, err := executeCommand(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+path)
	assert.Contains(t, out, "1 valid, 0 invalid")
}

func TestValidateCommand_InvalidManifest(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(dialManifestYAML), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("name: bad\n"), 0644))

	out, err := executeCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "ok    "+good)
	assert.Contains(t, out, "FAIL  "+bad)
	assert.Contains(t, out, "1 valid, 1 invalid")
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeFixtureManifest(t)

	out, err := executeCommand(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var result ValidateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Valid)
	assert.Equal(t, 0, result.Invalid)
	require.Len(t, result.Files, 1)
	assert.True(t, result.Files[0].Valid)
}

func TestValidateCommand_MissingPath(t *testing.T) {
	_, err := executeCommand(t, "validate", "/nonexistent")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_EmptyDirectory(t *testing.T) {
	_, err := executeCommand(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no manifest files found")
}
