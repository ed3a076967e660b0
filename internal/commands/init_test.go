package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/categories"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/importer"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "fintrack-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "fintrack")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/fintrack")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// runFintrack runs the binary with FINTRACK_TODAY pinned so date
// defaults are stable.
func runFintrack(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "FINTRACK_TODAY=2025-04-10")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir, "--name", "Asha", "--no-git")
	require.NoError(t, err)

	expectedDirs := []string{
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	for _, f := range []string{config.FileName, categories.File, importer.RulesFile, "prices.yaml", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "%s should exist", f)
	}
	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "--no-git skips the repository")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir, "--name", "Asha", "--backend", "sqlite", "--no-git")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Asha", cfg.Profile.Name)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.False(t, cfg.Git.AutoCommit)
}

func TestInit_TOML(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir, "--name", "Asha", "--toml", "--no-git")
	require.NoError(t, err)

	cfg, path, err := config.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.TOMLFileName), path)
	assert.Equal(t, "Asha", cfg.Profile.Name)
}

func TestInit_Categories(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir, "--name", "Asha", "--no-git")
	require.NoError(t, err)

	svc, err := categories.Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 11, "default chart has 11 categories")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir, "--name", "Asha")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Initialize Asha|fintrack <fintrack@localhost>")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintrack(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	out, err := runFintrack(t, "init", dir, "--name", "Asha", "--backend", "mongo", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "unknown backend")
}
