package pgstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/store"
	"github.com/fintrack-dev/fintrack/internal/store/storetest"
)

const testDSNEnv = "FINTRACK_TEST_DATABASE_URL"

func TestRepositoryContract(t *testing.T) {
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	storetest.Run(t, func(t *testing.T) store.Repository {
		ctx := context.Background()
		s, err := Open(ctx, dsn)
		require.NoError(t, err)
		require.NoError(t, s.Reset(ctx))
		return s
	})
}

func TestDSNFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINTRACK_PG_TEST_DSN=postgres://u:p@localhost:5432/fin\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("FINTRACK_PG_TEST_DSN") })

	dsn, err := DSNFromEnv("FINTRACK_PG_TEST_DSN", envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/fin", dsn)
}

func TestDSNFromEnvUnset(t *testing.T) {
	_, err := DSNFromEnv("FINTRACK_PG_TEST_UNSET")
	assert.ErrorContains(t, err, "FINTRACK_PG_TEST_UNSET is not set")
}

func TestDSNFromEnvProcessWins(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FINTRACK_PG_TEST_PRIO=from-file\n"), 0o600))
	t.Setenv("FINTRACK_PG_TEST_PRIO", "from-process")

	dsn, err := DSNFromEnv("FINTRACK_PG_TEST_PRIO", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-process", dsn, "godotenv.Load does not override")
}
