package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/categories"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/store"
	"github.com/fintrack-dev/fintrack/internal/store/csvstore"
	"github.com/fintrack-dev/fintrack/internal/store/pgstore"
	"github.com/fintrack-dev/fintrack/internal/store/sqlitestore"
)

const dateLayout = "2006-01-02"

// env is the per-invocation state shared by data commands.
type env struct {
	root string
	cfg  *config.Config
	log  zerolog.Logger
	out  io.Writer
	cats *categories.Service
	repo store.Repository
}

// loadEnv resolves the data root, reads its config and opens the store.
// Callers must Close the returned env.
func loadEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	root, err := filepath.Abs(flags.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, cfgPath, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		log.Debug().Str("root", root).Msg("no config file, using defaults")
	}

	cats, err := categories.Load(root)
	if err != nil {
		return nil, err
	}

	e := &env{root: root, cfg: cfg, log: log, out: cmd.OutOrStdout(), cats: cats}
	if e.repo, err = e.openStore(cmd.Context()); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) openStore(ctx context.Context) (store.Repository, error) {
	backend := e.cfg.Storage.Backend
	e.log.Debug().Str("backend", backend).Msg("opening store")

	switch backend {
	case config.BackendSQLite:
		path := e.cfg.Storage.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(e.root, path)
		}
		return sqlitestore.Open(path)
	case config.BackendPostgres:
		envFile := e.cfg.Storage.EnvFile
		if envFile != "" && !filepath.IsAbs(envFile) {
			envFile = filepath.Join(e.root, envFile)
		}
		dsn, err := pgstore.DSNFromEnv(e.cfg.Storage.DSNEnv, envFile)
		if err != nil {
			return nil, err
		}
		return pgstore.Open(ctx, dsn)
	default:
		return csvstore.Open(e.root, e.cats)
	}
}

// Close releases the store.
func (e *env) Close() {
	if err := e.repo.Close(); err != nil {
		e.log.Warn().Err(err).Msg("closing store")
	}
}

// commit records a mutation in git when auto_commit is on and the data
// root is a repository. Failures are logged, never returned.
func (e *env) commit(message string) {
	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.root) {
		return
	}
	author := gitops.Author{Name: e.cfg.Git.AuthorName, Email: e.cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(e.root, message, author)
	switch {
	case errors.Is(err, gitops.ErrNothingToCommit):
		e.log.Debug().Msg("git: nothing to commit")
	case err != nil:
		e.log.Warn().Err(err).Msg("git commit failed")
	default:
		e.log.Debug().Str("commit", hash).Str("message", message).Msg("committed")
	}
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

// parseAmount parses a decimal flag value, allowing "1,25,000" style input.
func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, s)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", field, s)
	}
	return t, nil
}

// today is the current date in UTC, or FINTRACK_TODAY when set.
func today() time.Time {
	if s := os.Getenv("FINTRACK_TODAY"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t
		}
	}
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
