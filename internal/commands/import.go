package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/importer"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statements from the import/ directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if format == "" {
				format = e.cfg.Import.Format
			}
			reg := importer.DefaultRegistry()
			parser := reg.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (have %v)", format, reg.Formats())
			}
			return runImport(cmd, e, parser, dryRun)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "bank format (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without saving")
	return cmd
}

func runImport(cmd *cobra.Command, e *env, parser importer.Parser, dryRun bool) error {
	ctx := cmd.Context()
	files, err := importer.Scan(e.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		e.printf("Nothing to import.\n")
		return nil
	}
	rules, err := importer.LoadRules(e.root)
	if err != nil {
		return err
	}
	existing, err := e.repo.Transactions(ctx, store.Filter{})
	if err != nil {
		return err
	}

	total := 0
	for _, fi := range files {
		f, err := os.Open(fi.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", fi.Name, err)
		}
		bank, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", fi.Name, err)
		}

		conv := importer.Convert(bank, rules)
		fresh, dupes := importer.Dedupe(conv.Transactions, existing)
		log := e.log.With().Str("file", fi.Name).Logger()
		log.Info().
			Int("rows", len(bank)).
			Int("new", len(fresh)).
			Int("duplicates", dupes).
			Int("uncategorized", conv.Uncategorized).
			Msg("parsed statement")

		if dryRun {
			e.printf("%s: %d new, %d duplicate\n", fi.Name, len(fresh), dupes)
			continue
		}

		for _, t := range fresh {
			t.Category = e.knownCategory(t)
			saved, err := e.repo.AddTransaction(ctx, t)
			if err != nil {
				return fmt.Errorf("importing %s from %s: %w", t.Reference, fi.Name, err)
			}
			existing = append(existing, saved)
		}
		if err := importer.MarkProcessed(e.root, fi.Name); err != nil {
			return err
		}
		total += len(fresh)
		e.printf("%s: imported %d, skipped %d duplicate\n", fi.Name, len(fresh), dupes)
		e.commit(fmt.Sprintf("import: %s (%d transactions)", fi.Name, len(fresh)))
	}
	if !dryRun {
		e.printf("Imported %d transactions.\n", total)
	}
	return nil
}

// knownCategory maps a rule's category onto the chart, falling back to
// the first chart category of the transaction's type.
func (e *env) knownCategory(t model.Transaction) string {
	if name, err := e.cats.Resolve(t.Category, t.Type); err == nil {
		return name
	}
	fallback := "Other"
	if byType := e.cats.ByType(t.Type); len(byType) > 0 {
		fallback = byType[len(byType)-1].Name
	}
	e.log.Warn().Str("category", t.Category).Str("fallback", fallback).Msg("rule category not in chart")
	return fallback
}
