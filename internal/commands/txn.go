package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/aggregate"
	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newTxnCommand(flags *globalFlags) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and list income and expenses",
	}
	txnCmd.AddCommand(
		newTxnAddCommand(flags),
		newTxnListCommand(flags),
		newTxnRmCommand(flags),
	)
	return txnCmd
}

func newTxnAddCommand(flags *globalFlags) *cobra.Command {
	var typ, amount, category, date, desc, ref string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			t := model.Transaction{Description: desc, Reference: ref}
			if t.Type, err = model.ParseTxnType(typ); err != nil {
				return err
			}
			if t.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if t.Category, err = e.cats.Resolve(category, t.Type); err != nil {
				return err
			}
			t.Date = today()
			if date != "" {
				if t.Date, err = parseDate("date", date); err != nil {
					return err
				}
			}

			saved, err := e.repo.AddTransaction(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("adding transaction: %w", err)
			}
			e.log.Info().Str("id", saved.ID).Str("category", saved.Category).Msg("transaction added")
			e.printf("Added %s: %s %s %s\n", saved.ID, saved.Type, cli.FormatMoney(saved.Amount), saved.Category)
			e.commit("txn: add " + saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, always positive (required)")
	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&ref, "ref", "", "external reference")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

type filterFlags struct {
	month, from, to, typ, category string
}

func (ff *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVar(&ff.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&ff.to, "to", "", "last date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&ff.typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&ff.category, "category", "", "category name")
}

func (ff filterFlags) filter() (store.Filter, error) {
	f := store.Filter{Month: ff.month, Category: ff.category}
	var err error
	if ff.month != "" {
		if _, err = aggregate.ParseMonth(ff.month); err != nil {
			return f, err
		}
	}
	if ff.from != "" {
		if f.From, err = parseDate("from", ff.from); err != nil {
			return f, err
		}
	}
	if ff.to != "" {
		if f.To, err = parseDate("to", ff.to); err != nil {
			return f, err
		}
	}
	if ff.typ != "" {
		if f.Type, err = model.ParseTxnType(ff.typ); err != nil {
			return f, err
		}
	}
	return f, nil
}

func newTxnListCommand(flags *globalFlags) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := e.repo.Transactions(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				e.printf("No transactions.\n")
				return nil
			}

			rows := make([][]string, 0, len(txns)+2)
			for _, t := range txns {
				rows = append(rows, []string{
					t.ID,
					t.Date.Format(dateLayout),
					string(t.Type),
					t.Category,
					cli.FormatMoney(t.Signed()),
					t.Description,
				})
			}
			sum := aggregate.Summarize(txns)
			rows = append(rows, []string{"---"}, []string{"Net", "", "", "", cli.FormatMoney(sum.Balance), ""})

			e.printf("%s", cli.RenderTable(cli.Table{
				Headers: []string{"ID", "Date", "Type", "Category", "Amount", "Description"},
				Rows:    rows,
				Left:    []int{1, 2, 3, 5},
			}))
			return nil
		},
	}
	ff.bind(cmd)
	return cmd
}

func newTxnRmCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting %s: %w", args[0], err)
			}
			e.printf("Deleted %s\n", args[0])
			e.commit("txn: rm " + args[0])
			return nil
		},
	}
}
