package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/aggregate"
	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
)

func newGoalCommand(flags *globalFlags) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage monthly budget goals",
	}
	goalCmd.AddCommand(
		newGoalSetCommand(flags),
		newGoalListCommand(flags),
		newGoalRmCommand(flags),
	)
	return goalCmd
}

func newGoalSetCommand(flags *globalFlags) *cobra.Command {
	var category, limit, month, goalID string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update a budget goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, err := aggregate.ParseMonth(month); err != nil {
					return err
				}
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			g := model.BudgetGoal{ID: goalID, Month: month}
			if g.Category, err = e.cats.Resolve(category, model.TxnExpense); err != nil {
				return err
			}
			if g.MonthlyLimit, err = parseAmount("limit", limit); err != nil {
				return err
			}

			saved, err := e.repo.SaveGoal(cmd.Context(), g)
			if err != nil {
				return fmt.Errorf("saving goal: %w", err)
			}
			scope := saved.Month
			if scope == "" {
				scope = "every month"
			}
			e.printf("Goal %s: %s limit %s (%s)\n", saved.ID, saved.Category, cli.FormatMoney(saved.MonthlyLimit), scope)
			e.commit("goal: set " + saved.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "expense category (required)")
	cmd.Flags().StringVar(&limit, "limit", "", "monthly limit (required)")
	cmd.Flags().StringVar(&month, "month", "", "restrict to one month, YYYY-MM")
	cmd.Flags().StringVar(&goalID, "id", "", "update the goal with this ID")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func newGoalListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budget goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			goals, err := e.repo.Goals(cmd.Context())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				e.printf("No goals.\n")
				return nil
			}
			rows := make([][]string, 0, len(goals))
			for _, g := range goals {
				month := g.Month
				if month == "" {
					month = "*"
				}
				rows = append(rows, []string{g.ID, g.Category, month, cli.FormatMoney(g.MonthlyLimit)})
			}
			e.printf("%s", cli.RenderTable(cli.Table{
				Headers: []string{"ID", "Category", "Month", "Limit"},
				Rows:    rows,
				Left:    []int{1, 2},
			}))
			return nil
		},
	}
}

func newGoalRmCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a budget goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeleteGoal(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting goal %s: %w", args[0], err)
			}
			e.printf("Deleted goal %s\n", args[0])
			e.commit("goal: rm " + id.Short(args[0]))
			return nil
		},
	}
}
