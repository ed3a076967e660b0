package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/aggregate"
	"github.com/fintrack-dev/fintrack/internal/alertlog"
	"github.com/fintrack-dev/fintrack/internal/budget"
	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/reminder"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func statusText(s budget.Status) string {
	switch s {
	case budget.StatusOverBudget:
		return cli.BadStyle.Render(string(s))
	case budget.StatusNearLimit:
		return cli.WarnStyle.Render(string(s))
	default:
		return cli.OKStyle.Render(string(s))
	}
}

func newBudgetCommand(flags *globalFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Evaluate budget goals and raise alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = aggregate.MonthKey(today())
			}
			if _, err := aggregate.ParseMonth(month); err != nil {
				return err
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			return runBudget(cmd, e, month)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func runBudget(cmd *cobra.Command, e *env, month string) error {
	ctx := cmd.Context()
	txns, err := e.repo.Transactions(ctx, store.Filter{Month: month})
	if err != nil {
		return err
	}
	goals, err := e.repo.Goals(ctx)
	if err != nil {
		return err
	}
	goals = budget.GoalsForMonth(goals, month)
	if len(goals) == 0 {
		e.printf("No goals for %s.\n", month)
		return nil
	}

	ev := budget.Evaluate(txns, goals, e.cfg.Thresholds())

	rows := make([][]string, 0, len(ev.Goals))
	for _, g := range ev.Goals {
		pct, _ := g.Percentage.Float64()
		rows = append(rows, []string{
			g.Goal.Category,
			cli.FormatMoney(g.Spent),
			cli.FormatMoney(g.Goal.MonthlyLimit),
			cli.FormatMoney(g.Remaining),
			cli.FormatPercent(g.Percentage),
			cli.RenderBar(pct, 10),
			statusText(g.Status),
		})
	}
	e.printf("%s", cli.RenderTable(cli.Table{
		Title:   "Budget " + month,
		Headers: []string{"Category", "Spent", "Limit", "Remaining", "Used", "", "Status"},
		Rows:    rows,
		Left:    []int{5, 6},
	}))

	tracker, err := alertlog.LoadTracker(e.root, month)
	if err != nil {
		return err
	}
	fresh := tracker.Filter(ev.Alerts)
	entries := make([]alertlog.Entry, 0, len(fresh))
	now := time.Now().UTC()
	for _, a := range fresh {
		e.log.Warn().
			Str("category", a.Category).
			Str("status", string(a.Status)).
			Str("percentage", a.Percentage.StringFixed(1)).
			Msg("budget alert")
		e.printf("ALERT %s: %s of %s spent (%s)\n",
			a.Category, cli.FormatMoney(a.Spent), cli.FormatMoney(a.Limit), a.Status)
		entries = append(entries, alertlog.FromAlert(now, month, a))
	}
	if err := alertlog.Append(e.root, entries); err != nil {
		return fmt.Errorf("writing alert log: %w", err)
	}
	if err := alertlog.SaveTracker(e.root, month, tracker); err != nil {
		return fmt.Errorf("saving alert state: %w", err)
	}

	reminders, err := e.repo.Reminders(ctx)
	if err != nil {
		return err
	}
	now = today()
	for _, r := range reminder.Upcoming(reminders, now, reminder.DefaultWindowDays) {
		e.printf("DUE %s in %d days: %s\n", r.DueDate.Format(dateLayout), reminder.DaysUntil(r, now), r.Title)
	}

	if len(fresh) > 0 {
		e.commit(fmt.Sprintf("budget: %d new alerts for %s", len(fresh), month))
	}
	return nil
}
