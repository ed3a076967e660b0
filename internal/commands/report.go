package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/aggregate"
	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/insights"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newReportCommand(flags *globalFlags) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries and insights over recorded transactions",
	}
	reportCmd.AddCommand(
		newReportMonthlyCommand(flags),
		newReportTrendCommand(flags),
		newReportCalendarCommand(flags),
		newReportInsightsCommand(flags),
	)
	return reportCmd
}

// monthFlag resolves --month, defaulting to the current month.
func monthFlag(month string) (string, error) {
	if month == "" {
		return aggregate.MonthKey(today()), nil
	}
	if _, err := aggregate.ParseMonth(month); err != nil {
		return "", err
	}
	return month, nil
}

// monthRange covers the month before key through the end of key.
func monthRange(key string) (store.Filter, error) {
	start, err := aggregate.ParseMonth(key)
	if err != nil {
		return store.Filter{}, err
	}
	return store.Filter{
		From: start.AddDate(0, -1, 0),
		To:   start.AddDate(0, 1, -1),
	}, nil
}

func newReportMonthlyCommand(flags *globalFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, expenses and top categories for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := monthFlag(month)
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := monthRange(key)
			if err != nil {
				return err
			}
			txns, err := e.repo.Transactions(cmd.Context(), f)
			if err != nil {
				return err
			}
			rep, err := aggregate.Monthly(txns, key)
			if err != nil {
				return err
			}

			e.printf("%s\n", cli.RenderTitle("Monthly report "+rep.Month))
			e.printf("%s", cli.RenderTable(cli.Table{
				Headers: []string{"", rep.Month, rep.PrevMonth, "Change"},
				Rows: [][]string{
					{"Income", cli.FormatMoney(rep.Income), cli.FormatMoney(rep.PrevIncome), cli.FormatChange(rep.IncomeChange)},
					{"Expense", cli.FormatMoney(rep.Expense), cli.FormatMoney(rep.PrevExpense), cli.FormatChange(rep.ExpenseChange)},
					{"Balance", cli.FormatMoney(rep.Balance), "", ""},
				},
			}))

			if len(rep.Categories) > 0 {
				rows := make([][]string, 0, len(rep.Categories))
				for _, c := range rep.Categories {
					rows = append(rows, []string{c.Category, cli.FormatMoney(c.Total), cli.FormatPercent(c.Share), strconv.Itoa(c.Count)})
				}
				e.printf("%s", cli.RenderTable(cli.Table{
					Title:   "Spending by category",
					Headers: []string{"Category", "Total", "Share", "Count"},
					Rows:    rows,
				}))
			}

			if len(rep.Daily) > 0 {
				values := make([]float64, len(rep.Daily))
				for i, d := range rep.Daily {
					values[i], _ = d.Expense.Float64()
				}
				e.printf("Daily spend %s\n", cli.RenderSparkline(values))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newReportTrendCommand(flags *globalFlags) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Income and expense per month over a trailing window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if !cmd.Flags().Changed("months") {
				months = e.cfg.Report.WindowMonths
			}
			txns, err := e.repo.Transactions(cmd.Context(), store.Filter{})
			if err != nil {
				return err
			}
			series := aggregate.Trailing(aggregate.ByMonth(txns), months)
			if len(series) == 0 {
				e.printf("No transactions.\n")
				return nil
			}

			rows := make([][]string, 0, len(series))
			spend := make([]float64, 0, len(series))
			for _, m := range series {
				rows = append(rows, []string{m.Month, cli.FormatMoney(m.Income), cli.FormatMoney(m.Expense), cli.FormatMoney(m.Net)})
				v, _ := m.Expense.Float64()
				spend = append(spend, v)
			}
			e.printf("%s", cli.RenderTable(cli.Table{
				Title:   "Trend",
				Headers: []string{"Month", "Income", "Expense", "Net"},
				Rows:    rows,
			}))
			e.printf("Expense %s\n", cli.RenderSparkline(spend))
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", 6, "months to show, 0 for all (default from config)")
	return cmd
}

func newReportCalendarCommand(flags *globalFlags) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Per-day income and expense for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := monthFlag(month)
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := e.repo.Transactions(cmd.Context(), store.Filter{Month: key})
			if err != nil {
				return err
			}
			days, err := aggregate.ByDay(txns, key)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				e.printf("No transactions in %s.\n", key)
				return nil
			}
			rows := make([][]string, 0, len(days))
			for _, d := range days {
				rows = append(rows, []string{
					d.Date.Format("Mon 02 Jan"),
					cli.FormatMoney(d.Income),
					cli.FormatMoney(d.Expense),
					cli.FormatMoney(d.Net()),
					strconv.Itoa(d.Count),
				})
			}
			e.printf("%s", cli.RenderTable(cli.Table{
				Title:   "Calendar " + key,
				Headers: []string{"Day", "Income", "Expense", "Net", "Count"},
				Rows:    rows,
			}))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current)")
	return cmd
}

func newReportInsightsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Spending observations and suggestions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			txns, err := e.repo.Transactions(cmd.Context(), store.Filter{})
			if err != nil {
				return err
			}
			found := insights.Generate(txns)
			if len(found) == 0 {
				e.printf("No insights yet. Record a few transactions first.\n")
				return nil
			}
			for _, in := range found {
				style := cli.OKStyle
				if in.Kind == insights.KindWarning {
					style = cli.WarnStyle
				}
				e.printf("%s [%s] %s\n  %s\n", style.Render(string(in.Kind)), in.Impact, in.Title, in.Message)
				if in.Suggestion != "" {
					e.printf("  -> %s\n", in.Suggestion)
				}
			}
			return nil
		},
	}
}
