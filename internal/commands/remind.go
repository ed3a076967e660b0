package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/reminder"
)

func newRemindCommand(flags *globalFlags) *cobra.Command {
	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Bill and investment reminders",
	}
	remindCmd.AddCommand(
		newRemindAddCommand(flags),
		newRemindListCommand(flags),
		newRemindRmCommand(flags),
	)
	return remindCmd
}

func newRemindAddCommand(flags *globalFlags) *cobra.Command {
	var title, due, amount, kind string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := model.Reminder{Title: title, Kind: model.ReminderKind(kind)}
			var err error
			if r.DueDate, err = parseDate("due", due); err != nil {
				return err
			}
			if amount != "" {
				if r.Amount, err = parseAmount("amount", amount); err != nil {
					return err
				}
			}

			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			saved, err := e.repo.SaveReminder(cmd.Context(), r)
			if err != nil {
				return fmt.Errorf("saving reminder: %w", err)
			}
			e.printf("Reminder %s: %s due %s\n", saved.ID, saved.Title, saved.DueDate.Format(dateLayout))
			e.commit("remind: add " + saved.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "what to pay or invest (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, if known")
	cmd.Flags().StringVar(&kind, "kind", string(model.ReminderBill), "bill, investment or other")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newRemindListCommand(flags *globalFlags) *cobra.Command {
	var days int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			rs, err := e.repo.Reminders(cmd.Context())
			if err != nil {
				return err
			}
			now := today()
			if !all {
				rs = reminder.Upcoming(rs, now, days)
			}
			if len(rs) == 0 {
				e.printf("No reminders due.\n")
				return nil
			}
			rows := make([][]string, 0, len(rs))
			for _, r := range rs {
				amt := ""
				if !r.Amount.IsZero() {
					amt = cli.FormatMoney(r.Amount)
				}
				rows = append(rows, []string{
					r.DueDate.Format(dateLayout),
					strconv.Itoa(reminder.DaysUntil(r, now)),
					r.Title,
					string(r.Kind),
					amt,
					r.ID,
				})
			}
			e.printf("%s", cli.RenderTable(cli.Table{
				Headers: []string{"Due", "Days", "Title", "Kind", "Amount", "ID"},
				Rows:    rows,
				Left:    []int{2, 3, 5},
			}))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", reminder.DefaultWindowDays, "look-ahead window in days")
	cmd.Flags().BoolVar(&all, "all", false, "list every reminder, including overdue")
	return cmd
}

func newRemindRmCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeleteReminder(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting reminder %s: %w", args[0], err)
			}
			e.printf("Deleted reminder %s\n", args[0])
			e.commit("remind: rm " + id.Short(args[0]))
			return nil
		},
	}
}
