package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/projection"
)

type sipFlags struct {
	amount string
	rate   string
	years  int
}

func (sf *sipFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.amount, "amount", "", "monthly investment (required)")
	cmd.Flags().StringVar(&sf.rate, "rate", "12", "expected annual return, percent")
	cmd.Flags().IntVar(&sf.years, "years", 10, "tenure in years")
	_ = cmd.MarkFlagRequired("amount")
}

func (sf sipFlags) plan() (model.SIPPlan, error) {
	p := model.SIPPlan{TenureYears: sf.years}
	var err error
	if p.MonthlyAmount, err = parseAmount("amount", sf.amount); err != nil {
		return p, err
	}
	if p.ExpectedAnnualReturnPercent, err = parseAmount("rate", sf.rate); err != nil {
		return p, err
	}
	return p, nil
}

func renderProjection(title string, p projection.Projection) string {
	rows := make([][]string, 0, len(p.Yearly))
	for _, pt := range p.Yearly {
		rows = append(rows, []string{
			strconv.Itoa(pt.Period),
			cli.FormatWhole(pt.Contributions),
			cli.FormatWhole(pt.Gain),
			cli.FormatWhole(pt.Value),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Year", "Invested", "Gain", "Value"},
		Rows:    rows,
	}) + fmt.Sprintf("Future value %s (invested %s, gain %s)\n",
		cli.FormatWhole(p.FutureValue), cli.FormatWhole(p.TotalContributions), cli.FormatWhole(p.TotalGain))
}

func newSIPCommand(flags *globalFlags) *cobra.Command {
	sipCmd := &cobra.Command{
		Use:   "sip",
		Short: "Project systematic investment plans",
	}
	sipCmd.AddCommand(
		newSIPCalcCommand(),
		newSIPSaveCommand(flags),
		newSIPListCommand(flags),
		newSIPRmCommand(flags),
	)
	return sipCmd
}

func newSIPCalcCommand() *cobra.Command {
	var sf sipFlags

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Project a SIP without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := sf.plan()
			if err != nil {
				return err
			}
			proj, err := projection.SIP(plan)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderProjection(
				fmt.Sprintf("SIP %s/month at %s%%", cli.FormatMoney(plan.MonthlyAmount), plan.ExpectedAnnualReturnPercent), proj))
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func newSIPSaveCommand(flags *globalFlags) *cobra.Command {
	var sf sipFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a SIP plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := sf.plan()
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			saved, err := e.repo.SavePlan(cmd.Context(), plan)
			if err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			e.printf("Saved plan %s\n", saved.ID)
			e.commit("sip: save " + id.Short(saved.ID))
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func newSIPListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved SIP plans with their projected value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			plans, err := e.repo.Plans(cmd.Context())
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				e.printf("No plans.\n")
				return nil
			}
			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				proj, err := projection.SIP(p)
				if err != nil {
					return fmt.Errorf("plan %s: %w", p.ID, err)
				}
				rows = append(rows, []string{
					p.ID,
					cli.FormatMoney(p.MonthlyAmount),
					cli.FormatPercent(p.ExpectedAnnualReturnPercent),
					strconv.Itoa(p.TenureYears),
					cli.FormatWhole(proj.TotalContributions),
					cli.FormatWhole(proj.FutureValue),
				})
			}
			e.printf("%s", cli.RenderTable(cli.Table{
				Headers: []string{"ID", "Monthly", "Return", "Years", "Invested", "Value"},
				Rows:    rows,
			}))
			return nil
		},
	}
}

func newSIPRmCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a SIP plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeletePlan(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting plan %s: %w", args[0], err)
			}
			e.printf("Deleted plan %s\n", args[0])
			e.commit("sip: rm " + id.Short(args[0]))
			return nil
		},
	}
}

func newSavingsCommand() *cobra.Command {
	var balance, rate, monthly string
	var years int

	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Project a savings balance with yearly compounding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var acct model.SavingsAccount
			var err error
			if acct.CurrentBalance, err = parseAmount("balance", balance); err != nil {
				return err
			}
			if acct.AnnualInterestRatePercent, err = parseAmount("rate", rate); err != nil {
				return err
			}
			if acct.MonthlyContribution, err = parseAmount("monthly", monthly); err != nil {
				return err
			}
			proj, err := projection.Savings(acct, years)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderProjection(
				fmt.Sprintf("Savings at %s%% with %s/month", acct.AnnualInterestRatePercent, cli.FormatMoney(acct.MonthlyContribution)), proj))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "current balance")
	cmd.Flags().StringVar(&rate, "rate", "7", "annual interest rate, percent")
	cmd.Flags().StringVar(&monthly, "monthly", "0", "monthly contribution")
	cmd.Flags().IntVar(&years, "years", 10, "years to project")
	return cmd
}
