package commands

import (
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/portfolio"
	"github.com/fintrack-dev/fintrack/internal/store"
	"github.com/fintrack-dev/fintrack/internal/tax"
)

func newTaxCommand(flags *globalFlags) *cobra.Command {
	var income, interest, ltcg string
	var noCrypto bool

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate annual tax liability",
		Long: "Estimate annual tax liability. Without --income the annual income is\n" +
			"projected from recorded salary-like income.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			var in tax.Input
			if income != "" {
				if in.AnnualIncome, err = parseAmount("income", income); err != nil {
					return err
				}
			} else {
				txns, err := e.repo.Transactions(ctx, store.Filter{Type: model.TxnIncome})
				if err != nil {
					return err
				}
				in.AnnualIncome = tax.ProjectAnnualIncome(txns)
				e.log.Debug().Str("projected", in.AnnualIncome.String()).Msg("annual income from transactions")
			}
			if in.InterestIncome, err = parseAmount("interest", interest); err != nil {
				return err
			}
			if in.LongTermGains, err = parseAmount("ltcg", ltcg); err != nil {
				return err
			}
			if !noCrypto {
				holdings, err := e.repo.Holdings(ctx)
				if err != nil {
					return err
				}
				src := portfolio.FileSource{Path: filepath.Join(e.root, e.cfg.Prices.File)}
				if in.Holdings, err = portfolio.Refresh(ctx, src, holdings); err != nil {
					return err
				}
			}

			sched, err := e.cfg.TaxSchedule()
			if err != nil {
				return err
			}
			rules := e.cfg.TaxRules()
			liab, err := tax.NewCalculator(sched, rules).Compute(in)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Annual income", cli.FormatMoney(in.AnnualIncome)},
				{"---"},
				{"Income tax", cli.FormatMoney(liab.IncomeTax)},
				{"Tax on interest", cli.FormatMoney(liab.InterestTax)},
				{"Crypto tax", cli.FormatMoney(liab.CryptoTax)},
				{"LTCG tax", cli.FormatMoney(liab.CapitalGainsTax)},
				{"---"},
				{"Total", cli.FormatMoney(liab.Total)},
				{"Effective rate", cli.FormatRate(liab.EffectiveRate)},
				{"Marginal rate", cli.FormatPercent(liab.MarginalRate)},
			}
			e.printf("%s", cli.RenderTable(cli.Table{Title: "Tax estimate", Rows: rows}))

			if save := tax.Section80CSavings(in.AnnualIncome, rules.Section80CLimit); save.GreaterThan(decimal.Zero) {
				e.printf("Investing under section 80C could save about %s.\n", cli.FormatMoney(save))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&income, "income", "", "annual income (default: projected)")
	cmd.Flags().StringVar(&interest, "interest", "0", "interest income taxed at the marginal rate")
	cmd.Flags().StringVar(&ltcg, "ltcg", "0", "long-term capital gains")
	cmd.Flags().BoolVar(&noCrypto, "no-crypto", false, "ignore crypto holdings")
	return cmd
}

