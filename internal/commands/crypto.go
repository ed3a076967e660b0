package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/cli"
	"github.com/fintrack-dev/fintrack/internal/id"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/portfolio"
)

func newCryptoCommand(flags *globalFlags) *cobra.Command {
	cryptoCmd := &cobra.Command{
		Use:   "crypto",
		Short: "Track crypto holdings",
	}
	cryptoCmd.AddCommand(
		newCryptoAddCommand(flags),
		newCryptoListCommand(flags),
		newCryptoRmCommand(flags),
		newCryptoPriceCommand(flags),
	)
	return cryptoCmd
}

func (e *env) pricesPath() string {
	if filepath.IsAbs(e.cfg.Prices.File) {
		return e.cfg.Prices.File
	}
	return filepath.Join(e.root, e.cfg.Prices.File)
}

func newCryptoAddCommand(flags *globalFlags) *cobra.Command {
	var symbol, amount, buyPrice string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := model.CryptoHolding{Symbol: portfolio.NormalizeSymbol(symbol)}
			var err error
			if h.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if h.PurchasePrice, err = parseAmount("buy-price", buyPrice); err != nil {
				return err
			}
			h.CurrentPrice = h.PurchasePrice

			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			saved, err := e.repo.SaveHolding(cmd.Context(), h)
			if err != nil {
				return fmt.Errorf("saving holding: %w", err)
			}
			e.printf("Added %s %s %s at %s\n", saved.ID, saved.Amount, saved.Symbol, cli.FormatMoney(saved.PurchasePrice))
			e.commit("crypto: add " + saved.Symbol)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "coin symbol, e.g. BTC (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "quantity held (required)")
	cmd.Flags().StringVar(&buyPrice, "buy-price", "", "purchase price per coin (required)")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("buy-price")
	return cmd
}

func newCryptoListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Value holdings at the latest snapshot prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			holdings, err := e.repo.Holdings(ctx)
			if err != nil {
				return err
			}
			if len(holdings) == 0 {
				e.printf("No holdings.\n")
				return nil
			}
			priced, err := portfolio.Refresh(ctx, portfolio.FileSource{Path: e.pricesPath()}, holdings)
			if err != nil {
				return err
			}

			sum := portfolio.Value(priced)
			rows := make([][]string, 0, len(sum.Positions)+2)
			for _, p := range sum.Positions {
				rows = append(rows, []string{
					p.Holding.Symbol,
					p.Holding.Amount.String(),
					cli.FormatMoney(p.Holding.CurrentPrice),
					cli.FormatMoney(p.Value),
					cli.FormatMoney(p.Gain),
					cli.FormatChange(p.GainPercent),
					cli.FormatChange(p.Holding.Change24h),
					p.Holding.ID,
				})
			}
			rows = append(rows, []string{"---"}, []string{
				"Total", "", "",
				cli.FormatMoney(sum.TotalValue),
				cli.FormatMoney(sum.UnrealizedGain),
				cli.FormatChange(sum.GainPercent),
				cli.FormatChange(sum.AvgChange24h),
				"",
			})
			e.printf("%s", cli.RenderTable(cli.Table{
				Title:   "Crypto portfolio",
				Headers: []string{"Symbol", "Amount", "Price", "Value", "Gain", "Gain %", "24h", "ID"},
				Rows:    rows,
				Left:    []int{7},
			}))
			return nil
		},
	}
}

func newCryptoRmCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeleteHolding(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting holding %s: %w", args[0], err)
			}
			e.printf("Deleted holding %s\n", args[0])
			e.commit("crypto: rm " + id.Short(args[0]))
			return nil
		},
	}
}

func newCryptoPriceCommand(flags *globalFlags) *cobra.Command {
	var change string

	cmd := &cobra.Command{
		Use:   "price <symbol> <price>",
		Short: "Record a price in the snapshot file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q portfolio.Quote
			var err error
			if q.Price, err = parseAmount("price", args[1]); err != nil {
				return err
			}
			if q.Price.IsNegative() {
				return fmt.Errorf("price must not be negative")
			}
			if q.Change24h, err = parseAmount("change", change); err != nil {
				return err
			}

			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			path := e.pricesPath()
			snap, err := portfolio.LoadSnapshot(path)
			if err != nil {
				return err
			}
			sym := portfolio.NormalizeSymbol(args[0])
			snap.Quotes[sym] = q
			snap.AsOf = time.Now().UTC().Truncate(time.Second)
			if err := portfolio.SaveSnapshot(path, snap); err != nil {
				return err
			}
			e.printf("%s = %s (%s)\n", sym, cli.FormatMoney(q.Price), cli.FormatChange(q.Change24h))
			e.commit("crypto: price " + sym)
			return nil
		},
	}

	cmd.Flags().StringVar(&change, "change", "0", "24h change, percent")
	return cmd
}
