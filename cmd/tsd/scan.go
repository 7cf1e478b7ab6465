package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/app"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/format"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/logger"
)

var (
	scanUniverse      string
	scanSymbols       []string
	scanMinConfidence int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a symbol universe for pullback setups",
	Long:  "Sweep a universe (or an explicit symbol list) for pullback setups and print the opportunities sorted by confidence.",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanUniverse, "universe", "", "universe to scan (nasdaq, crypto, forex, commodities, all)")
	scanCmd.Flags().StringSliceVar(&scanSymbols, "symbols", nil, "explicit symbols to scan instead of a universe")
	scanCmd.Flags().IntVar(&scanMinConfidence, "min-confidence", 0, "minimum confidence score (0-100)")

	rootCmd.AddCommand(scanCmd)
}

// withApp handles common application setup and teardown for one-shot
// commands. The dashboard refresh loop is not started.
func withApp(fn func(ctx context.Context, a *app.App, log *zap.Logger) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log := logger.Must(debug || cfg.Logging.Development, cfg.Logging.Level)
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer a.Close()

	return fn(context.Background(), a, log)
}

func runScan(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app.App, log *zap.Logger) error {
		result, err := a.RunScan(ctx, scanUniverse, scanSymbols, scanMinConfidence)
		if err != nil {
			return fmt.Errorf("scanning: %w", err)
		}

		fmt.Printf("Scanned %d symbols, found %d opportunities\n\n",
			result.TotalScanned, result.OpportunitiesFound)

		if len(result.Opportunities) == 0 {
			fmt.Println("No pullback setups found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Symbol", "Signal", "Confidence", "Entry", "Stop", "Target 1", "Target 2"})
		table.SetAlignment(tablewriter.ALIGN_CENTER)
		table.SetColumnSeparator("")

		for _, op := range result.Opportunities {
			table.Append([]string{
				op.Symbol,
				string(op.Signal),
				format.Percent(float64(op.Confidence), 0),
				format.Currency(op.TradeSetup.EntryPrice),
				format.Currency(op.TradeSetup.StopLoss),
				format.Currency(op.TradeSetup.Target1),
				format.Currency(op.TradeSetup.Target2),
			})
		}
		table.Render()

		return nil
	})
}
