package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/app"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/format"
)

var (
	backtestPeriod  string
	backtestCapital float64
	backtestTrades  bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [symbol]",
	Short: "Run a strategy backtest",
	Long:  "Run the pullback strategy against historical data for one symbol and show performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestPeriod, "period", "1y", "history period (1mo, 3mo, 6mo, 1y, 2y, 5y)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 10000, "initial capital")
	backtestCmd.Flags().BoolVar(&backtestTrades, "trades", false, "print the sample trade log")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	return withApp(func(ctx context.Context, a *app.App, log *zap.Logger) error {
		result, err := a.RunBacktest(ctx, symbol, backtestPeriod, backtestCapital)
		if err != nil {
			return fmt.Errorf("backtesting %s: %w", symbol, err)
		}

		m := result.Metrics

		fmt.Println("=== Strategy Backtest ===")
		fmt.Printf("Symbol: %s\n", result.Symbol)
		fmt.Printf("Period: %s\n", result.Period)
		fmt.Println()

		if m.TotalTrades == 0 {
			fmt.Println("No trades were taken in this period.")
			return nil
		}

		fmt.Printf("Total trades:    %d\n", m.TotalTrades)
		fmt.Printf("Winning trades:  %d\n", m.WinningTrades)
		fmt.Printf("Losing trades:   %d\n", m.LosingTrades)
		fmt.Printf("Win rate:        %s\n", format.Percent(m.WinRate, 2))
		fmt.Printf("Avg win:         %s\n", format.Percent(m.AvgWin, 2))
		fmt.Printf("Avg loss:        %s\n", format.Percent(m.AvgLoss, 2))
		fmt.Printf("Initial capital: %s\n", format.Currency(result.InitialCapital))
		fmt.Printf("Final capital:   %s\n", format.Currency(m.FinalCapital))
		fmt.Printf("Total return:    %s (%s)\n",
			format.SignedCurrency(m.TotalReturn), format.Percent(m.TotalReturnPct, 2))

		if backtestTrades && len(result.Trades) > 0 {
			fmt.Println()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Entry", "Exit", "Entry Price", "Exit Price", "Shares", "P&L", "Return", "Reason"})
			table.SetAlignment(tablewriter.ALIGN_CENTER)
			table.SetColumnSeparator("")

			for _, tr := range result.Trades {
				table.Append([]string{
					tr.EntryDate,
					tr.ExitDate,
					format.Currency(tr.EntryPrice),
					format.Currency(tr.ExitPrice),
					fmt.Sprintf("%d", tr.Shares),
					format.SignedCurrency(tr.PnL),
					format.Percent(tr.ReturnPct, 2),
					tr.ExitReason,
				})
			}
			table.Render()
		}

		return nil
	})
}
