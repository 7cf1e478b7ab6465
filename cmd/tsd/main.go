package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "tsd",
	Short: "TSD - Trading Strategy Dashboard",
	Long: `TSD serves the EMA pullback trading dashboard: market data, pullback
analysis, universe scanning and strategy backtests, with synthetic data
when the strategy API is unreachable.`,
}

func init() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
