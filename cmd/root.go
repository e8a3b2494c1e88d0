package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrgl-labs/arbbot/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "arbbot",
	Short: "A CLI bot arbitraging a Marginal v1 pool against its Uniswap v3 oracle",
	Long: `A CLI bot that watches a Marginal v1 pool and the Uniswap v3 pool it
oracles against, and executes an atomic arbitrage swap whenever their
sqrt prices diverge beyond the configured tolerance.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./arbbot.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}
