package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrgl-labs/arbbot/cmd/bot"
	"github.com/mrgl-labs/arbbot/config"
	"github.com/mrgl-labs/arbbot/utils"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the arbitrage bot",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()
		ctx := cmd.Context()

		if err := config.LoadEnv(); err != nil {
			log.Debug("No .env file loaded", zap.Error(err))
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		b, err := bot.New(ctx, cfg, log)
		if err != nil {
			log.Fatal("Failed to create bot", zap.Error(err))
		}
		defer b.Close()

		if err := b.Run(ctx); err != nil {
			log.Fatal("Bot stopped with error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
