package cmd

import (
	"fmt"
	"os"

	"rx2kit/config"
	"rx2kit/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rx2kit",
	Short: "rx2kit turns REX2 loops into sliced, DAW-ready audio.",
	Long: `rx2kit renders .rx2 looped-audio containers through the REX SDK helper
and exports the result as WAV plus slice metadata (Octatrack .ot or a
generic .slices XML list), DAWProject bundles, or Bitwig multisamples.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
