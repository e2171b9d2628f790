package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/config"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "pdfreduce",
	Short:         "Shrink PDF files by recompressing their JPEG images",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = cfg.Logging.NewLogger(os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./pdfreduce.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().String("history-db", "", "Run ledger database (empty disables)")
}

// addReduceFlags registers the recompression flags shared by reduce and convert.
func addReduceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("scale", 0.5, "Resize factor for images above the exempt size")
	cmd.Flags().Float64("quality", 0.5, "JPEG quality (0.0-1.0)")
	cmd.Flags().Int("exempt-width", 0, "Images this wide or narrower keep their size")
	cmd.Flags().Int("exempt-height", 0, "Images this tall or shorter keep their size")
	cmd.Flags().String("cmyk-profile", "", "Fallback CMYK ICC profile (default: bundled SWOP press profile)")
	cmd.Flags().String("intent", "perceptual", "Rendering intent (perceptual, relative, saturation, absolute)")
	cmd.Flags().Int("workers", 1, "Images recompressed concurrently")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
