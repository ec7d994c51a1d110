package cmd

import (
	"rx2kit/core/convert"
	"rx2kit/core/rex"
	"rx2kit/logger"

	"github.com/spf13/cobra"
)

var convertOcta bool

var convertCmd = &cobra.Command{
	Use:   "convert [flags] file.rx2 ...",
	Short: "Render REX2 files to WAV plus slice metadata",
	Long: `Render each .rx2 file to a 16-bit WAV beside the input and write its
slice metadata: a .slices XML list by default, or an Octatrack .ot binary
sidecar with --octa.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dec := rex.NewHelperDecoder(cfg.RexHelperPath)
		opts := convert.Options{Format: convert.FormatSlices, WavBitDepth: cfg.WavBitDepth}
		if convertOcta {
			opts.Format = convert.FormatOctatrack
		}

		for _, path := range args {
			res, err := convert.Convert(dec, path, opts)
			if err != nil {
				logger.Fatal("conversion failed",
					logger.String("input", path),
					logger.ErrorField(err))
			}
			logger.Info("converted",
				logger.String("input", path),
				logger.String("wav", res.Paths.WavPath),
				logger.String("metadata", res.Paths.MetaPath),
				logger.Int("slices", res.EncodedSlices))
		}
	},
}

func init() {
	convertCmd.Flags().BoolVar(&convertOcta, "octa", false, "write an Octatrack .ot sidecar instead of a .slices list")
	rootCmd.AddCommand(convertCmd)
}
