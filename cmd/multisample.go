package cmd

import (
	"rx2kit/core/multisample"
	"rx2kit/core/wavio"
	"rx2kit/logger"

	"github.com/spf13/cobra"
)

var multisampleList string

var multisampleCmd = &cobra.Command{
	Use:   "multisample [flags] [file ...]",
	Short: "Export sliced WAV/RX2 files as Bitwig .multisample bundles",
	Long: `Build one .multisample zip per input, mapping each slice to its own
chromatic zone starting at MIDI note 36. Inputs are WAV files with an
existing .slices list, or .rx2 files which are converted first.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputs, err := collectInputs(args, multisampleList)
		if err != nil {
			logger.Fatal("bad input list", logger.ErrorField(err))
		}
		if len(inputs) == 0 {
			logger.Fatal("no input files given")
		}

		for _, in := range inputs {
			wavPath, starts, err := resolveSliced(in)
			if err != nil {
				logger.Fatal("cannot prepare input",
					logger.String("input", in.path),
					logger.ErrorField(err))
			}
			info, err := wavio.ReadInfo(wavPath)
			if err != nil {
				logger.Fatal("cannot probe WAV",
					logger.String("wav", wavPath),
					logger.ErrorField(err))
			}

			gen := multisample.NewGenerator(wavPath, info.SampleRate, info.Frames)
			for _, s := range starts {
				gen.AddSlice(s)
			}
			out, err := gen.Save()
			if err != nil {
				logger.Fatal("failed to save multisample",
					logger.String("wav", wavPath),
					logger.ErrorField(err))
			}
			logger.Info("created multisample",
				logger.String("path", out),
				logger.Int("zones", len(starts)))
		}
	},
}

func init() {
	multisampleCmd.Flags().StringVarP(&multisampleList, "list", "l", "", "file containing a list of inputs, one per line")
	rootCmd.AddCommand(multisampleCmd)
}
