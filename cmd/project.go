package cmd

import (
	"rx2kit/core/dawproject"
	"rx2kit/core/wavio"
	"rx2kit/logger"

	"github.com/spf13/cobra"
)

var (
	projectOutput     string
	projectBPM        float64
	projectList       string
	projectAllMarkers bool
)

var projectCmd = &cobra.Command{
	Use:   "project [flags] [file[:bpm] ...]",
	Short: "Assemble sliced WAV/RX2 files into a DAWProject bundle",
	Long: `Analyze each input's slice grid (tempo and swing), then pack everything
into a single .dawproject zip with warp markers. Inputs are WAV files with
an existing .slices list, or .rx2 files which are converted first. Append
":bpm" to a file to steer its tempo detection.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputs, err := collectInputs(args, projectList)
		if err != nil {
			logger.Fatal("bad input list", logger.ErrorField(err))
		}
		if len(inputs) == 0 {
			logger.Fatal("no input files given")
		}

		gen := dawproject.NewGenerator(projectAllMarkers, 0)
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
			gen.AddTrack(wavPath, starts, dawproject.WavInfo{
				Duration:   info.Duration,
				SampleRate: info.SampleRate,
				Channels:   info.Channels,
			}, in.suggestion)
		}

		if err := gen.Save(projectOutput, projectBPM); err != nil {
			logger.Fatal("failed to save project", logger.ErrorField(err))
		}
		logger.Info("created DAWProject",
			logger.String("path", projectOutput),
			logger.Float64("bpm", gen.GlobalBPM(projectBPM)),
			logger.Int("tracks", len(gen.Tracks())))
	},
}

func init() {
	projectCmd.Flags().StringVarP(&projectOutput, "output", "o", "Export.dawproject", "output DAWProject path")
	projectCmd.Flags().Float64VarP(&projectBPM, "bpm", "b", 0, "override the global project BPM")
	projectCmd.Flags().StringVarP(&projectList, "list", "l", "", "file containing a list of inputs, one per line")
	projectCmd.Flags().BoolVar(&projectAllMarkers, "all-markers", false, "keep warp markers on odd 16th steps too")
	rootCmd.AddCommand(projectCmd)
}
