package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurlang/gospectro/codec"
	"github.com/neurlang/gospectro/config"
)

// progressEvery is how often Griffin-Lim progress is logged at info level.
const progressEvery = 10

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var outFile string
	var iterations int

	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Decode a spectrogram image into a wav file",
		Long: "Decode a spectrogram image into a wav file.\n\n" +
			"Metadata is read from a TOML side-car next to the image when present,\n" +
			"otherwise from the _SR{rate}_{LOG|LIN}_{PHASE|MAG} file name suffix.\n" +
			"Magnitude-only images are reconstructed with Griffin-Lim; quality grows\n" +
			"with --iterations.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			out := strings.TrimSpace(outFile)
			if out == "" {
				out = defaultWavName(input)
			}

			var logger *slog.Logger
			progress := codec.WithProgress(func(iteration int, convergence float64) {
				if logger != nil && iteration%progressEvery == 0 {
					logger.Info("griffin-lim", "iteration", iteration, "convergence", convergence)
				}
			})
			cd, lg, err := ctx.newCodec(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("iterations") {
					cfg.GriffinLimIterations = iterations
				}
			}, progress)
			if err != nil {
				return err
			}
			logger = lg

			if err := cd.DecodeFile(cmd.Context(), input, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output wav file (default: image name with .wav)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Override the Griffin-Lim iteration count")
	return cmd
}

// defaultWavName keeps the metadata suffix so the source audio the image was
// made from is never overwritten.
func defaultWavName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
}
