package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurlang/gospectro/codec"
	"github.com/neurlang/gospectro/config"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var outBase string
	var format string
	var sidecar bool
	var float16 bool
	var magnitudeOnly bool
	var linear bool
	var bitDepth int

	cmd := &cobra.Command{
		Use:   "encode <audio.wav|audio.flac>",
		Short: "Encode an audio file into a spectrogram image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			base := strings.TrimSpace(outBase)
			if base == "" {
				base = strings.TrimSuffix(input, filepath.Ext(input))
			}
			ext := "." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")

			cd, _, err := ctx.newCodec(cmd, func(cfg *config.Config) {
				if magnitudeOnly {
					cfg.UsePhaseEncoding = false
				}
				if linear {
					cfg.UseLogScale = false
				}
				if cmd.Flags().Changed("bit-depth") {
					cfg.BitDepth = bitDepth
				}
			})
			if err != nil {
				return err
			}

			name, err := cd.EncodeFile(cmd.Context(), input, base, codec.FileOptions{
				Ext:     ext,
				Sidecar: sidecar,
				Float16: float16,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outBase, "out", "o", "", "Output base name (default: input without extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "Image container: png, tiff or bmp")
	cmd.Flags().BoolVar(&sidecar, "sidecar", false, "Write a TOML side-car with geometry and source length")
	cmd.Flags().BoolVar(&float16, "float16", false, "Also write the unquantized spectrogram as half floats")
	cmd.Flags().BoolVar(&magnitudeOnly, "mag", false, "Store magnitude only (grayscale)")
	cmd.Flags().BoolVar(&linear, "linear", false, "Use a linear frequency axis")
	cmd.Flags().IntVar(&bitDepth, "bit-depth", 8, "Bits per channel, 8 or 16")
	return cmd
}
