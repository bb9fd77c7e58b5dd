package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neurlang/gospectro/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultFileName
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.Default().Save(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configSeen {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			} else {
				fmt.Fprintf(out, "Config file %s not found; defaults in use\n", ctx.configPath)
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, configRows(cfg), 1))
			return nil
		},
	}
}

func configRows(cfg *config.Config) [][]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return [][]string{
		{"fft_size", strconv.Itoa(cfg.FFTSize)},
		{"hop_size", strconv.Itoa(cfg.HopSize)},
		{"overlap", fmt.Sprintf("%.1f%%", cfg.Overlap()*100)},
		{"min_freq", f(cfg.MinFreq) + " Hz"},
		{"db_min", f(cfg.DbMin) + " dB"},
		{"db_max", f(cfg.DbMax) + " dB"},
		{"boost_start_freq", f(cfg.BoostStartFreq) + " Hz"},
		{"boost_db_per_octave", f(cfg.BoostDbPerOctave) + " dB"},
		{"use_log_scale", strconv.FormatBool(cfg.UseLogScale)},
		{"use_phase_encoding", strconv.FormatBool(cfg.UsePhaseEncoding)},
		{"griffin_lim_iterations", strconv.Itoa(cfg.GriffinLimIterations)},
		{"hold_threshold", f(cfg.HoldThreshold)},
		{"seed", strconv.FormatUint(cfg.Seed, 10)},
		{"bit_depth", strconv.Itoa(cfg.BitDepth)},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
	}
}
