// =============================================================================
// Vendor Matcher - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks config.yaml without
// processing any files. Every invalid key is listed, not only the first.
//
// COMMAND USAGE:
//   vendormatch validate [--config path]
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/internal/transform"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, report every invalid setting and check that
all vendor rule patterns compile.`,

	// The config is loaded here so that errors can be listed one per line.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		var invalid config.ValidationErrors
		if !errors.As(err, &invalid) {
			return fmt.Errorf("failed to load main config: %w", err)
		}

		fmt.Fprintf(out, "%s: %d problem(s)\n", cfgFile, len(invalid))
		for _, v := range invalid {
			fmt.Fprintf(out, "  ✗ %s: %s\n", v.Field, v.Message)
		}
		return fmt.Errorf("configuration is invalid")
	}

	if _, err := transform.New(cfg.VendorRules); err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	fmt.Fprintf(out, "%s: OK\n", cfgFile)
	fmt.Fprintf(out, "  Input:       %s\n", cfg.InputDir)
	fmt.Fprintf(out, "  Output:      %s (%s)\n", cfg.OutputDir, cfg.OutputFormat)
	fmt.Fprintf(out, "  Threshold:   %g\n", cfg.Matching.Threshold)
	fmt.Fprintf(out, "  Columns:     vendor=%q amount=%q\n", cfg.Matching.VendorColumn, cfg.Matching.AmountColumn)
	fmt.Fprintf(out, "  Rules:       %d\n", len(cfg.VendorRules))
	return nil
}
