// =============================================================================
// Vendor Matcher - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (vendormatch)
//   ├── matchCmd     (vendormatch match)
//   ├── scoreCmd     (vendormatch score)
//   ├── normalizeCmd (vendormatch normalize)
//   ├── validateCmd  (vendormatch validate)
//   └── versionCmd   (vendormatch version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading config.yaml before any subcommand runs
//   3. Setting up logging
//
//   When --config is left at its default and config.yaml does not exist,
//   built-in defaults are used. An explicitly named file must exist.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/pkg/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is loaded in PersistentPreRunE.
var appConfig *config.MainConfig

// log is built from appConfig.
var log *logger.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vendormatch",
	Short: "Vendor Matcher - group vendor name variants and total their spend",

	Long: `Vendor Matcher reads transaction exports (CSV or Excel), groups vendor names
that refer to the same business ("Acme Inc", "ACME Incorporated", "Acme Inc.")
using fuzzy string similarity, and reports each group with its total amount.

Key Features:
  - Blended similarity: edit ratio, partial ratio and token-sort ratio
  - Optional cleanup of legal suffixes, punctuation and accents before matching
  - Configurable per-column cleanup rules (prefix stripping, alias tables)
  - Reports in JSON, YAML, XML, CSV, Excel or MessagePack
  - Concurrent batch processing with automatic input archival

Example Usage:
  vendormatch match                           # Process every file in the input directory
  vendormatch match --file ledger.csv -t 80   # One file, custom threshold
  vendormatch score "Acme Inc" "ACME Corp"    # Explain a single comparison
  vendormatch validate                        # Check config.yaml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and builds the logger.
func initConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = logger.DEBUG
	}

	appConfig = cfg
	log = logger.New(logger.Config{
		Level:   level,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
		Service: "vendormatch",
	})

	return nil
}
