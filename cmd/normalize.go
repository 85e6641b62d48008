// =============================================================================
// Vendor Matcher - Normalize Command
// =============================================================================
//
// COMMAND USAGE:
//   vendormatch normalize "ACME, Inc." "Café Rouge Ltd" [--fold-accents]
//
// Prints the comparison key of each name, one per line, using the configured
// matching settings.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-matching/internal/normalizer"
)

var foldAccents bool

// normalizeCmd represents the 'normalize' command.
var normalizeCmd = &cobra.Command{
	Use:   "normalize NAME...",
	Short: "Print the normalized form of vendor names",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := normalizer.Options{
			FoldAccents:   appConfig.Matching.FoldAccents,
			ExtraSuffixes: appConfig.Matching.ExtraSuffixes,
		}
		if cmd.Flags().Changed("fold-accents") {
			opts.FoldAccents = foldAccents
		}

		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, normalizer.NormalizeWith(name, opts))
		}
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolVar(&foldAccents, "fold-accents", false, "Strip diacritics before comparing")
}
