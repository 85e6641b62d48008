// =============================================================================
// Vendor Matcher - Score Command
// =============================================================================
//
// This file defines the 'score' command, which explains a single comparison.
// It is the quickest way to tune matching.threshold.
//
// COMMAND USAGE:
//   vendormatch score "Acme Inc" "ACME Incorporated" [--raw]
//
// OUTPUT:
//   Compared:         "acme" vs "acme"
//   Ratio:            100.00
//   Partial Ratio:    100.00
//   Token Sort Ratio: 100.00
//   Score:            100.00  (threshold 85, match)
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-matching/internal/clusterer"
	"github.com/ginjaninja78/vendor-matching/internal/pipeline"
	"github.com/ginjaninja78/vendor-matching/internal/similarity"
)

// rawScore compares the names as given, skipping normalization.
var rawScore bool

// scoreCmd represents the 'score' command.
var scoreCmd = &cobra.Command{
	Use:   "score NAME_A NAME_B",
	Short: "Show the similarity score of two vendor names",
	Long: `Score two vendor names the way the match command does and print each metric
behind the blended score. Names are normalized with the configured matching
settings unless --raw is given. A name that normalizes to nothing ("Co Inc")
is compared by its trimmed form, as in match.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&rawScore, "raw", false, "Compare the names without normalizing them")
}

func runScore(cmd *cobra.Command, a, b string) error {
	out := cmd.OutOrStdout()
	matching := appConfig.Matching

	opts := pipeline.AggregatorOptions(matching).Cluster
	if rawScore {
		opts.Normalize = false
	}

	a, b = clusterer.Key(a, opts), clusterer.Key(b, opts)
	fmt.Fprintf(out, "Compared:         %q vs %q\n", a, b)

	bd := similarity.Explain(a, b)

	verdict := "no match"
	if bd.Score >= matching.Threshold {
		verdict = "match"
	}

	fmt.Fprintf(out, "Ratio:            %6.2f\n", bd.Ratio)
	fmt.Fprintf(out, "Partial Ratio:    %6.2f\n", bd.PartialRatio)
	fmt.Fprintf(out, "Token Sort Ratio: %6.2f\n", bd.TokenSortRatio)
	fmt.Fprintf(out, "Score:            %6.2f  (threshold %g, %s)\n", bd.Score, matching.Threshold, verdict)

	return nil
}
