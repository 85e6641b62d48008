// =============================================================================
// Vendor Matcher - Match Command
// =============================================================================
//
// This file defines the 'match' command, the main command of the tool. It
// runs the matching pipeline over every input file.
//
// COMMAND USAGE:
//   vendormatch match [flags]
//
// FLAGS:
//   --file           : Process a single file instead of the input directory
//   --threshold, -t  : Override matching.threshold
//   --vendor-column  : Override matching.vendor_column
//   --amount-column  : Override matching.amount_column
//   --normalize      : Override matching.normalize
//   --format, -f     : Override output_format
//   --dry-run        : Match and print results without writing anything
//
// PROCESSING PIPELINE:
//   1. Apply flag overrides and validate the configuration
//   2. Compile the vendor rules
//   3. Discover .csv and .xlsx files in the input directory
//   4. Run the pipeline for each file (concurrently, max_concurrency at once)
//   5. Print a summary and write the run summary log
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-matching/internal/pipeline"
	"github.com/ginjaninja78/vendor-matching/internal/report"
	"github.com/ginjaninja78/vendor-matching/internal/transform"
	"github.com/ginjaninja78/vendor-matching/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun       bool
	filePath     string
	threshold    float64
	vendorColumn string
	amountColumn string
	normalize    bool
	outputFormat string
)

// =============================================================================
// MATCH COMMAND DEFINITION
// =============================================================================

// matchCmd represents the 'match' command.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Group similar vendor names and total their amounts",
	Long: `The match command scans the input directory for CSV and Excel files, groups
vendor names that refer to the same business, and writes one report per file.

Files are processed concurrently. An error in one file does not affect the
others.

On success:
  - The report is placed in the output directory
  - The input is moved to the input archive (when archive_inputs is on)

On error:
  - The input remains in the input directory
  - The failure is listed in the run summary`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatch(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match without writing reports or archiving inputs")
	matchCmd.Flags().StringVar(&filePath, "file", "", "Process a single file instead of the input directory")
	matchCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Minimum similarity score (0-100) to join a group")
	matchCmd.Flags().StringVar(&vendorColumn, "vendor-column", "", "Column holding vendor names")
	matchCmd.Flags().StringVar(&amountColumn, "amount-column", "", "Column holding amounts")
	matchCmd.Flags().BoolVar(&normalize, "normalize", true, "Compare normalized names (legal suffixes and punctuation removed)")
	matchCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		fmt.Sprintf("Report format (%s)", strings.Join(report.Formats(), ", ")))
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runMatch(cmd *cobra.Command) error {
	startTime := time.Now()
	runID := uuid.New().String()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: CONFIGURATION
	// =========================================================================

	applyMatchOverrides(cmd)
	if !slices.Contains(report.Formats(), appConfig.OutputFormat) {
		return fmt.Errorf("unsupported output format %q (supported: %s)",
			appConfig.OutputFormat, strings.Join(report.Formats(), ", "))
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	transformer, err := transform.New(appConfig.VendorRules)
	if err != nil {
		return fmt.Errorf("failed to compile vendor rules: %w", err)
	}

	files := utils.NewFileManager(
		appConfig.InputDir,
		appConfig.OutputDir,
		appConfig.InputArchiveDir,
		appConfig.ArchiveInputs,
	)

	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	log.Info("starting run", "run_id", runID, "dry_run", dryRun, "threshold", appConfig.Matching.Threshold)

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if filePath != "" {
		if !utils.HasExtension(filePath, utils.InputExtensions...) {
			return fmt.Errorf("unsupported input file type: %s", filepath.Ext(filePath))
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = files.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No CSV or Excel files found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	var wg sync.WaitGroup
	results := make(chan pipeline.FileResult, len(inputFiles))
	slots := make(chan struct{}, appConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()

			slots <- struct{}{}
			defer func() { <-slots }()

			proc := pipeline.New(path, appConfig,
				pipeline.WithTransformer(transformer),
				pipeline.WithFileManager(files),
				pipeline.WithLogger(log.With("run_id", runID)),
				pipeline.WithDryRun(dryRun),
			)
			results <- proc.Run()
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var collected []pipeline.FileResult
	for result := range results {
		collected = append(collected, result)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].FilePath < collected[j].FilePath
	})

	summary := utils.RunSummary{RunID: runID, StartTime: startTime}

	for _, result := range collected {
		name := filepath.Base(result.FilePath)
		summary.IssueCount += result.Stats.ValidationIssues

		if !result.Success {
			summary.Failed = append(summary.Failed, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.Processed = append(summary.Processed, utils.ProcessedFileInfo{
			InputFile:     name,
			OutputFile:    filepath.Base(result.OutputFile),
			Rows:          result.Stats.Rows,
			UniqueVendors: result.Stats.UniqueVendors,
			Groups:        result.Stats.Groups,
			ProcessTime:   result.Stats.ProcessingTime,
		})

		if dryRun {
			fmt.Fprintf(out, "  ✓ %s (dry run)\n", name)
			printGroups(cmd, result)
		} else {
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, filepath.Base(result.OutputFile))
		}
	}

	// =========================================================================
	// STEP 5: SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Matching Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(collected))
	fmt.Fprintf(out, "Successful:      %d\n", len(summary.Processed))
	fmt.Fprintf(out, "Errors:          %d\n", len(summary.Failed))
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime).Round(time.Millisecond))

	if !dryRun {
		summaryPath, err := utils.WriteSummaryLog(summary, appConfig.OutputDir)
		if err != nil {
			log.Warn("failed to write run summary", "error", err)
		} else {
			fmt.Fprintf(out, "Run summary:     %s\n", summaryPath)
		}
	}

	log.Info("run complete", "run_id", runID, "processed", len(summary.Processed), "failed", len(summary.Failed))

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d file(s) failed", len(summary.Failed), len(collected))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyMatchOverrides copies explicitly set flags onto the loaded config.
func applyMatchOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		appConfig.Matching.Threshold = threshold
	}
	if flags.Changed("vendor-column") {
		appConfig.Matching.VendorColumn = vendorColumn
	}
	if flags.Changed("amount-column") {
		appConfig.Matching.AmountColumn = amountColumn
	}
	if flags.Changed("normalize") {
		appConfig.Matching.Normalize = normalize
	}
	if flags.Changed("format") {
		appConfig.OutputFormat = strings.ToLower(outputFormat)
	}
}

// printGroups lists each group of a dry-run result.
func printGroups(cmd *cobra.Command, result pipeline.FileResult) {
	rep := result.Result.Report
	if rep == nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, row := range rep.Summary {
		fmt.Fprintf(out, "      %-30s %3d variation(s)  total %s\n", row.PrimaryName, row.Variations, row.TotalAmount)
		fmt.Fprintf(out, "        %s\n", row.MatchedNames)
	}
}
