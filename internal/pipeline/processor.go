// =============================================================================
// Vendor Matcher - File Pipeline
// =============================================================================
//
// This module runs the matching pipeline for a single input file, from
// loading to report writing.
//
// PIPELINE:
//   1. Load the table (.csv via csvparser, .xlsx via xlsxparser)
//   2. Apply vendor rules (transform)
//   3. Validate the vendor and amount columns
//   4. Cluster and aggregate (aggregator.Process)
//   5. Write the report (unless dry-run)
//   6. Archive the input (only on success, unless dry-run)
//
// FAILURE MODES:
//   - Load errors and a missing vendor column fail the file. No report is
//     written and the input stays in place.
//   - An empty table is reported the normal way: the report carries the
//     {error} envelope, but the file still counts as failed and is not
//     archived.
//
// CONCURRENCY:
//   A Processor handles one file and shares nothing mutable with other
//   processors, so the match command runs one per goroutine.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/vendor-matching/internal/aggregator"
	"github.com/ginjaninja78/vendor-matching/internal/clusterer"
	"github.com/ginjaninja78/vendor-matching/internal/config"
	"github.com/ginjaninja78/vendor-matching/internal/csvparser"
	"github.com/ginjaninja78/vendor-matching/internal/report"
	"github.com/ginjaninja78/vendor-matching/internal/transform"
	"github.com/ginjaninja78/vendor-matching/internal/types"
	"github.com/ginjaninja78/vendor-matching/internal/validation"
	"github.com/ginjaninja78/vendor-matching/internal/xlsxparser"
	"github.com/ginjaninja78/vendor-matching/pkg/logger"
	"github.com/ginjaninja78/vendor-matching/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// FileResult represents the outcome of processing a single file.
type FileResult struct {
	// FilePath is the input file.
	FilePath string

	// OutputFile is the written report. Empty on dry-run or load failure.
	OutputFile string

	// ArchivePath is where the input was moved, if it was.
	ArchivePath string

	// Success is true when a report with matches was produced.
	Success bool

	// Error is set when Success is false.
	Error error

	// Result is the envelope that was (or would have been) written.
	Result types.Result

	// Issues are the validation findings for the table.
	Issues []*validation.Issue

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Rows             int
	CellsTransformed int
	UniqueVendors    int
	Groups           int
	MatchedVendors   int
	ValidationIssues int
	ProcessingTime   time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Processor handles the matching pipeline for a single file.
type Processor struct {
	inputPath   string
	cfg         *config.MainConfig
	transformer *transform.Transformer
	files       *utils.FileManager
	logger      *logger.Logger
	dryRun      bool
}

// Option customizes a Processor.
type Option func(*Processor)

// WithTransformer sets the compiled vendor rules.
func WithTransformer(t *transform.Transformer) Option {
	return func(p *Processor) { p.transformer = t }
}

// WithFileManager sets the file manager used for archiving.
func WithFileManager(fm *utils.FileManager) Option {
	return func(p *Processor) { p.files = fm }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithDryRun skips report writing and archiving.
func WithDryRun(dryRun bool) Option {
	return func(p *Processor) { p.dryRun = dryRun }
}

// New creates a Processor for inputPath.
func New(inputPath string, cfg *config.MainConfig, opts ...Option) *Processor {
	p := &Processor{
		inputPath: inputPath,
		cfg:       cfg,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.files == nil {
		p.files = utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.ArchiveInputs)
	}
	p.logger = p.logger.With("file", filepath.Base(inputPath))
	return p
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file. It never panics on bad input;
// every failure is reported through FileResult.
func (p *Processor) Run() (result FileResult) {
	startTime := time.Now()
	result.FilePath = p.inputPath
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	p.logger.Info("processing file")

	// =========================================================================
	// STEP 1: LOAD TABLE
	// =========================================================================

	table, err := LoadTable(p.inputPath, p.cfg)
	if err != nil {
		result.Error = fmt.Errorf("failed to load input: %w", err)
		p.logger.Error("load failed", "error", err)
		return result
	}

	result.Stats.Rows = len(table.Rows)
	p.logger.Debug("loaded table", "rows", len(table.Rows), "columns", len(table.Headers))

	// =========================================================================
	// STEP 2: APPLY VENDOR RULES
	// =========================================================================

	for _, field := range p.transformer.MissingFields(table) {
		p.logger.Warn("vendor rule column not found", "field", field)
	}

	changed, err := p.transformer.Apply(table)
	if err != nil {
		result.Error = fmt.Errorf("failed to apply vendor rules: %w", err)
		p.logger.Error("vendor rules failed", "error", err)
		return result
	}

	result.Stats.CellsTransformed = changed
	if changed > 0 {
		p.logger.Debug("applied vendor rules", "cells_changed", changed)
	}

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	matching := p.cfg.Matching
	checked := validation.ValidateTable(table, matching.VendorColumn, matching.AmountColumn)
	result.Issues = checked.Issues
	result.Stats.ValidationIssues = len(checked.Issues)

	for _, issue := range checked.Issues {
		p.logger.Debug("validation issue", "row", issue.Row, "field", issue.Field, "rule", issue.Rule, "message", issue.Message)
	}
	if checked.WarningCount > 0 {
		p.logger.Warn("validation warnings", "count", checked.WarningCount)
	}

	if !checked.IsValid {
		result.Error = firstError(checked.Issues)
		p.logger.Error("validation failed", "error", result.Error)
		return result
	}

	// =========================================================================
	// STEP 4: MATCH AND AGGREGATE
	// =========================================================================

	result.Result = aggregator.Process(table, AggregatorOptions(matching))

	if rep := result.Result.Report; rep != nil {
		result.Stats.UniqueVendors = rep.Stats.TotalUniqueVendors
		result.Stats.Groups = rep.Stats.MatchedGroups
		result.Stats.MatchedVendors = rep.Stats.TotalMatchedVendors
		p.logger.Info("matched vendors",
			"unique", rep.Stats.TotalUniqueVendors,
			"groups", rep.Stats.MatchedGroups,
			"matched", rep.Stats.TotalMatchedVendors,
		)
	}

	// =========================================================================
	// STEP 5: WRITE REPORT
	// =========================================================================

	if !p.dryRun {
		outputPath, err := p.writeReport(result.Result)
		if err != nil {
			result.Error = err
			p.logger.Error("report write failed", "error", err)
			return result
		}
		result.OutputFile = outputPath
		p.logger.Info("wrote report", "output", outputPath)

		if len(checked.Issues) > 0 {
			p.writeIssueLog(outputPath, checked.Issues)
		}
	}

	if result.Result.Failed() {
		result.Error = errors.New(result.Result.Error)
		p.logger.Warn("no report data", "error", result.Error)
		return result
	}

	// =========================================================================
	// STEP 6: ARCHIVE INPUT
	// =========================================================================

	if !p.dryRun {
		archivePath, err := p.files.ArchiveInputFile(p.inputPath)
		if err != nil {
			// The report is already written; archiving is best-effort.
			p.logger.Warn("failed to archive input", "error", err)
		} else if archivePath != p.inputPath {
			result.ArchivePath = archivePath
			p.logger.Debug("archived input", "archive", archivePath)
		}
	}

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// LoadTable picks a loader by file extension.
func LoadTable(path string, cfg *config.MainConfig) (*types.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvparser.Parse(path, cfg.CSVSettings)
	case ".xlsx":
		return xlsxparser.Parse(path, cfg.XLSXSettings)
	default:
		return nil, fmt.Errorf("unsupported input file type: %s", filepath.Ext(path))
	}
}

// AggregatorOptions maps the matching settings onto aggregator options.
func AggregatorOptions(m config.MatchingSettings) aggregator.Options {
	return aggregator.Options{
		VendorColumn: m.VendorColumn,
		AmountColumn: m.AmountColumn,
		Cluster: clusterer.Options{
			Threshold:     m.Threshold,
			Normalize:     m.Normalize,
			FoldAccents:   m.FoldAccents,
			ExtraSuffixes: m.ExtraSuffixes,
		},
	}
}

func (p *Processor) writeReport(res types.Result) (string, error) {
	ext, err := report.Extension(p.cfg.OutputFormat)
	if err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(p.cfg.OutputNameFormat, p.inputPath, ext)
	outputPath := filepath.Join(p.cfg.OutputDir, name)

	if err := report.WriteFile(outputPath, res, p.cfg.OutputFormat); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return outputPath, nil
}

// writeIssueLog writes "<report>.issues.log" beside the report.
func (p *Processor) writeIssueLog(outputPath string, issues []*validation.Issue) {
	logPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".issues.log"
	if err := validation.WriteIssueLog(issues, logPath); err != nil {
		p.logger.Warn("failed to write issue log", "error", err)
	}
}

func firstError(issues []*validation.Issue) error {
	for _, issue := range issues {
		if issue.Severity == validation.SeverityError {
			return fmt.Errorf("validation failed: %w", issue)
		}
	}
	return errors.New("validation failed")
}
