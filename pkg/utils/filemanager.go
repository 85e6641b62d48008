// =============================================================================
// Vendor Matcher - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for batch runs:
//   - Input discovery (.csv and .xlsx in the input directory)
//   - Input archival after a successful run
//   - Report file naming
//   - The end-of-run summary log
//
// ARCHIVAL STRATEGY:
//   - Inputs are moved to input_archive only after their report is written
//   - Failed inputs remain in the input directory for a retry
//   - A name clash in the archive gets a timestamp suffix, never an overwrite
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputExtensions are the file types the loaders understand.
var InputExtensions = []string{".csv", ".xlsx"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a batch run.
type FileManager struct {
	// InputDir is scanned for input files.
	InputDir string

	// OutputDir receives reports and logs.
	OutputDir string

	// InputArchiveDir receives inputs after a successful run.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether inputs are archived at all.
	ArchiveOnSuccess bool

	// now is swapped in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string, archive bool) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: archive,
		now:              time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.InputDir, fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists files in the input directory (not recursive)
// whose extension matches one of extensions, case-insensitively. With no
// extensions, InputExtensions is used. Hidden files and Excel lock files
// ("~$book.xlsx") are skipped. The result is sorted by name.
func (fm *FileManager) DiscoverInputFiles(extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = InputExtensions
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if HasExtension(name, extensions...) {
			files = append(files, filepath.Join(fm.InputDir, name))
		}
	}

	sort.Strings(files)
	return files, nil
}

// HasExtension reports whether path ends in one of extensions, ignoring case.
func HasExtension(path string, extensions ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// RETURNS:
//   - The path to the archived file (filePath itself when archiving is off).
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := fm.archivePath(filePath)

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// archivePath returns a free path in the archive for filePath.
func (fm *FileManager) archivePath(filePath string) string {
	fileName := filepath.Base(filePath)
	candidate := filepath.Join(fm.InputArchiveDir, fileName)
	if !FileExists(candidate) {
		return candidate
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	stamp := fm.now().Format("20060102_150405")
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s_%s%s", stem, stamp, ext)
		if i > 0 {
			name = fmt.Sprintf("%s_%s_%d%s", stem, stamp, i, ext)
		}
		candidate = filepath.Join(fm.InputArchiveDir, name)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds a report file name.
//
// PARAMETERS:
//   - format: The name format. Placeholders:
//       {uuid}      - A random UUID
//       {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//       {original}  - Input file name without its extension
//   - inputPath: The input file the report is for.
//   - extension: The report extension including the dot (".json").
//
// EXAMPLE:
//   format:    "{original}_{timestamp}"
//   inputPath: "input/ledger_q1.csv"
//   extension: ".xlsx"
//   output:    "ledger_q1_20240115_143022.xlsx"
func GenerateOutputFileName(format, inputPath, extension string) string {
	return generateOutputFileName(format, inputPath, extension, time.Now())
}

func generateOutputFileName(format, inputPath, extension string, now time.Time) string {
	base := filepath.Base(inputPath)
	original := strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{original}", original,
	)
	result := replacer.Replace(format)

	// Names must not escape the output directory.
	result = strings.NewReplacer("/", "_", "\\", "_").Replace(result)
	if result == "" {
		result = uuid.New().String()
	}

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a batch run.
type RunSummary struct {
	RunID      string
	StartTime  time.Time
	EndTime    time.Time
	Processed  []ProcessedFileInfo
	Failed     []FailedFileInfo
	IssueCount int
}

// ProcessedFileInfo describes a successfully processed file.
type ProcessedFileInfo struct {
	InputFile     string
	OutputFile    string
	Rows          int
	UniqueVendors int
	Groups        int
	ProcessTime   time.Duration
}

// FailedFileInfo describes a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to the output directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryFileName := fmt.Sprintf("run_summary_%s.txt", summary.StartTime.Format("20060102_150405"))
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Vendor Matcher - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:        %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Validation Issues:  %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		len(summary.Processed)+len(summary.Failed),
		len(summary.Processed),
		len(summary.Failed),
		summary.IssueCount)

	if len(summary.Processed) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.Processed {
			fmt.Fprintf(writer, "  Input:          %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:         %s\n", pf.OutputFile)
			fmt.Fprintf(writer, "  Rows:           %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Unique Vendors: %d\n", pf.UniqueVendors)
			fmt.Fprintf(writer, "  Groups:         %d\n", pf.Groups)
			fmt.Fprintf(writer, "  Process Time:   %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.Failed) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.Failed {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
