package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "in"), filepath.Join(root, "out"), filepath.Join(root, "archive"), true)
	fm.now = func() time.Time { return time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC) }
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)
	for _, name := range []string{"b.csv", "a.XLSX", "notes.txt", ".hidden.csv", "~$a.xlsx"} {
		touch(t, filepath.Join(fm.InputDir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(fm.InputDir, "sub.csv"), 0o755))

	files, err := fm.DiscoverInputFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(fm.InputDir, "a.XLSX"),
		filepath.Join(fm.InputDir, "b.csv"),
	}, files)

	files, err = fm.DiscoverInputFiles(".txt")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscoverInputFilesMissingDir(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "nope"), "", "", false)
	_, err := fm.DiscoverInputFiles()
	require.ErrorContains(t, err, "failed to scan input directory")
}

func TestArchiveInputFile(t *testing.T) {
	fm := newTestManager(t)
	src := filepath.Join(fm.InputDir, "ledger.csv")
	touch(t, src)

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "ledger.csv"), archived)
	assert.False(t, FileExists(src))
	assert.True(t, FileExists(archived))

	// A second file with the same name does not overwrite the first.
	touch(t, src)
	archived, err = fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "ledger_20240115_143022.csv"), archived)

	touch(t, src)
	archived, err = fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "ledger_20240115_143022_1.csv"), archived)
}

func TestArchiveDisabledLeavesFile(t *testing.T) {
	fm := newTestManager(t)
	fm.ArchiveOnSuccess = false
	src := filepath.Join(fm.InputDir, "ledger.csv")
	touch(t, src)

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, src, archived)
	assert.True(t, FileExists(src))
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	assert.Equal(t, "ledger_q1_20240115_143022.xlsx",
		generateOutputFileName("{original}_{timestamp}", "input/ledger_q1.csv", ".xlsx", now))

	name := generateOutputFileName("{original}_{uuid}", "ledger.csv", ".json", now)
	assert.Regexp(t, regexp.MustCompile(`^ledger_[0-9a-f-]{36}\.json$`), name)

	assert.Equal(t, "report.json", generateOutputFileName("report.json", "x.csv", ".json", now))
	assert.Equal(t, "a_b.csv", generateOutputFileName("a/b", "x.csv", ".csv", now))

	a := GenerateOutputFileName("{uuid}", "x.csv", ".json")
	b := GenerateOutputFileName("{uuid}", "x.csv", ".json")
	assert.NotEqual(t, a, b)
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestManager(t)
	start := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	path, err := WriteSummaryLog(RunSummary{
		RunID:     "run-1",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Processed: []ProcessedFileInfo{{InputFile: "a.csv", OutputFile: "a.json", Rows: 10, UniqueVendors: 4, Groups: 1}},
		Failed:    []FailedFileInfo{{InputFile: "b.csv", ErrorMessage: "input table is empty"}},
	}, fm.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "run_summary_20240115_143022.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run ID:         run-1")
	assert.Contains(t, string(data), "Total Files:        2")
	assert.Contains(t, string(data), "Duration:       2s")
	assert.Contains(t, string(data), "Error: input table is empty")
}
