package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-matching/pkg/utils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(root, "config.yaml")
	content := fmt.Sprintf(`input_dir: %q
output_dir: %q
input_archive_dir: %q
output_name_format: "{original}_report"
max_concurrency: 2
matching:
  threshold: 85
  vendor_column: Vendor
  amount_column: Amount
`, filepath.Join(root, "input"), filepath.Join(root, "output"), filepath.Join(root, "archive"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := execute(t, "score", "Acme Inc", "ACME Incorporated", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `Compared:         "acme" vs "acme"`)
	assert.Contains(t, out, "Score:            100.00  (threshold 85, match)")
}

func TestScoreCommandKeepsNamesThatNormalizeToNothing(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := execute(t, "--config", cfg, "score", "  Co Inc ", "Co Inc.")
	require.NoError(t, err)
	assert.Contains(t, out, `Compared:         "Co Inc" vs "Co Inc."`)
	assert.Contains(t, out, "Score:             90.00  (threshold 85, match)")
}

func TestNormalizeCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := execute(t, "normalize", "ACME, Inc.", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "ACME, Inc.\tacme\n", out)
}

func TestMatchCommand(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "input"), 0o755))
	input := filepath.Join(root, "input", "ledger.csv")
	require.NoError(t, os.WriteFile(input, []byte("Vendor,Amount\nAcme Inc,10\nACME Incorporated,5\n"), 0o644))

	out, err := execute(t, "match", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "ledger.csv -> ledger_report.json")
	assert.Contains(t, out, "Successful:      1")

	assert.True(t, utils.FileExists(filepath.Join(root, "output", "ledger_report.json")))
	assert.True(t, utils.FileExists(filepath.Join(root, "archive", "ledger.csv")))

	summaries, err := filepath.Glob(filepath.Join(root, "output", "run_summary_*.txt"))
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestValidateCommandListsProblems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_format: pdf\nmatching:\n  threshold: 150\n"), 0o644))

	out, err := execute(t, "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, out, "2 problem(s)")
	assert.Contains(t, out, "output_format")
	assert.Contains(t, out, "matching.threshold")
}

func TestMatchCommandRejectsUnknownFormat(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	t.Cleanup(func() { _ = matchCmd.Flags().Set("format", "json") })

	_, err := execute(t, "match", "--config", cfg, "--format", "pdf")
	require.ErrorContains(t, err, `unsupported output format "pdf" (supported: json, yaml, xml, csv, xlsx, msgpack)`)
}
