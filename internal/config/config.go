// =============================================================================
// Vendor Matcher - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration
// (config.yaml). One file drives the whole run: where inputs come from,
// how they are parsed and cleaned, how vendors are matched, and what the
// report looks like.
//
// LOADING ORDER:
//   1. Start from Default()
//   2. Overlay the YAML file (keys absent from the file keep their default)
//   3. Fill any values the file explicitly blanked (applyMainConfigDefaults)
//   4. Validate with struct tags (validateMainConfig)
//
// Starting from Default() lets a file set `threshold: 0` or
// `normalize: false` without those being mistaken for "unset".
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for .csv and .xlsx files.
	// Default: "./input"
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir receives one report per input file.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// InputArchiveDir receives inputs after a successful run.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" validate:"required_if=ArchiveInputs true"`

	// ArchiveInputs moves processed inputs to InputArchiveDir.
	// Failed inputs always stay where they are.
	// Default: true
	ArchiveInputs bool `yaml:"archive_inputs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler.
	// Valid values: "json", "text"
	// Default: "text"
	LogFormat string `yaml:"log_format" validate:"oneof=json text"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the report encoding.
	// Valid values: "json", "yaml", "xml", "csv", "xlsx", "msgpack"
	// Default: "json"
	OutputFormat string `yaml:"output_format" validate:"oneof=json yaml xml csv xlsx msgpack"`

	// OutputNameFormat defines the report file name, without extension.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {original}  - Input file name without its extension
	//
	// Example: "{original}_vendors_{timestamp}"
	// Default: "{original}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format" validate:"required"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=1,max=64"`

	// Matching holds the clustering and aggregation settings.
	Matching MatchingSettings `yaml:"matching"`

	// CSVSettings controls how .csv inputs are parsed.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings controls how .xlsx inputs are read.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// VendorRules clean up columns before matching. Rules run in order.
	VendorRules []TransformationRule `yaml:"vendor_rules" validate:"dive"`
}

// =============================================================================
// MATCHING SETTINGS STRUCTURE
// =============================================================================

// MatchingSettings controls how vendor names are grouped.
type MatchingSettings struct {
	// Threshold is the minimum blended similarity (0-100) for a name to
	// join a group.
	// Default: 85
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=100"`

	// VendorColumn is the header holding vendor names.
	// Default: "Vendor"
	VendorColumn string `yaml:"vendor_column" validate:"required"`

	// AmountColumn is the header holding amounts. When the input has no
	// such column, group totals are reported as "N/A".
	// Default: "Amount"
	AmountColumn string `yaml:"amount_column"`

	// Normalize compares names after suffix and punctuation cleanup.
	// Default: true
	Normalize bool `yaml:"normalize"`

	// FoldAccents strips diacritics before comparing ("Société" ~ "Societe").
	// Only applies when Normalize is on.
	// Default: false
	FoldAccents bool `yaml:"fold_accents"`

	// ExtraSuffixes are removed alongside the built-in legal suffixes.
	// Default: ["incorporated", "limited"]
	ExtraSuffixes []string `yaml:"extra_suffixes" validate:"dive,required"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab), ";" (semicolon)
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"required"`

	// HeaderRows is the number of header rows. Multi-line headers are merged.
	// Default: 1
	HeaderRows int `yaml:"header_rows" validate:"min=1"`

	// DataStartRow is the 1-indexed row where data begins. Use it to skip
	// notes between the header and the data.
	// Default: 0 (the row after the last header row)
	DataStartRow int `yaml:"data_start_row" validate:"omitempty,gtfield=HeaderRows"`

	// Encoding is the character encoding of the CSV file.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" validate:"encoding"`
}

// =============================================================================
// XLSX SETTINGS STRUCTURE
// =============================================================================

// XLSXSettings contains settings for reading workbook inputs.
type XLSXSettings struct {
	// Sheet is the worksheet holding the vendor table. Empty means the
	// first sheet in the workbook.
	Sheet string `yaml:"sheet"`

	// HeaderRow is the 1-indexed row holding column headers. Data starts
	// on the next row.
	// Default: 1
	HeaderRow int `yaml:"header_row" validate:"min=1"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific column.
type TransformationRule struct {
	// Field is the column header the actions apply to.
	Field string `yaml:"field" validate:"required"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions" validate:"required,min=1,dive"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "trim"                  : Remove leading and trailing whitespace
	//   - "uppercase"             : Convert to uppercase
	//   - "lowercase"             : Convert to lowercase
	//   - "normalize_whitespace"  : Collapse runs of whitespace to one space
	//   - "replace"               : Replace Find with Value
	//   - "regex_replace"         : Replace matches of the Find pattern with Value
	//   - "lookup"                : Replace the whole value via LookupTable
	//   - "if_empty_use_default"  : Use Value when the cell is blank
	Type string `yaml:"type" validate:"required,oneof=trim uppercase lowercase normalize_whitespace replace regex_replace lookup if_empty_use_default"`

	// Value is the replacement or default, depending on Type.
	Value string `yaml:"value"`

	// Find is the substring or pattern for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty" validate:"required_if=Type replace,required_if=Type regex_replace"`

	// LookupTable maps input values to output values for "lookup".
	// Example:
	//   lookup_table:
	//     "AMZN MKTP": "Amazon"
	//     "AMZN WEB SERVICES": "Amazon"
	LookupTable map[string]string `yaml:"lookup_table,omitempty" validate:"required_if=Type lookup"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a fully defaulted configuration.
func Default() *MainConfig {
	config := &MainConfig{
		ArchiveInputs: true,
		Matching: MatchingSettings{
			Threshold:     85,
			AmountColumn:  "Amount",
			Normalize:     true,
			ExtraSuffixes: []string{"incorporated", "limited"},
		},
	}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or is invalid. A
//     missing file wraps fs.ErrNotExist.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig builds a configuration from YAML bytes.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "json"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_{uuid}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	// Matching defaults.
	if config.Matching.VendorColumn == "" {
		config.Matching.VendorColumn = "Vendor"
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.HeaderRows == 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}

	// XLSX settings defaults.
	if config.XLSXSettings.HeaderRow == 0 {
		config.XLSXSettings.HeaderRow = 1
	}
}
