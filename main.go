// =============================================================================
// Vendor Matcher - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Vendor Matcher CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   vendormatch match       - Match vendors in every file of the input directory
//   vendormatch score A B   - Explain the similarity of two names
//   vendormatch normalize   - Print normalized vendor names
//   vendormatch validate    - Validate config.yaml without processing
//   vendormatch version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Matching pipeline (normalizer, similarity, clusterer,
//                  aggregator), loaders, vendor rules and report writers
//   - pkg/       : Shared utilities (file management, logging)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/vendor-matching/cmd"
)

func main() {
	cmd.Execute()
}
