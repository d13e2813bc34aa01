// Package utils provides utility functions for the burstgraph library.
//
// This package contains helper functions for:
//   - Numeric rounding compatible with numpy's round-half-to-even (helpers.go)
//   - Transcript timestamp formatting (helpers.go)
//   - Run identifiers (helpers.go)
//   - Tolerant decoding of delimited and YAML tables into structs (tabular.go)
package utils
