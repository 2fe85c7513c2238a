// Package dataprocessing turns raw shelter-outcome exports into an augmented
// in-memory table ready for downstream analysis.
//
// # Architecture
//
// The package is organized into two stages:
//
//  1. Loader: reads a CSV file or XLSX workbook, normalizes column names into
//     snake_case, fills missing cells with the "Unknown" sentinel and parses
//     the date column into timestamps.
//  2. Deriver: computes six categorical/numeric features from the raw string
//     columns, returning a new table and leaving the input untouched.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoadOptions{})
//	table, err := loader.LoadCSV("outcomes.csv")
//	if err != nil {
//	    return err
//	}
//
//	deriver := dataprocessing.NewDeriver(logger)
//	augmented, err := deriver.AddFeatures(table)
//
// # Error Handling
//
// Failures split into two tiers: an unreadable or non-tabular source file
// (or one lacking the date column) is a fatal, wrapped error; a per-row
// value outside the expected vocabulary always resolves to an explicit
// "unknown" category or a missing numeric value, optionally logged, and can
// never abort processing of the rest of the table.
package dataprocessing
