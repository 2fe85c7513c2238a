// Package exporter writes augmented tables back out as CSV for downstream
// collaborators that read files instead of the in-memory table.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"shelterprep/pkg/contracts/domain"
)

// DefaultTimeLayout is how timestamp cells are rendered unless overridden.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// CSVWriter provides CSV export for domain tables.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer. A nil logger falls back to
// slog.Default().
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix prepends a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
	// TimeLayout formats timestamp cells. Defaults to DefaultTimeLayout.
	TimeLayout string
}

// WriteTable writes the table to filePath: one header row of column names,
// then one row per table row. Missing timestamps and missing numeric values
// render as empty cells.
func (w *CSVWriter) WriteTable(filePath string, t *domain.Table, options WriteOptions) error {
	layout := options.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	w.logger.Info("writing csv file",
		slog.String("path", filePath),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.NumColumns()))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	names := t.Names()
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(names))
	for row := 0; row < t.Len(); row++ {
		for col, name := range names {
			s, _ := t.Column(name)
			record[col] = formatCell(s, row, layout)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filePath, err)
	}
	return nil
}

// formatCell renders one cell of a series as CSV text.
func formatCell(s domain.Series, row int, layout string) string {
	switch s.Kind {
	case domain.KindString:
		return s.Strings[row]
	case domain.KindTime:
		if !s.IsValid(row) {
			return ""
		}
		return s.Times[row].Format(layout)
	case domain.KindFloat:
		if !s.IsValid(row) {
			return ""
		}
		return strconv.FormatFloat(s.Floats[row], 'f', -1, 64)
	case domain.KindBool:
		return strconv.FormatBool(s.Bools[row])
	default:
		return ""
	}
}
