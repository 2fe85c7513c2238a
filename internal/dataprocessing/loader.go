package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"shelterprep/pkg/contracts/domain"
)

// MissingSentinel is the literal substituted for every empty cell at load
// time. Downstream rules key their "unknown" classifications off it.
const MissingSentinel = "Unknown"

// timeLayouts are tried in order when parsing the date column. The provider
// exports "2014-02-12 18:22:00"; the rest cover common re-exports.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
}

// LoadOptions controls how a source file is interpreted.
type LoadOptions struct {
	// DateColumn is the source header (pre-normalization) of the column
	// parsed as a timestamp. Defaults to "DateTime".
	DateColumn string
	// Sheet selects the workbook sheet for XLSX sources. Defaults to the
	// first sheet.
	Sheet string
}

// Loader reads a delimited source into a domain.Table, normalizing column
// names and filling missing cells with the Unknown sentinel.
type Loader struct {
	logger *slog.Logger
	opts   LoadOptions
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger, opts LoadOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DateColumn == "" {
		opts.DateColumn = "DateTime"
	}
	return &Loader{logger: logger, opts: opts}
}

// LoadCSV reads a comma-delimited file with a header row. Unreadable or
// malformed files (ragged rows, missing header, missing date column) are
// fatal; per-cell oddities never are.
func (l *Loader) LoadCSV(path string) (*domain.Table, error) {
	l.logger.Info("reading data", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: no header row", path)
	}

	table, err := l.buildTable(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.logger.Info("read rows", slog.Int("rows", table.Len()))
	return table, nil
}

// LoadWorkbook reads the same table shape from an XLSX workbook. Short rows
// are padded so trailing empty cells still receive the sentinel.
func (l *Loader) LoadWorkbook(path string) (*domain.Table, error) {
	l.logger.Info("reading data", slog.String("path", path))

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read sheet %q of %s: no header row", sheet, path)
	}

	header := rows[0]
	data := make([][]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		data[i] = row[:len(header)]
	}

	table, err := l.buildTable(header, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.logger.Info("read rows", slog.Int("rows", table.Len()))
	return table, nil
}

// buildTable assembles the normalized, sentinel-filled table from a header
// and its data rows. Exactly one column, the configured date column, is
// typed as timestamps; everything else stays a string column.
func (l *Loader) buildTable(header []string, rows [][]string) (*domain.Table, error) {
	dateCol := NormalizeColumnName(l.opts.DateColumn)

	table := domain.NewTable()
	seenDate := false

	for col, rawName := range header {
		name := NormalizeColumnName(rawName)

		if name == dateCol {
			seenDate = true
			times := make([]time.Time, len(rows))
			valid := make([]bool, len(rows))
			for i, row := range rows {
				times[i], valid[i] = l.parseTime(row[col], i)
			}
			if err := table.AddSeries(domain.NewTimeSeries(name, times, valid)); err != nil {
				return nil, err
			}
			continue
		}

		values := make([]string, len(rows))
		for i, row := range rows {
			if row[col] == "" {
				values[i] = MissingSentinel
			} else {
				values[i] = row[col]
			}
		}
		if err := table.AddSeries(domain.NewStringSeries(name, values)); err != nil {
			return nil, err
		}
	}

	if !seenDate {
		return nil, fmt.Errorf("date column %q not found (headers: %v)", dateCol, table.Names())
	}
	return table, nil
}

// parseTime tries the known layouts. A cell that is empty or matches none of
// them yields the zero time with the validity mask cleared; the row survives.
func (l *Loader) parseTime(cell string, row int) (time.Time, bool) {
	if cell == "" || cell == MissingSentinel {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, true
		}
	}
	l.logger.Warn("unparseable timestamp",
		slog.Int("row", row),
		slog.String("value", cell))
	return time.Time{}, false
}
