package domain

import (
	"fmt"
	"time"
)

// Kind identifies the value type a Series holds.
type Kind int

const (
	KindString Kind = iota
	KindTime
	KindFloat
	KindBool
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Series is a single named column of uniform type. Exactly one of the typed
// slices is populated, selected by Kind. Time and Float series carry a Valid
// mask so a missing value is representable without a sentinel in the data
// slice itself; for String and Bool series Valid is nil and every row counts
// as present.
type Series struct {
	Name    string
	Kind    Kind
	Strings []string
	Times   []time.Time
	Floats  []float64
	Bools   []bool
	Valid   []bool
}

// NewStringSeries creates a string column.
func NewStringSeries(name string, values []string) Series {
	return Series{Name: name, Kind: KindString, Strings: values}
}

// NewTimeSeries creates a timestamp column. valid marks which rows hold a
// real timestamp; rows with valid[i] == false must carry the zero time.
func NewTimeSeries(name string, values []time.Time, valid []bool) Series {
	return Series{Name: name, Kind: KindTime, Times: values, Valid: valid}
}

// NewFloatSeries creates a numeric column with an explicit missing mask.
func NewFloatSeries(name string, values []float64, valid []bool) Series {
	return Series{Name: name, Kind: KindFloat, Floats: values, Valid: valid}
}

// NewBoolSeries creates a boolean column.
func NewBoolSeries(name string, values []bool) Series {
	return Series{Name: name, Kind: KindBool, Bools: values}
}

// Len returns the number of rows in the series.
func (s Series) Len() int {
	switch s.Kind {
	case KindString:
		return len(s.Strings)
	case KindTime:
		return len(s.Times)
	case KindFloat:
		return len(s.Floats)
	case KindBool:
		return len(s.Bools)
	default:
		return 0
	}
}

// IsValid reports whether row i holds a present value. Out-of-range rows
// report false.
func (s Series) IsValid(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	if s.Valid == nil {
		return true
	}
	return s.Valid[i]
}

// clone deep-copies the series so the caller can append columns without
// aliasing the source table's backing arrays.
func (s Series) clone() Series {
	out := Series{Name: s.Name, Kind: s.Kind}
	if s.Strings != nil {
		out.Strings = append([]string(nil), s.Strings...)
	}
	if s.Times != nil {
		out.Times = append([]time.Time(nil), s.Times...)
	}
	if s.Floats != nil {
		out.Floats = append([]float64(nil), s.Floats...)
	}
	if s.Bools != nil {
		out.Bools = append([]bool(nil), s.Bools...)
	}
	if s.Valid != nil {
		out.Valid = append([]bool(nil), s.Valid...)
	}
	return out
}

// Table is an ordered collection of equal-length series with unique names.
// Row order is preserved by every operation but carries no meaning to the
// transformations built on top of it.
type Table struct {
	series []Series
	index  map[string]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Len returns the number of rows. An empty table has zero rows.
func (t *Table) Len() int {
	if len(t.series) == 0 {
		return 0
	}
	return t.series[0].Len()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.series)
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, len(t.series))
	for i, s := range t.series {
		names[i] = s.Name
	}
	return names
}

// Column returns the series with the given name.
func (t *Table) Column(name string) (Series, bool) {
	i, ok := t.index[name]
	if !ok {
		return Series{}, false
	}
	return t.series[i], true
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddSeries appends a column. The series must not duplicate an existing name
// and, unless the table is empty, must match the table's row count.
func (t *Table) AddSeries(s Series) error {
	if s.Name == "" {
		return fmt.Errorf("series name must not be empty")
	}
	if _, exists := t.index[s.Name]; exists {
		return fmt.Errorf("duplicate column %q", s.Name)
	}
	if len(t.series) > 0 && s.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d", s.Name, s.Len(), t.Len())
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[s.Name] = len(t.series)
	t.series = append(t.series, s)
	return nil
}

// SetSeries appends a column, replacing any existing column of the same name
// in place. Length rules match AddSeries.
func (t *Table) SetSeries(s Series) error {
	if s.Name == "" {
		return fmt.Errorf("series name must not be empty")
	}
	i, exists := t.index[s.Name]
	if !exists {
		return t.AddSeries(s)
	}
	if s.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d", s.Name, s.Len(), t.Len())
	}
	t.series[i] = s
	return nil
}

// Clone returns a deep copy of the table. Mutating the copy (or adding
// columns to it) never affects the original.
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, s := range t.series {
		// AddSeries cannot fail here: names and lengths were checked on entry.
		_ = out.AddSeries(s.clone())
	}
	return out
}
