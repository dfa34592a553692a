package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"corrplot/domain/core"
)

// ColumnKind classifies a column for regression purposes
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// SourceFormat is the file format a dataset was ingested from
type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
)

// Marker size bounds for the scatter plot
const (
	MinMarkerSize     = 5
	MaxMarkerSize     = 20
	DefaultMarkerSize = 10
)

// Column is one named, row-aligned sequence of cells.
// Values holds the parsed number for every row; missing or unparseable cells are NaN.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Raw     []string   `json:"-"`
	Values  []float64  `json:"-"`
	Missing int        `json:"missing"`
}

// IsNumeric reports whether the column can be used as a regression axis
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	return len(c.Raw)
}

// Dataset is an immutable, in-memory table loaded from one upload
type Dataset struct {
	Name        string       `json:"name"`
	Format      SourceFormat `json:"format"`
	Fingerprint core.Hash    `json:"fingerprint"`
	Rows        int          `json:"rows"`
	LoadedAt    time.Time    `json:"loaded_at"`

	columns []*Column
	index   map[string]int
}

// New assembles a dataset from already-classified columns.
// Column names must be non-blank and unique; all columns must have the same length.
func New(name string, format SourceFormat, fingerprint core.Hash, columns []*Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.NewIngestionError(name, "no columns found")
	}

	index := make(map[string]int, len(columns))
	rows := columns[0].Len()
	for i, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, core.NewIngestionError(name, fmt.Sprintf("column %d has a blank header", i+1))
		}
		if _, dup := index[col.Name]; dup {
			return nil, core.NewIngestionError(name, fmt.Sprintf("duplicate column name %q", col.Name))
		}
		if col.Len() != rows || len(col.Values) != rows {
			return nil, core.NewIngestionError(name, fmt.Sprintf("column %q has %d rows, expected %d", col.Name, col.Len(), rows))
		}
		index[col.Name] = i
	}

	return &Dataset{
		Name:        name,
		Format:      format,
		Fingerprint: fingerprint,
		Rows:        rows,
		LoadedAt:    time.Now().UTC(),
		columns:     columns,
		index:       index,
	}, nil
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, error) {
	if name == "" {
		return nil, core.NewColumnSelectionError(name, "is not selected")
	}
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewColumnSelectionError(name, "does not exist in "+d.Name)
	}
	return d.columns[i], nil
}

// Columns returns the columns in file order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns column names in file order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumnNames returns the names of columns usable as regression axes
func (d *Dataset) NumericColumnNames() []string {
	var names []string
	for _, c := range d.columns {
		if c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Preview returns up to n rows of raw cells in column order
func (d *Dataset) Preview(n int) [][]string {
	if n > d.Rows || n < 0 {
		n = d.Rows
	}
	rows := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.columns))
		for c, col := range d.columns {
			row[c] = col.Raw[r]
		}
		rows[r] = row
	}
	return rows
}

// Summary describes the dataset for the UI and API
type Summary struct {
	Name        string       `json:"name"`
	Format      SourceFormat `json:"format"`
	Fingerprint string       `json:"fingerprint"`
	Rows        int          `json:"rows"`
	Columns     []Column     `json:"columns"`
	Preview     [][]string   `json:"preview"`
}

// Summarize builds a Summary with at most previewRows preview rows
func (d *Dataset) Summarize(previewRows int) Summary {
	cols := make([]Column, len(d.columns))
	for i, c := range d.columns {
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Missing: c.Missing}
	}
	return Summary{
		Name:        d.Name,
		Format:      d.Format,
		Fingerprint: d.Fingerprint.String(),
		Rows:        d.Rows,
		Columns:     cols,
		Preview:     d.Preview(previewRows),
	}
}

// Selection names the columns a regression and its chart are drawn from
type Selection struct {
	X          string `json:"x" form:"x" yaml:"x"`
	Y          string `json:"y" form:"y" yaml:"y"`
	Group      string `json:"group,omitempty" form:"group" yaml:"group,omitempty"`
	MarkerSize int    `json:"marker_size,omitempty" form:"size" yaml:"marker_size,omitempty"`
}

// Normalized returns the selection with names trimmed and the marker size
// defaulted and clamped to [MinMarkerSize, MaxMarkerSize]
func (s Selection) Normalized() Selection {
	s.X = strings.TrimSpace(s.X)
	s.Y = strings.TrimSpace(s.Y)
	s.Group = strings.TrimSpace(s.Group)
	switch {
	case s.MarkerSize == 0:
		s.MarkerSize = DefaultMarkerSize
	case s.MarkerSize < MinMarkerSize:
		s.MarkerSize = MinMarkerSize
	case s.MarkerSize > MaxMarkerSize:
		s.MarkerSize = MaxMarkerSize
	}
	return s
}

// Pairs holds the complete (x, y) observations extracted for a selection
type Pairs struct {
	X       []float64
	Y       []float64
	Groups  []string // nil unless a group column was selected
	Rows    []int    // source row index of each observation
	Dropped int      // rows skipped because x or y was missing
}

// Len returns the number of complete observations
func (p *Pairs) Len() int {
	return len(p.X)
}

// Pairs resolves a selection against the dataset. Both axes must exist and be
// numeric; rows where either axis is missing are dropped.
func (d *Dataset) Pairs(sel Selection) (*Pairs, error) {
	sel = sel.Normalized()

	xCol, err := d.Column(sel.X)
	if err != nil {
		return nil, err
	}
	yCol, err := d.Column(sel.Y)
	if err != nil {
		return nil, err
	}

	var groupCol *Column
	if sel.Group != "" {
		if groupCol, err = d.Column(sel.Group); err != nil {
			return nil, err
		}
	}

	if !xCol.IsNumeric() {
		return nil, core.NewTypeMismatchError(xCol.Name, string(xCol.Kind))
	}
	if !yCol.IsNumeric() {
		return nil, core.NewTypeMismatchError(yCol.Name, string(yCol.Kind))
	}

	p := &Pairs{
		X:    make([]float64, 0, d.Rows),
		Y:    make([]float64, 0, d.Rows),
		Rows: make([]int, 0, d.Rows),
	}
	if groupCol != nil {
		p.Groups = make([]string, 0, d.Rows)
	}

	for i := 0; i < d.Rows; i++ {
		x, y := xCol.Values[i], yCol.Values[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			p.Dropped++
			continue
		}
		p.X = append(p.X, x)
		p.Y = append(p.Y, y)
		p.Rows = append(p.Rows, i)
		if groupCol != nil {
			p.Groups = append(p.Groups, groupCol.Raw[i])
		}
	}

	return p, nil
}
