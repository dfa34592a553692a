package coercer

import (
	"math"
	"strconv"
	"strings"

	"corrplot/domain/dataset"
)

// TypeCoercer turns raw cell text into typed columns with deterministic rules
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing values that must parse as numbers
	MissingTokens    []string `json:"missing_tokens"`    // cell contents treated as missing
}

// DefaultCoercionConfig returns the strict defaults used for uploads: a column
// is numeric only if every non-missing cell parses as a finite number.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		MissingTokens:    []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "-"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a cell counts as a missing value
func (c *TypeCoercer) IsMissing(cell string) bool {
	return c.missing[strings.TrimSpace(cell)]
}

// ParseNumeric parses a cell as a finite float
func (c *TypeCoercer) ParseNumeric(cell string) (float64, bool) {
	clean := strings.TrimSpace(cell)
	if clean == "" || c.missing[clean] {
		return 0, false
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedKind dataset.ColumnKind `json:"recommended_kind"`
}

// AnalyzeTypeDistribution decides the kind of a column from its cells
func (c *TypeCoercer) AnalyzeTypeDistribution(cells []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount:      len(cells),
		RecommendedKind: dataset.KindCategorical,
	}

	for _, cell := range cells {
		if c.IsMissing(cell) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(cell); ok {
			analysis.NumericCount++
		}
	}

	if analysis.ValidCount == 0 {
		return analysis
	}

	analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	if analysis.NumericRatio >= c.config.NumericThreshold {
		analysis.RecommendedKind = dataset.KindNumeric
	}
	return analysis
}

// CoerceColumn classifies raw cells into a dataset column. Cells that are
// missing or do not parse become NaN in Values.
func (c *TypeCoercer) CoerceColumn(name string, cells []string) *dataset.Column {
	analysis := c.AnalyzeTypeDistribution(cells)

	col := &dataset.Column{
		Name:   name,
		Kind:   analysis.RecommendedKind,
		Raw:    cells,
		Values: make([]float64, len(cells)),
	}

	for i, cell := range cells {
		if c.IsMissing(cell) {
			col.Missing++
			col.Values[i] = math.NaN()
			continue
		}
		if v, ok := c.ParseNumeric(cell); ok {
			col.Values[i] = v
		} else {
			col.Values[i] = math.NaN()
		}
	}

	return col
}
