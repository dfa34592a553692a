package excel

import (
	"corrplot/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for reading uploaded tables
type ExcelConfig struct {
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
	MaxBytes       int64                  `json:"max_bytes"`  // 0 means unlimited
	SheetName      string                 `json:"sheet_name"` // empty means the first sheet
}

// DefaultMaxBytes is the upload size limit (50MB)
const DefaultMaxBytes = 50 * 1024 * 1024

// DefaultExcelConfig returns sensible defaults for table processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
		MaxBytes:       DefaultMaxBytes,
	}
}
