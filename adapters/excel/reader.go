package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"corrplot/adapters/datareadiness/coercer"
	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV uploads into datasets
type DataReader struct {
	name     string
	fileType dataset.SourceFormat
	tsv      bool
	config   ExcelConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// SupportedExtensions lists the file extensions NewDataReader accepts
var SupportedExtensions = []string{".csv", ".tsv", ".xlsx"}

// IsSupported reports whether the filename has a readable extension
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NewDataReader creates a reader for the named upload. The format is chosen
// from the extension; anything other than .xlsx is read as delimited text.
func NewDataReader(name string, config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(name))
	fileType := dataset.FormatCSV
	if ext == ".xlsx" {
		fileType = dataset.FormatXLSX
	}
	return &DataReader{
		name:     filepath.Base(name),
		fileType: fileType,
		tsv:      ext == ".tsv",
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   internal.DefaultLogger.Component("DataReader"),
	}
}

// Format returns the source format the reader will parse
func (r *DataReader) Format() dataset.SourceFormat {
	return r.fileType
}

// ReadFile opens path and reads it as a dataset
func (r *DataReader) ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapIngestionError(r.name, err)
	}
	defer f.Close()
	return r.ReadFrom(f)
}

// ReadFrom reads the whole payload, fingerprints it and parses it into a dataset
func (r *DataReader) ReadFrom(src io.Reader) (*dataset.Dataset, error) {
	start := time.Now()

	if r.config.MaxBytes > 0 {
		src = io.LimitReader(src, r.config.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, core.WrapIngestionError(r.name, err)
	}
	if r.config.MaxBytes > 0 && int64(len(data)) > r.config.MaxBytes {
		return nil, core.NewIngestionError(r.name, fmt.Sprintf("file exceeds the %.1f MB limit", float64(r.config.MaxBytes)/(1024*1024)))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.NewIngestionError(r.name, "file is empty")
	}

	var table *ExcelData
	switch r.fileType {
	case dataset.FormatXLSX:
		table, err = r.readExcelData(data)
	default:
		table, err = r.readCSVData(data)
	}
	if err != nil {
		return nil, err
	}

	ds, err := r.toDataset(table, core.NewHash(data))
	if err != nil {
		return nil, err
	}

	r.logger.Info("dataset loaded",
		"file", r.name,
		"format", r.fileType,
		"columns", len(table.Headers),
		"rows", ds.Rows,
		"fingerprint", ds.Fingerprint,
		"elapsed_ms", float64(time.Since(start).Microseconds())/1000)
	return ds, nil
}

// readExcelData reads the configured (or first) sheet of a workbook
func (r *DataReader) readExcelData(data []byte) (*ExcelData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, core.WrapIngestionError(r.name, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewIngestionError(r.name, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// raw values, so number formats such as "#,##0.00" or "0%" still parse
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.WrapIngestionError(r.name, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("sheet read", "sheet", sheet, "rows", len(rows))

	// excelize trims trailing empty cells, so short rows are padded
	return r.processRows(rows, true)
}

// readCSVData parses delimited text with a header row
func (r *DataReader) readCSVData(data []byte) (*ExcelData, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = r.detectDelimiter(data)
	reader.FieldsPerRecord = 0

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.WrapIngestionError(r.name, fmt.Errorf("malformed CSV: %w", err))
	}
	r.logger.Debug("csv read", "rows", len(rows), "delimiter", string(reader.Comma))

	return r.processRows(rows, false)
}

// detectDelimiter picks the most frequent of ',', ';' and tab in the header
// line. Characters inside quoted fields are not counted.
func (r *DataReader) detectDelimiter(data []byte) rune {
	if r.tsv {
		return '\t'
	}

	counts := map[rune]int{}
	inQuotes := false
	for _, b := range data {
		if b == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if b == '\n' {
			break
		}
		switch b {
		case ',', ';', '\t':
			counts[rune(b)]++
		}
	}

	best, bestCount := ',', counts[',']
	for _, d := range []rune{';', '\t'} {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// processRows splits off the header and normalizes data rows. Fully empty rows are skipped.
func (r *DataReader) processRows(rows [][]string, pad bool) (*ExcelData, error) {
	if len(rows) == 0 {
		return nil, core.NewIngestionError(r.name, "file is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) == 0 {
		return nil, core.NewIngestionError(r.name, "header row is empty")
	}

	out := &ExcelData{Headers: headers}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(headers) {
			return nil, core.NewIngestionError(r.name, fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), len(headers)))
		}
		if len(row) < len(headers) {
			if !pad {
				return nil, core.NewIngestionError(r.name, fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), len(headers)))
			}
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		out.Rows = append(out.Rows, cells)
	}

	if len(out.Rows) == 0 {
		return nil, core.NewIngestionError(r.name, "file must have a header row and at least one data row")
	}
	return out, nil
}

// toDataset classifies every column and assembles the dataset
func (r *DataReader) toDataset(table *ExcelData, fingerprint core.Hash) (*dataset.Dataset, error) {
	columns := make([]*dataset.Column, len(table.Headers))
	for c, header := range table.Headers {
		cells := make([]string, len(table.Rows))
		for i, row := range table.Rows {
			cells[i] = row[c]
		}
		columns[c] = r.coercer.CoerceColumn(header, cells)
		r.logger.Trace("column classified", "column", header, "kind", columns[c].Kind, "missing", columns[c].Missing)
	}
	return dataset.New(r.name, r.fileType, fingerprint, columns)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
