package excel

// ExcelData represents a parsed table before column classification
type ExcelData struct {
	Headers []string   // Column headers, trimmed
	Rows    [][]string // Data rows, each exactly len(Headers) cells
}
