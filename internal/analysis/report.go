package analysis

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"corrplot/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	verdictSignificant    = "significant (p < 0.05)"
	verdictNotSignificant = "not significant (p ≥ 0.05)"
)

// Report is the fixed four-line summary of a regression result
type Report struct {
	Equation     string `json:"equation" yaml:"equation"`
	Correlation  string `json:"correlation" yaml:"correlation"`
	PValue       string `json:"p_value" yaml:"p_value"`
	Significance string `json:"significance" yaml:"significance"`
	Significant  bool   `json:"significant" yaml:"significant"`
}

// NewReport formats a result into report lines. Slope, intercept and r are
// rounded to two decimals, the p-value to four.
func NewReport(r stats.RegressionResult) Report {
	verdict := verdictNotSignificant
	if r.IsSignificant() {
		verdict = verdictSignificant
	}
	return Report{
		Equation:     fmt.Sprintf("regression equation: y = %sx + %s", fixed(r.Slope, 2), fixed(r.Intercept, 2)),
		Correlation:  fmt.Sprintf("correlation (R): %s", fixed(r.Correlation, 2)),
		PValue:       fmt.Sprintf("p-value: %s", fixed(r.PValue, 4)),
		Significance: fmt.Sprintf("significance: %s", verdict),
		Significant:  r.IsSignificant(),
	}
}

// Lines returns the report in display order
func (r Report) Lines() []string {
	return []string{r.Equation, r.Correlation, r.PValue, r.Significance}
}

// Text renders the report as newline separated plain text
func (r Report) Text() string {
	return strings.Join(r.Lines(), "\n")
}

// Markdown renders the report with one hard line break per line
func (r Report) Markdown() string {
	var b strings.Builder
	for i, line := range r.Lines() {
		label, value, _ := strings.Cut(line, ": ")
		fmt.Fprintf(&b, "**%s:** %s", label, value)
		if i < 3 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders the Markdown form
func (r Report) HTML() string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.HrefTargetBlank})
	out := markdown.ToHTML([]byte(r.Markdown()), p, renderer)
	return string(bytes.TrimSpace(out))
}

// fixed formats v with prec decimals and drops the sign of a rounded zero
func fixed(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}
