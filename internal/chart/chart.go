package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal"
	"corrplot/internal/analysis"
	"corrplot/internal/metrics"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image format
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// RegressionLineName labels the fitted line in the legend
const RegressionLineName = "regression line"

const missingGroupLabel = "(missing)"

// ParseFormat accepts "svg" or "png" in any case, or a filename with one of
// those extensions
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	switch Format(s) {
	case FormatSVG, FormatPNG:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported chart format %q (want svg or png)", s)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Options controls the rendered image size in pixels
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns a 600x600 canvas
func DefaultOptions() Options {
	return Options{Width: 600, Height: 600}
}

// Renderer draws the scatter and regression line for a summary
type Renderer struct {
	opts   Options
	logger *internal.Logger
}

// NewRenderer creates a renderer. Zero sizes fall back to the defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	return &Renderer{opts: opts, logger: internal.DefaultLogger.Component("ChartRenderer")}
}

// Options returns the effective canvas size
func (r *Renderer) Options() Options {
	return r.opts
}

// Render writes the chart for summary to w. The image is fully rendered
// before anything is written, so a failure never leaves a partial image.
func (r *Renderer) Render(w io.Writer, format Format, summary *analysis.Summary) (err error) {
	defer func() {
		metrics.RecordChartRender(string(format), err)
	}()

	ch, err := r.Build(summary)
	if err != nil {
		return err
	}

	var provider gochart.RendererProvider
	switch format {
	case FormatSVG:
		provider = gochart.SVG
	case FormatPNG:
		provider = gochart.PNG
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}

	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		r.logger.Warn("chart render failed", "format", format, "title", ch.Title, "error", err)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	r.logger.Debug("chart rendered", "format", format, "title", ch.Title, "bytes", buf.Len())

	_, err = buf.WriteTo(w)
	return err
}

// Build assembles the chart: one dot series per group (or a single series),
// then the regression line across the observed x range
func (r *Renderer) Build(summary *analysis.Summary) (gochart.Chart, error) {
	if summary == nil || summary.Pairs == nil || summary.Pairs.Len() == 0 {
		return gochart.Chart{}, core.NewInsufficientDataError(0)
	}
	sel := summary.Selection.Normalized()
	pairs := summary.Pairs

	series := scatterSeries(sel, pairs)

	minX, maxX := bounds(pairs.X)
	series = append(series, gochart.ContinuousSeries{
		Name:    RegressionLineName,
		XValues: []float64{minX, maxX},
		YValues: []float64{summary.Result.Predict(minX), summary.Result.Predict(maxX)},
		Style: gochart.Style{
			StrokeColor: drawing.ColorRed,
			StrokeWidth: 2,
		},
	})

	minY, maxY := bounds(pairs.Y)
	for _, y := range []float64{summary.Result.Predict(minX), summary.Result.Predict(maxX)} {
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	ch := gochart.Chart{
		Title:  fmt.Sprintf("%s vs %s", sel.X, sel.Y),
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  gochart.XAxis{Name: sel.X, Range: paddedRange(minX, maxX)},
		YAxis:  gochart.YAxis{Name: sel.Y, Range: paddedRange(minY, maxY)},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch, nil
}

func scatterSeries(sel dataset.Selection, pairs *dataset.Pairs) []gochart.Series {
	if pairs.Groups == nil {
		return []gochart.Series{gochart.ContinuousSeries{
			Name:    sel.Y,
			XValues: pairs.X,
			YValues: pairs.Y,
			Style:   pointStyle(gochart.GetDefaultColor(0), sel.MarkerSize),
		}}
	}

	// groups keep their order of first appearance
	var order []string
	index := make(map[string]int)
	var xs, ys [][]float64
	for i := range pairs.X {
		g := pairs.Groups[i]
		if g == "" {
			g = missingGroupLabel
		}
		k, ok := index[g]
		if !ok {
			k = len(order)
			index[g] = k
			order = append(order, g)
			xs = append(xs, nil)
			ys = append(ys, nil)
		}
		xs[k] = append(xs[k], pairs.X[i])
		ys[k] = append(ys[k], pairs.Y[i])
	}

	series := make([]gochart.Series, len(order))
	for k, name := range order {
		series[k] = gochart.ContinuousSeries{
			Name:    fmt.Sprintf("%s = %s", sel.Group, name),
			XValues: xs[k],
			YValues: ys[k],
			Style:   pointStyle(gochart.GetDefaultColor(k), sel.MarkerSize),
		}
	}
	return series
}

// pointStyle renders dots only. size is the marker diameter.
func pointStyle(col drawing.Color, size int) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    float64(size) / 2,
		DotColor:    col,
	}
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange widens the range by 5% on each side. A zero-width range is
// opened up around its value since the chart cannot scale a point.
func paddedRange(lo, hi float64) *gochart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(lo)*0.1, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
