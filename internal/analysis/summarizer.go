package analysis

import (
	"context"
	"time"

	"corrplot/domain/dataset"
	"corrplot/domain/stats"
	"corrplot/internal"
	"corrplot/internal/metrics"
)

// Summary is a regression over one axis selection of a dataset
type Summary struct {
	Selection  dataset.Selection      `json:"selection" yaml:"selection"`
	Result     stats.RegressionResult `json:"result" yaml:"result"`
	Report     Report                 `json:"report" yaml:"report"`
	Predicted  []float64              `json:"predicted" yaml:"-"`
	Dropped    int                    `json:"dropped" yaml:"dropped"`
	ComputedAt time.Time              `json:"computed_at" yaml:"computed_at"`

	Pairs *dataset.Pairs `json:"-" yaml:"-"`
}

// Summarizer runs selection, pair extraction and the regression fit
type Summarizer struct {
	logger *internal.Logger
}

// NewSummarizer creates a summarizer logging under the analysis component
func NewSummarizer() *Summarizer {
	return &Summarizer{logger: internal.DefaultLogger.Component("Summarizer")}
}

// Summarize fits y on x for the selection and records the attempt in the
// fit metrics. Any error means no result: the caller keeps whatever it
// showed before.
func (s *Summarizer) Summarize(ctx context.Context, ds *dataset.Dataset, sel dataset.Selection) (summary *Summary, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordFit(time.Since(start).Seconds(), err)
	}()
	return s.Refit(ctx, ds, sel)
}

// Refit is Summarize without the fit metrics. Derived views such as charts
// use it to recompute a fit that Summarize already counted.
func (s *Summarizer) Refit(ctx context.Context, ds *dataset.Dataset, sel dataset.Selection) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel = sel.Normalized()
	pairs, err := ds.Pairs(sel)
	if err != nil {
		s.logger.Debug("selection rejected", "x", sel.X, "y", sel.Y, "error", err)
		return nil, err
	}

	fit, err := Regress(pairs.X, pairs.Y)
	if err != nil {
		s.logger.Debug("fit rejected", "x", sel.X, "y", sel.Y, "n", pairs.Len(), "error", err)
		return nil, err
	}

	s.logger.Info("regression computed",
		"dataset", ds.Name,
		"x", sel.X,
		"y", sel.Y,
		"n", fit.Result.SampleSize,
		"dropped", pairs.Dropped,
		"slope", fit.Result.Slope,
		"r", fit.Result.Correlation,
		"p", fit.Result.PValue)

	return &Summary{
		Selection:  sel,
		Result:     fit.Result,
		Report:     NewReport(fit.Result),
		Predicted:  fit.Predicted,
		Dropped:    pairs.Dropped,
		ComputedAt: time.Now().UTC(),
		Pairs:      pairs,
	}, nil
}
