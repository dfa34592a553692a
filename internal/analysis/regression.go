package analysis

import (
	"fmt"
	"math"

	"corrplot/domain/core"
	domainstats "corrplot/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Regress fits y = slope*x + intercept by ordinary least squares and reports
// Pearson's r with the two-sided p-value for a zero slope. x and y must be
// the same length, hold at least two observations and contain no missing values.
func Regress(x, y []float64) (*domainstats.Fit, error) {
	if len(x) != len(y) {
		return nil, core.NewLengthMismatchError(len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, core.NewInsufficientDataError(n)
	}

	minX, _ := stats.Min(x)
	maxX, _ := stats.Max(x)
	if minX == maxX {
		return nil, fmt.Errorf("%w (x = %g in all %d rows)", core.ErrDegenerateInput, minX, n)
	}

	meanX, _ := stats.Mean(x)
	meanY, _ := stats.Mean(y)

	var sxx, syy, sumX2 float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		sxx += dx * dx
		syy += dy * dy
		sumX2 += x[i] * x[i]
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	// Pearson returns 0 when y has no spread
	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) {
		r = 0
	}
	r = clamp(r, -1, 1)

	df := n - 2
	result := domainstats.RegressionResult{
		Slope:            slope,
		Intercept:        intercept,
		Correlation:      r,
		PValue:           CorrelationPValue(r, n),
		SampleSize:       n,
		DegreesOfFreedom: df,
		RSquared:         r * r,
	}
	if df > 0 {
		unexplained := math.Max(0, 1-r*r)
		result.SlopeStdErr = math.Sqrt(unexplained * syy / sxx / float64(df))
		result.InterceptStdErr = result.SlopeStdErr * math.Sqrt(sumX2/float64(n))
	}

	predicted := make([]float64, n)
	for i, xi := range x {
		predicted[i] = result.Predict(xi)
	}

	// magnitudes near the float64 limit overflow the sums
	if !allFinite(result.Slope, result.Intercept, result.Correlation, result.PValue,
		result.SlopeStdErr, result.InterceptStdErr) || !allFinite(predicted...) {
		return nil, fmt.Errorf("%w (values overflow the fit)", core.ErrDegenerateInput)
	}

	return &domainstats.Fit{Result: result, Predicted: predicted}, nil
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
