package analysis

import (
	"errors"
	"math"
	"testing"

	"corrplot/domain/core"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressPerfectLine(t *testing.T) {
	fit, err := Regress([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})
	require.NoError(t, err)

	r := fit.Result
	assert.InDelta(t, 2.0, r.Slope, 1e-12)
	assert.InDelta(t, 0.0, r.Intercept, 1e-12)
	assert.InDelta(t, 1.0, r.Correlation, 1e-12)
	assert.InDelta(t, 0.0, r.PValue, 1e-9)
	assert.Equal(t, 5, r.SampleSize)
	assert.Equal(t, 3, r.DegreesOfFreedom)
	assert.True(t, r.IsSignificant())
	assert.InDeltaSlice(t, []float64{2, 4, 6, 8, 10}, fit.Predicted, 1e-9)
}

func TestRegressKnownValues(t *testing.T) {
	fit, err := Regress([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 4, 5})
	require.NoError(t, err)

	r := fit.Result
	assert.InDelta(t, 0.6, r.Slope, 1e-12)
	assert.InDelta(t, 2.2, r.Intercept, 1e-12)
	assert.InDelta(t, 6/math.Sqrt(60), r.Correlation, 1e-12)
	assert.InDelta(t, 0.6, r.RSquared, 1e-12)
	assert.InDelta(t, 0.12403, r.PValue, 1e-4)
	assert.InDelta(t, math.Sqrt(0.08), r.SlopeStdErr, 1e-9)
	assert.InDelta(t, math.Sqrt(0.08)*math.Sqrt(11), r.InterceptStdErr, 1e-9)
	assert.False(t, r.IsSignificant())
}

func TestRegressNegativeSlope(t *testing.T) {
	fit, err := Regress([]float64{0, 1, 2, 3}, []float64{3, 2, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, fit.Result.Slope, 1e-12)
	assert.InDelta(t, -1.0, fit.Result.Correlation, 1e-12)
	assert.GreaterOrEqual(t, fit.Result.Correlation, -1.0)
	assert.InDelta(t, 0.0, fit.Result.PValue, 1e-9)
}

func TestRegressErrors(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want error
	}{
		{"constant x", []float64{3, 3, 3, 3}, []float64{1, 2, 3, 4}, core.ErrDegenerateInput},
		{"constant fractional x", []float64{0.1, 0.1, 0.1}, []float64{1, 2, 3}, core.ErrDegenerateInput},
		{"x overflows", []float64{1e308, 1.5e308, 1.7e308}, []float64{1, 2, 3}, core.ErrDegenerateInput},
		{"x overflows with opposite signs", []float64{-1.7e308, 1.7e308, 1.6e308}, []float64{1, 2, 3}, core.ErrDegenerateInput},
		{"single point", []float64{1}, []float64{2}, core.ErrInsufficientData},
		{"empty", nil, nil, core.ErrInsufficientData},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, core.ErrInsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := Regress(tt.x, tt.y)
			require.Error(t, err)
			assert.Nil(t, fit)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRegressTwoPoints(t *testing.T) {
	fit, err := Regress([]float64{1, 2}, []float64{3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Result.Slope, 1e-12)
	assert.InDelta(t, 1.0, fit.Result.Correlation, 1e-12)
	assert.Equal(t, 0.0, fit.Result.PValue)
	assert.Equal(t, 0.0, fit.Result.SlopeStdErr)
	assert.Equal(t, 0.0, fit.Result.InterceptStdErr)

	fit, err = Regress([]float64{1, 2}, []float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, fit.Result.Slope)
	assert.Equal(t, 0.0, fit.Result.Correlation)
	assert.Equal(t, 1.0, fit.Result.PValue)
}

func TestRegressConstantY(t *testing.T) {
	fit, err := Regress([]float64{1, 2, 3, 4}, []float64{7, 7, 7, 7})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fit.Result.Slope, 1e-12)
	assert.InDelta(t, 7.0, fit.Result.Intercept, 1e-12)
	assert.Equal(t, 0.0, fit.Result.Correlation)
	assert.Equal(t, 1.0, fit.Result.PValue)
}

func TestRegressProperties(t *testing.T) {
	x := []float64{1.5, 2.25, 3.1, 4.8, 5.05, 6.9, 7.3, 8.8}
	y := []float64{10.2, 9.1, 12.7, 11.3, 15.8, 14.2, 18.9, 17.5}

	fit, err := Regress(x, y)
	require.NoError(t, err)

	meanY, _ := stats.Mean(y)
	meanPredicted, _ := stats.Mean(fit.Predicted)
	assert.InDelta(t, meanY, meanPredicted, 1e-9)

	swapped, err := Regress(y, x)
	require.NoError(t, err)
	assert.InDelta(t, fit.Result.Correlation, swapped.Result.Correlation, 1e-12)
	assert.InDelta(t, fit.Result.PValue, swapped.Result.PValue, 1e-12)

	assert.GreaterOrEqual(t, fit.Result.PValue, 0.0)
	assert.LessOrEqual(t, fit.Result.PValue, 1.0)
	assert.LessOrEqual(t, math.Abs(fit.Result.Correlation), 1.0)
}

func TestRegressSameColumn(t *testing.T) {
	x := []float64{0.3, 1.7, 2.2, 9.4, 5.5}
	fit, err := Regress(x, x)
	require.NoError(t, err)
	assert.Equal(t, "regression equation: y = 1.00x + 0.00", NewReport(fit.Result).Equation)
	assert.Equal(t, "correlation (R): 1.00", NewReport(fit.Result).Correlation)
}

func TestTTestPValue(t *testing.T) {
	assert.Equal(t, 1.0, TTestPValue(2, 0))
	assert.Equal(t, 1.0, TTestPValue(math.NaN(), 5))
	assert.Equal(t, 0.0, TTestPValue(math.Inf(1), 5))
	assert.Equal(t, 0.0, TTestPValue(math.Inf(-1), 5))
	assert.InDelta(t, 1.0, TTestPValue(0, 10), 1e-12)
	assert.InDelta(t, 0.12403, TTestPValue(math.Sqrt(4.5), 3), 1e-4)
	assert.InDelta(t, TTestPValue(2.5, 7), TTestPValue(-2.5, 7), 1e-15)
}

func TestCorrelationPValue(t *testing.T) {
	assert.Equal(t, 1.0, CorrelationPValue(0.9, 1))
	assert.Equal(t, 0.0, CorrelationPValue(-1, 2))
	assert.Equal(t, 1.0, CorrelationPValue(0, 2))
	assert.Equal(t, 0.0, CorrelationPValue(1, 10))
	assert.True(t, math.IsInf(CorrelationTStatistic(-1, 10), -1))
}
