package stats

// SignificanceLevel is the fixed alpha the report verdict is judged against.
// The comparison is strict: p < SignificanceLevel.
const SignificanceLevel = 0.05

// RegressionResult contains the least-squares fit of y on x.
// INVARIANTS:
// - Correlation in [-1, 1]
// - PValue in [0, 1]
// - SampleSize >= 2
type RegressionResult struct {
	Slope       float64 `json:"slope" yaml:"slope"`
	Intercept   float64 `json:"intercept" yaml:"intercept"`
	Correlation float64 `json:"correlation" yaml:"correlation"`
	PValue      float64 `json:"p_value" yaml:"p_value"`

	SampleSize       int     `json:"sample_size" yaml:"sample_size"`
	DegreesOfFreedom int     `json:"degrees_of_freedom" yaml:"degrees_of_freedom"`
	RSquared         float64 `json:"r_squared" yaml:"r_squared"`
	SlopeStdErr      float64 `json:"slope_stderr" yaml:"slope_stderr"`
	InterceptStdErr  float64 `json:"intercept_stderr" yaml:"intercept_stderr"`
}

// IsSignificant reports whether the slope differs from zero at SignificanceLevel.
func (r RegressionResult) IsSignificant() bool {
	return r.PValue < SignificanceLevel
}

// Predict evaluates the fitted line at x.
func (r RegressionResult) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Fit bundles a regression result with the predicted sequence for the
// observations it was computed from, in input order.
type Fit struct {
	Result    RegressionResult `json:"result" yaml:"result"`
	Predicted []float64        `json:"predicted" yaml:"predicted"`
}
