package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the exact two-tailed p-value for a t statistic using
// Student's t-distribution
func TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return 1.0
	}
	if math.IsInf(tStatistic, 0) {
		return 0.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	p := 2 * tDist.Survival(math.Abs(tStatistic))
	return clamp(p, 0, 1)
}

// CorrelationTStatistic transforms a Pearson r into its t statistic,
// t = r * sqrt((n-2)/(1-r^2)). |r| = 1 yields ±Inf.
func CorrelationTStatistic(correlation float64, sampleSize int) float64 {
	df := float64(sampleSize - 2)
	denom := (1 - correlation) * (1 + correlation)
	if denom <= 0 {
		return math.Copysign(math.Inf(1), correlation)
	}
	return correlation * math.Sqrt(df/denom)
}

// CorrelationPValue computes the two-sided p-value for the null hypothesis
// of zero correlation. With only two points the fit is exact: the p-value is
// 0 when the points differ in y and 1 when they do not (r = 0).
func CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 2 {
		return 1.0
	}
	if sampleSize == 2 {
		if correlation == 0 {
			return 1.0
		}
		return 0.0
	}

	return TTestPValue(CorrelationTStatistic(correlation, sampleSize), sampleSize-2)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
