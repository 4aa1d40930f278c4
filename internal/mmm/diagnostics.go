package mmm

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RSquared computes the coefficient of determination between the true
// target and in-sample predictions
func RSquared(y, predicted []float64) float64 {
	return stat.RSquaredFrom(predicted, y, nil)
}

// RMSE computes the root mean squared error of in-sample predictions
func RMSE(y, predicted []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i := range y {
		diff := y[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(y)))
}

// AdjustedRSquared corrects R² for the number of predictors:
// 1 - (1-r2)(n-1)/(n-p-1). When n <= p+1 the correction divides by zero
// or flips sign, so it falls back to the raw R² instead.
func AdjustedRSquared(r2 float64, n, p int) float64 {
	if n > p+1 {
		return 1 - (1-r2)*float64(n-1)/float64(n-p-1)
	}
	return r2
}

// computeDiagnostics scores one tier's in-sample predictions. The
// overfit flag is a warning carried with the result, never an error;
// callers still receive the full fit.
func computeDiagnostics(y, predicted []float64, featureCount int, overfitThreshold float64) Diagnostics {
	r2 := RSquared(y, predicted)
	return Diagnostics{
		R2:           r2,
		AdjustedR2:   AdjustedRSquared(r2, len(y), featureCount),
		RMSE:         RMSE(y, predicted),
		FeatureCount: featureCount,
		Overfit:      overfitThreshold > 0 && r2 > overfitThreshold,
	}
}
