// Package numeric contains the statistics shared by the analyzers.
// Undefined results (empty input, zero denominators) are reported as NaN
// and mapped to 0 at the output boundary via Finite.
package numeric

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Finite returns v or 0 if v is NaN or infinite
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Or returns v or def if v is NaN or infinite
func Or(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// SafeDiv returns a/b or 0 if the quotient is undefined
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return Finite(a / b)
}

// Pct returns 100*a/b or 0 if the quotient is undefined
func Pct(a, b float64) float64 {
	return SafeDiv(a, b) * 100
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// StdDev is the sample standard deviation (n-1 denominator).
// NaN for fewer than two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

// Slope returns the ordinary least squares slope of ys against xs.
func Slope(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Quantile returns the q-quantile (0 <= q <= 1) of xs using linear
// interpolation between closest ranks (h = (n-1)*q).
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	h := float64(len(sorted)-1) * q
	lower := math.Floor(h)
	upper := math.Ceil(h)
	if lower == upper {
		return sorted[int(lower)]
	}
	return sorted[int(lower)] + (h-lower)*(sorted[int(upper)]-sorted[int(lower)])
}

// Above returns the values strictly greater than threshold
func Above(xs []float64, threshold float64) []float64 {
	return lo.Filter(xs, func(v float64, _ int) bool { return v > threshold })
}

// Below returns the values strictly lower than threshold
func Below(xs []float64, threshold float64) []float64 {
	return lo.Filter(xs, func(v float64, _ int) bool { return v < threshold })
}

// CountIf counts the values matching pred
func CountIf(xs []float64, pred func(v float64) bool) int {
	return lo.CountBy(xs, pred)
}

// Round rounds half away from zero. Non-finite values become 0.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(Finite(v)).Round(places).InexactFloat64()
}

// Clip returns xs[start:end] limited to the bounds of xs
func Clip(xs []float64, start, end int) []float64 {
	start = max(0, min(start, len(xs)))
	end = max(start, min(end, len(xs)))
	return xs[start:end]
}
