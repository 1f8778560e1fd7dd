// Package cornering segments a driver's lateral acceleration trace into
// corners, derives the physics of every corner and classifies the
// driving style.
package cornering

import (
	"math"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

// Segment is the half-open sample range [Start, End) of one corner.
// Apex is the midpoint of the range, not the slowest sample.
type Segment struct {
	Start int
	Apex  int
	End   int
}

func (s Segment) Len() int {
	return s.End - s.Start
}

type Detector struct {
	lateralG   float64
	minSamples int
}

func NewDetector(th model.Thresholds) *Detector {
	return &Detector{lateralG: th.CornerLateralG, minSamples: th.CornerMinSamples}
}

// Detect returns the corners of the lateral acceleration trace in sample
// order. Runs shorter than the minimum sample count are dropped.
func (d *Detector) Detect(lateral []float64) []Segment {
	mask := lo.Map(lateral, func(g float64, _ int) bool {
		return math.Abs(g) > d.lateralG
	})
	return lo.Map(numeric.Runs(mask, d.minSamples), func(r numeric.Run, _ int) Segment {
		return Segment{Start: r.Start, Apex: r.Start + r.Len()/2, End: r.End}
	})
}
