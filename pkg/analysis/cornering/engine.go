package cornering

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/channels"
	"github.com/apex-racing/grcup-analytics/pkg/model"
)

const reportedCorners = 5

//nolint:tagliatelle // snake case by convention
type Analysis struct {
	DriverID        string                      `json:"driver_id"`
	CornersDetected int                         `json:"corners_detected"`
	Corners         []Metrics                   `json:"corner_analysis"`
	DriverDNA       model.Result[Fingerprint]   `json:"driver_dna"`
	Grip            model.Result[channels.Grip] `json:"grip_utilization"`
	Momentum        model.Result[Momentum]      `json:"momentum_efficiency"`
	Recommendations []string                    `json:"recommendations"`
}

// Engine runs the complete cornering analysis of one driver
type Engine struct {
	detector   *Detector
	physics    *Physics
	classifier *Classifier
	channels   *channels.Analyzer
}

func NewEngine(vehicle model.VehicleSpec, th model.Thresholds) *Engine {
	return &Engine{
		detector:   NewDetector(th),
		physics:    NewPhysics(vehicle),
		classifier: NewClassifier(th),
		channels:   channels.NewAnalyzer(vehicle, th),
	}
}

// Corners detects the corners in the driver samples and derives their
// metrics. samples must be ordered by timestamp.
func (e *Engine) Corners(samples []model.TelemetrySample) []Metrics {
	ch := ChannelsOf(samples)
	return lo.Map(e.detector.Detect(ch.AccY), func(seg Segment, i int) Metrics {
		return e.physics.Analyze(i+1, seg, ch)
	})
}

// Analyze runs the cornering analysis on the ordered samples of one driver.
// All scores are computed from unrounded corner metrics.
//
//nolint:whitespace // editor/linter issue
func (e *Engine) Analyze(
	driverID string, samples []model.TelemetrySample,
) model.Result[Analysis] {
	if len(samples) == 0 {
		return model.NoData[Analysis](fmt.Sprintf("No data for driver %s", driverID))
	}
	corners := e.Corners(samples)
	if len(corners) == 0 {
		return model.Insufficient[Analysis]("No corners detected")
	}
	dna := e.classifier.Fingerprint(corners, samples)
	recommendations := Recommend(corners, dna.Value)
	dna.Value = dna.Value.Rounded()
	return model.OK(Analysis{
		DriverID:        driverID,
		CornersDetected: len(corners),
		Corners: lo.Map(lo.Slice(corners, 0, reportedCorners), func(m Metrics, _ int) Metrics {
			return m.Rounded()
		}),
		DriverDNA:       dna,
		Grip:            e.channels.Grip(samples),
		Momentum:        MomentumEfficiency(corners),
		Recommendations: recommendations,
	})
}
