//nolint:funlen // readability
package cornering

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/reference"
)

var t0 = time.Date(2025, 9, 6, 18, 0, 0, 0, time.UTC)

func fill(n int, v float64) []float64 {
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = v
	}
	return ret
}

// samples interleaves the channels sample by sample, as a logger would
func samples(vehicle string, chans map[string][]float64) []model.TelemetrySample {
	ret := []model.TelemetrySample{}
	n := 0
	for _, v := range chans {
		n = max(n, len(v))
	}
	for i := range n {
		for name, v := range chans {
			if i < len(v) {
				ret = append(ret, model.TelemetrySample{
					VehicleID: vehicle, Lap: 1, Name: name, Value: v[i],
					Timestamp: t0.Add(time.Duration(i) * 50 * time.Millisecond),
				})
			}
		}
	}
	return ret
}

func TestDetect(t *testing.T) {
	d := NewDetector(reference.Default().Thresholds())

	signal := fill(200, 0.2)
	for i := 50; i < 80; i++ {
		signal[i] = 0.9
	}
	// 8 samples, below the debounce limit
	for i := 120; i < 128; i++ {
		signal[i] = -0.9
	}
	assert.Equal(t, []Segment{{Start: 50, Apex: 65, End: 80}}, d.Detect(signal))

	tests := []struct {
		name   string
		signal []float64
		want   []Segment
	}{
		{"empty", nil, []Segment{}},
		{"straight", fill(50, 0.4), []Segment{}},
		{"left hander", append(fill(5, 0), fill(10, -0.5)...), []Segment{{5, 10, 15}}},
		{"two corners", append(append(fill(11, 0.5), 0.1), fill(12, 0.5)...),
			[]Segment{{0, 5, 11}, {12, 18, 24}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, d.Detect(tt.signal)); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	d := NewDetector(reference.Default().Thresholds())
	signal := append(append(fill(30, 0.7), fill(30, 0)...), fill(15, -0.6)...)
	first := d.Detect(signal)
	for range 5 {
		assert.Equal(t, first, d.Detect(signal))
	}
}

func TestRadiusAndMaxSpeed(t *testing.T) {
	r := Radius(30, 1.0)
	assert.InDelta(t, 91.74, r, 0.01)
	assert.InDelta(t, 31.46, MaxSpeed(1.1, r), 0.01)
	assert.InDelta(t, 113.3, MaxSpeed(1.1, r)*kmhPerMs, 0.05)

	assert.Equal(t, defaultRadius, Radius(30, 0.1))
	assert.Equal(t, defaultRadius, Radius(30, 0))
	assert.Equal(t, 0.0, MaxSpeed(0, r))
}

func TestAnalyze(t *testing.T) {
	p := NewPhysics(reference.Default().Vehicle())
	ch := Channels{
		Speed: []float64{100, 102, 104, 106, 108, 108, 108, 108, 109, 110},
		AccX:  fill(10, 0),
		AccY:  fill(10, -1.0),
	}
	m := p.Analyze(1, Segment{Start: 0, Apex: 5, End: 10}, ch)

	assert.Equal(t, 1, m.CornerNumber)
	assert.Equal(t, 10, m.Samples)
	assert.Equal(t, 100.0, m.EntrySpeedKmh)
	assert.Equal(t, 108.0, m.ApexSpeedKmh)
	assert.Equal(t, 110.0, m.ExitSpeedKmh)
	assert.InDelta(t, 1.0, m.MaxLateralG, 1e-9)
	assert.InDelta(t, 91.743, m.CornerRadiusM, 1e-3)
	assert.InDelta(t, 113.271, m.TheoreticalMaxSpeedKmh, 1e-3)
	assert.InDelta(t, 95.346, m.SpeedEfficiencyPct, 1e-3)
	assert.InDelta(t, 90.909, m.GripUtilizationPct, 1e-3)
	assert.InDelta(t, 0.327, m.YawRate, 1e-9)
	assert.InDelta(t, 588.6, m.AngularMomentum, 1e-6)
	assert.InDelta(t, 3934.326, m.LateralLoadTransferN, 1e-3)
	assert.InDelta(t, 10.0, m.MomentumGainPct, 1e-9)
	assert.InDelta(t, 35277.78, m.EntryMomentum, 0.01)

	r := m.Rounded()
	assert.Equal(t, 91.7, r.CornerRadiusM)
	assert.Equal(t, 113.3, r.TheoreticalMaxSpeedKmh)
	assert.Equal(t, 95.3, r.SpeedEfficiencyPct)
	assert.Equal(t, 0.327, r.YawRate)
}

func TestAnalyzeIsAlwaysFinite(t *testing.T) {
	degenerate := reference.Default().Vehicle()
	degenerate.FrictionCoefficient = 0
	degenerate.TrackWidthM = 0
	degenerate.MassKg = 0

	tests := []struct {
		name    string
		vehicle model.VehicleSpec
		ch      Channels
	}{
		{"standing car", reference.Default().Vehicle(), Channels{
			Speed: fill(10, 0), AccX: fill(10, 0), AccY: fill(10, 0),
		}},
		{"no channels", reference.Default().Vehicle(), Channels{}},
		{"degenerate vehicle", degenerate, Channels{
			Speed: fill(10, 90), AccX: fill(10, 0.2), AccY: fill(10, 0.8),
		}},
		{"short speed trace", reference.Default().Vehicle(), Channels{
			Speed: fill(3, 90), AccY: fill(10, 0.8),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPhysics(tt.vehicle).Analyze(1, Segment{0, 5, 10}, tt.ch)
			// encoding/json rejects NaN and Inf
			_, err := json.Marshal(m)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, m.SpeedEfficiencyPct, 0.0)
			assert.GreaterOrEqual(t, m.GripUtilizationPct, 0.0)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		f    Fingerprint
		want string
	}{
		{
			"first rule wins",
			Fingerprint{AvgGripUtilization: 90, BrakeAggression: 75, AvgSpeedEfficiency: 95, ThrottleSmoothness: 85},
			StyleAggressive,
		},
		{
			"smooth and fast",
			Fingerprint{AvgGripUtilization: 90, BrakeAggression: 60, AvgSpeedEfficiency: 95, ThrottleSmoothness: 85},
			StyleSmoothFast,
		},
		{
			"conservative",
			Fingerprint{AvgGripUtilization: 74.9, BrakeAggression: 90, AvgSpeedEfficiency: 80, ThrottleSmoothness: 85},
			StyleConservative,
		},
		{
			"balanced",
			Fingerprint{AvgGripUtilization: 75, BrakeAggression: 50, AvgSpeedEfficiency: 90, ThrottleSmoothness: 90},
			StyleBalanced,
		},
		{
			"boundaries are exclusive",
			Fingerprint{AvgGripUtilization: 85, BrakeAggression: 70, AvgSpeedEfficiency: 90, ThrottleSmoothness: 80},
			StyleBalanced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.f))
		})
	}
}

func TestFingerprint(t *testing.T) {
	c := NewClassifier(reference.Default().Thresholds())
	corners := []Metrics{
		{GripUtilizationPct: 88, SpeedEfficiencyPct: 94},
		{GripUtilizationPct: 92, SpeedEfficiencyPct: 96},
	}

	res := c.Fingerprint(corners, samples("a", map[string][]float64{
		model.ChannelBrakeFront: {0, 10, 10, 10},
		model.ChannelThrottle:   {50, 50, 50},
	}))
	require.True(t, res.IsOK())
	assert.Equal(t, Fingerprint{
		Style:              StyleAggressive,
		BrakeAggression:    100,
		ThrottleSmoothness: 100,
		AvgGripUtilization: 90,
		AvgSpeedEfficiency: 95,
		Signature:          "Aggressive - 90% grip, 100% brake",
	}, res.Value)

	t.Run("neutral scores without traces", func(t *testing.T) {
		res := c.Fingerprint(corners, nil)
		require.True(t, res.IsOK())
		assert.Equal(t, 50.0, res.Value.BrakeAggression)
		assert.Equal(t, 50.0, res.Value.ThrottleSmoothness)
		assert.Equal(t, "Balanced - 90% grip, 50% brake", res.Value.Signature)
	})
	t.Run("rough throttle", func(t *testing.T) {
		res := c.Fingerprint(corners, samples("a", map[string][]float64{
			model.ChannelThrottle: {0, 250},
		}))
		assert.Equal(t, 0.0, res.Value.ThrottleSmoothness)
	})
	t.Run("no corners", func(t *testing.T) {
		res := c.Fingerprint(nil, nil)
		assert.Equal(t, model.StatusInsufficientData, res.Status)
	})
}

func TestRecommend(t *testing.T) {
	corners := []Metrics{
		{SpeedEfficiencyPct: 80, GripUtilizationPct: 70, MomentumGainPct: -1},
		{SpeedEfficiencyPct: 80, GripUtilizationPct: 70, MomentumGainPct: -2},
		{SpeedEfficiencyPct: 80, GripUtilizationPct: 70, MomentumGainPct: 5},
	}
	got := Recommend(corners, Fingerprint{Style: StyleConservative})
	assert.Equal(t, []string{
		"Carry 20.0% more speed through corners - you're leaving time on the table",
		"Push harder! Using only 70.0% of available grip - aim for 90%+",
		"Losing momentum in 30%+ of corners - focus on exit speed over entry speed",
		"Be more aggressive with throttle application - you have grip available",
	}, got)

	tests := []struct {
		name    string
		corners []Metrics
		style   string
		want    []string
	}{
		{
			"nothing to improve",
			[]Metrics{{SpeedEfficiencyPct: 92, GripUtilizationPct: 90, MomentumGainPct: 3}},
			StyleBalanced,
			[]string{},
		},
		{
			"over the limit",
			[]Metrics{{SpeedEfficiencyPct: 99, GripUtilizationPct: 97, MomentumGainPct: 1}},
			StyleAggressive,
			[]string{
				"Very aggressive! Consider slight margin for safety",
				"Smooth inputs will improve consistency and tire life",
			},
		},
		{"no corners", nil, StyleBalanced, []string{"Insufficient data for recommendations"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.corners, Fingerprint{Style: tt.style})
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxRecommendations)
		})
	}
}

func TestMomentumEfficiency(t *testing.T) {
	res := MomentumEfficiency([]Metrics{
		{MomentumGainPct: 10, SpeedEfficiencyPct: 90},
		{MomentumGainPct: 20, SpeedEfficiencyPct: 100},
	})
	require.True(t, res.IsOK())
	assert.Equal(t, Momentum{
		AvgMomentumGainPct:    15,
		AvgSpeedEfficiencyPct: 95,
		Score:                 55,
		Rating:                "Needs Improvement",
	}, res.Value)

	assert.Equal(t, model.StatusInsufficientData, MomentumEfficiency(nil).Status)

	for score, want := range map[float64]string{
		80.1: "Excellent", 80: "Good", 60.1: "Good", 60: "Needs Improvement",
	} {
		assert.Equal(t, want, momentumRating(score), "score %v", score)
	}
}

func TestEngine(t *testing.T) {
	ref := reference.Default()
	e := NewEngine(ref.Vehicle(), ref.Thresholds())

	accy := append(append(fill(5, 0), fill(12, 1.0)...), fill(13, 0)...)
	driver := samples("a", map[string][]float64{
		model.ChannelSpeed: fill(30, 108),
		model.ChannelAccX:  fill(30, 0),
		model.ChannelAccY:  accy,
	})

	res := e.Analyze("a", driver)
	require.True(t, res.IsOK())
	got := res.Value
	assert.Equal(t, "a", got.DriverID)
	assert.Equal(t, 1, got.CornersDetected)
	require.Len(t, got.Corners, 1)
	assert.Equal(t, 5, got.Corners[0].StartIndex)
	assert.Equal(t, 11, got.Corners[0].ApexIndex)
	assert.Equal(t, 17, got.Corners[0].EndIndex)
	assert.Equal(t, 91.7, got.Corners[0].CornerRadiusM)
	assert.True(t, got.DriverDNA.IsOK())
	assert.True(t, got.Grip.IsOK())
	assert.True(t, got.Momentum.IsOK())
	assert.Equal(t, []string{}, got.Recommendations)

	_, err := json.Marshal(got)
	require.NoError(t, err)

	t.Run("top corners only", func(t *testing.T) {
		var accy []float64
		for range 7 {
			accy = append(accy, fill(10, 0.8)...)
			accy = append(accy, fill(5, 0)...)
		}
		res := e.Analyze("a", samples("a", map[string][]float64{
			model.ChannelSpeed: fill(len(accy), 90),
			model.ChannelAccY:  accy,
		}))
		require.True(t, res.IsOK())
		assert.Equal(t, 7, res.Value.CornersDetected)
		assert.Len(t, res.Value.Corners, reportedCorners)
		assert.Equal(t, 5, res.Value.Corners[4].CornerNumber)
	})
	t.Run("unknown driver", func(t *testing.T) {
		res := e.Analyze("b", nil)
		assert.Equal(t, model.StatusNoData, res.Status)
		assert.Equal(t, "No data for driver b", res.Reason)
	})
	t.Run("no corners", func(t *testing.T) {
		res := e.Analyze("a", samples("a", map[string][]float64{
			model.ChannelAccY: fill(50, 0.1),
		}))
		assert.Equal(t, model.StatusInsufficientData, res.Status)
	})
}
