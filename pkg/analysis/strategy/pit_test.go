package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/reference"
)

func TestDegradationRate(t *testing.T) {
	c := NewCalculator(reference.Default().Thresholds())
	assert.InDelta(t, 0.05, c.DegradationRate(0), 0)
	assert.InDelta(t, 0.05, c.DegradationRate(10), 0)
	assert.InDelta(t, 0.1, c.DegradationRate(11), 0)
}

func TestCalculate(t *testing.T) {
	c := NewCalculator(reference.Default().Thresholds())
	intPtr := func(v int) *int { return &v }
	tests := []struct {
		name       string
		req        PitRequest
		laps       []model.LapRecord
		wantLap    *int
		wantLoss   float64
		wantRec    string
		wantAvg    float64
		wantStints int
	}{
		{
			name:     "short remainder stays out",
			req:      PitRequest{CurrentLap: 10, TotalLaps: 20, TireAge: 15, FuelLevel: 50},
			wantLoss: 1.0, wantRec: RecStayOut, wantAvg: 90, wantStints: 1,
		},
		{
			name:    "long remainder with worn tires",
			req:     PitRequest{CurrentLap: 10, TotalLaps: 300, TireAge: 15},
			wantLap: intPtr(260), wantLoss: 29.0, wantRec: RecStayOut, wantAvg: 90, wantStints: 3,
		},
		{
			name:    "long remainder with fresh tires",
			req:     PitRequest{CurrentLap: 0, TotalLaps: 600, TireAge: 2},
			wantLap: intPtr(500), wantLoss: 30.0, wantRec: RecStayOut, wantAvg: 90, wantStints: 3,
		},
		{
			name: "average from driver laps",
			req:  PitRequest{CurrentLap: 5, TotalLaps: 10, TireAge: 1},
			laps: []model.LapRecord{
				{VehicleID: "a", Lap: 1, Duration: 100}, {VehicleID: "a", Lap: 2, Duration: 102},
			},
			wantLoss: 0.25, wantRec: RecStayOut, wantAvg: 101, wantStints: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Calculate(tt.req, tt.laps)
			require.NoError(t, err)
			require.True(t, got.IsOK())
			s := got.Value
			assert.Equal(t, tt.wantLap, s.OptimalPitLap)
			assert.InDelta(t, tt.wantLoss, s.ProjectedTimeLossNoPit, 1e-9)
			assert.Equal(t, tt.wantRec, s.Recommendation)
			assert.InDelta(t, tt.wantAvg, s.AvgLapTime, 1e-9)
			assert.InDelta(t, 25.0, s.PitStopTimeLoss, 0)
			assert.Len(t, s.StintPlan, tt.wantStints)
		})
	}
}

func TestCalculatePitNow(t *testing.T) {
	th := reference.Default().Thresholds()
	th.PitStopCostSeconds = 0.15
	c := NewCalculator(th)
	got, err := c.Calculate(PitRequest{CurrentLap: 10, TotalLaps: 20, TireAge: 12}, nil)
	require.NoError(t, err)
	require.NotNil(t, got.Value.OptimalPitLap)
	assert.Equal(t, 11, *got.Value.OptimalPitLap)
	assert.Equal(t, RecPitNow, got.Value.Recommendation)
}

func TestCalculateInvalid(t *testing.T) {
	c := NewCalculator(reference.Default().Thresholds())
	tests := []struct {
		name string
		req  PitRequest
	}{
		{"negative lap", PitRequest{CurrentLap: -1, TotalLaps: 10}},
		{"total before current", PitRequest{CurrentLap: 20, TotalLaps: 10}},
		{"remaining laps above limit", PitRequest{CurrentLap: 1, TotalLaps: 50_000_000, TireAge: 15}},
		{"remaining laps one above limit", PitRequest{CurrentLap: 0, TotalLaps: MaxRemainingLaps + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Calculate(tt.req, nil)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		})
	}
}

func TestCalculateRemainingLapsAtLimit(t *testing.T) {
	c := NewCalculator(reference.Default().Thresholds())
	got, err := c.Calculate(PitRequest{CurrentLap: 0, TotalLaps: MaxRemainingLaps, TireAge: 15}, nil)
	require.NoError(t, err)
	// 250 laps per stint
	assert.Len(t, got.Value.StintPlan, 2*(MaxRemainingLaps/250)-1)
}

func TestCalculateStintLimit(t *testing.T) {
	th := reference.Default().Thresholds()
	th.PitStopCostSeconds = 0.15
	c := NewCalculator(th)
	// one lap per stint
	_, err := c.Calculate(PitRequest{CurrentLap: 0, TotalLaps: MaxStints + 1, TireAge: 15}, nil)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestNoLapData(t *testing.T) {
	r := NoLapData()
	assert.Equal(t, model.StatusNoData, r.Status)
	assert.Equal(t, "No lap time data available", r.Reason)
}
