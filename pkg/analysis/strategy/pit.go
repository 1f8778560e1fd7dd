// Package strategy contains the pit stop recommendation and the stint plan
// derived from it.
package strategy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/apex-racing/grcup-analytics/pkg/analysis/laps"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

var ErrInvalidRequest = errors.New("invalid pit strategy request")

const (
	wornTireAge   = 10   // laps
	wornTireRate  = 0.1  // seconds per lap
	freshTireRate = 0.05 // seconds per lap
	pitNowWindow  = 2    // laps
	// MaxRemainingLaps bounds total_laps - current_lap of a request
	MaxRemainingLaps = 10000
	RecPitNow        = "Pit now"
	RecStayOut       = "Stay out"
	noLapDataError   = "No lap time data available"
)

type (
	//nolint:tagliatelle // snake case by convention
	PitRequest struct {
		CurrentLap int     `json:"current_lap"`
		TotalLaps  int     `json:"total_laps"`
		TireAge    int     `json:"tire_age"`
		FuelLevel  float64 `json:"fuel_level"`
	}

	//nolint:tagliatelle // snake case by convention
	PitStrategy struct {
		CurrentLap             int         `json:"current_lap"`
		TotalLaps              int         `json:"total_laps"`
		TireAge                int         `json:"tire_age"`
		OptimalPitLap          *int        `json:"optimal_pit_lap"`
		ProjectedTimeLossNoPit float64     `json:"projected_time_loss_no_pit"`
		PitStopTimeLoss        float64     `json:"pit_stop_time_loss"`
		Recommendation         string      `json:"recommendation"`
		AvgLapTime             float64     `json:"avg_lap_time"`
		StintPlan              []PlanEntry `json:"stint_plan"`
	}

	Calculator struct {
		pitCost    float64
		defaultLap float64
	}
)

func (r PitRequest) Validate() error {
	if r.CurrentLap < 0 || r.TotalLaps < 0 || r.TireAge < 0 {
		return fmt.Errorf("%w: values must not be negative", ErrInvalidRequest)
	}
	if r.TotalLaps < r.CurrentLap {
		return fmt.Errorf("%w: total laps before current lap", ErrInvalidRequest)
	}
	if r.TotalLaps-r.CurrentLap > MaxRemainingLaps {
		return fmt.Errorf("%w: more than %d remaining laps", ErrInvalidRequest, MaxRemainingLaps)
	}
	if r.FuelLevel < 0 || math.IsNaN(r.FuelLevel) {
		return fmt.Errorf("%w: invalid fuel level", ErrInvalidRequest)
	}
	return nil
}

func NewCalculator(th model.Thresholds) *Calculator {
	return &Calculator{pitCost: th.PitStopCostSeconds, defaultLap: th.DefaultLapSeconds}
}

// DegradationRate is a two bucket estimate in seconds per lap.
// It is independent of the regression in laps.PredictDegradation.
func (c *Calculator) DegradationRate(tireAge int) float64 {
	if tireAge > wornTireAge {
		return wornTireRate
	}
	return freshTireRate
}

// Calculate recommends a pit lap if the projected loss over the remaining
// laps exceeds the pit stop cost. driverLaps provide the average lap time
// used for the stint plan, the configured default applies if empty.
// The fuel level is accepted but not part of the model.
//
//nolint:whitespace // editor/linter issue
func (c *Calculator) Calculate(
	req PitRequest, driverLaps []model.LapRecord,
) (model.Result[PitStrategy], error) {
	if err := req.Validate(); err != nil {
		return model.Result[PitStrategy]{}, err
	}
	avgLap := numeric.Or(numeric.Mean(laps.Durations(driverLaps)), c.defaultLap)
	rate := c.DegradationRate(req.TireAge)
	remaining := req.TotalLaps - req.CurrentLap
	projected := rate * float64(remaining)

	ret := PitStrategy{
		CurrentLap:             req.CurrentLap,
		TotalLaps:              req.TotalLaps,
		TireAge:                req.TireAge,
		ProjectedTimeLossNoPit: projected,
		PitStopTimeLoss:        c.pitCost,
		Recommendation:         RecStayOut,
		AvgLapTime:             avgLap,
	}
	lapsPerStint := 0
	if projected > c.pitCost {
		lapsPerStint = int(math.Floor(c.pitCost / rate))
		optimal := req.CurrentLap + lapsPerStint
		ret.OptimalPitLap = &optimal
		if optimal <= req.CurrentLap+pitNowWindow {
			ret.Recommendation = RecPitNow
		}
	}
	plan, err := NewStintCalc(&StintParams{
		FirstLap:     req.CurrentLap + 1,
		LastLap:      req.TotalLaps,
		LapsPerStint: lapsPerStint,
		PitTime:      toDuration(c.pitCost),
		AvgLap:       toDuration(avgLap),
	}).Calc()
	if err != nil {
		return model.Result[PitStrategy]{}, err
	}
	ret.StintPlan = plan.Entries()
	return model.OK(ret), nil
}

// NoLapData is the result for a session without any lap records
func NoLapData() model.Result[PitStrategy] {
	return model.NoData[PitStrategy](noLapDataError)
}

func toDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
