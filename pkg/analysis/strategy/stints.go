package strategy

import (
	"fmt"
	"time"
)

type (
	PartType   int
	CalcStints interface {
		Calc() (*Plan, error)
	}
	Part interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Laps() int
		LapStart() int
		LapEnd() int
		StintTime() time.Duration
	}
	PitPart interface {
		Part
		PitTime() time.Duration
	}
	Plan struct {
		Parts []Part
	}
	//nolint:tagliatelle // snake case by convention
	PlanEntry struct {
		Type     string  `json:"type"`
		LapStart int     `json:"lap_start,omitempty"`
		LapEnd   int     `json:"lap_end,omitempty"`
		Laps     int     `json:"laps,omitempty"`
		Seconds  float64 `json:"seconds"`
		Output   string  `json:"output"`
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

// MaxStints bounds the size of a plan
const MaxStints = 1000

func (p PartType) String() string {
	if p == PartTypePit {
		return "pit"
	}
	return "stint"
}

type (
	StintParams struct {
		FirstLap     int           // first lap still to be driven
		LastLap      int           // final lap of the race
		LapsPerStint int           // laps until the next stop, <= 0 means no stop
		PitTime      time.Duration // time lost per stop
		AvgLap       time.Duration // average lap time
	}
	stintCalc struct {
		param *StintParams
		parts []Part
	}
	stintPart struct {
		laps      int
		lapStart  int
		lapEnd    int
		stintTime time.Duration
	}
	pitPart struct {
		pitTime time.Duration
	}
)

func NewStintCalc(param *StintParams) CalcStints {
	return &stintCalc{param: param}
}

// Calc splits the remaining laps into stints separated by pit stops.
// The last stint takes the remaining laps.
func (c *stintCalc) Calc() (*Plan, error) {
	if c.param.AvgLap < 0 || c.param.PitTime < 0 {
		return nil, fmt.Errorf("%w: negative durations", ErrInvalidRequest)
	}
	c.parts = make([]Part, 0)
	lps := c.param.LapsPerStint
	if lps <= 0 {
		lps = c.param.LastLap - c.param.FirstLap + 1
	}
	if total := c.param.LastLap - c.param.FirstLap + 1; total > 0 && (total+lps-1)/lps > MaxStints {
		return nil, fmt.Errorf("%w: more than %d stints", ErrInvalidRequest, MaxStints)
	}
	curLap := c.param.FirstLap
	for curLap <= c.param.LastLap {
		laps := min(lps, c.param.LastLap-curLap+1)
		c.parts = append(c.parts, &stintPart{
			laps:      laps,
			lapStart:  curLap,
			lapEnd:    curLap + laps - 1,
			stintTime: time.Duration(laps) * c.param.AvgLap,
		})
		curLap += laps
		if curLap <= c.param.LastLap {
			c.parts = append(c.parts, &pitPart{pitTime: c.param.PitTime})
		}
	}
	return &Plan{Parts: c.parts}, nil
}

// Entries converts the plan for output
func (p *Plan) Entries() []PlanEntry {
	ret := make([]PlanEntry, 0, len(p.Parts))
	for _, part := range p.Parts {
		e := PlanEntry{Type: part.Type().String(), Output: part.Output()}
		switch v := part.(type) {
		case StintPart:
			e.LapStart = v.LapStart()
			e.LapEnd = v.LapEnd()
			e.Laps = v.Laps()
			e.Seconds = v.StintTime().Seconds()
		case PitPart:
			e.Seconds = v.PitTime().Seconds()
		}
		ret = append(ret, e)
	}
	return ret
}

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) StintTime() time.Duration {
	return s.stintTime
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%d-%d (%d): %s", s.lapStart, s.lapEnd, s.laps, s.stintTime)
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) PitTime() time.Duration {
	return p.pitTime
}

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit %s", p.pitTime)
}
