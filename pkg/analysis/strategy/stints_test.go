//nolint:whitespace,lll,funlen // readability
package strategy

import (
	"reflect"
	"testing"
	"time"
)

func Test_stintCalc_Calc(t *testing.T) {
	type fields struct {
		param *StintParams
	}
	// converts sec to time.Duration
	toDur := func(secs int) time.Duration { return time.Duration(secs) * time.Second }
	tests := []struct {
		name    string
		fields  fields
		want    *Plan
		wantErr bool
	}{
		{
			name: "race finished",
			fields: fields{param: &StintParams{
				FirstLap: 11, LastLap: 10, PitTime: toDur(25), AvgLap: toDur(90),
			}},
			want: &Plan{Parts: []Part{}},
		},
		{
			name: "single stint without stop",
			fields: fields{param: &StintParams{
				FirstLap: 11, LastLap: 20, PitTime: toDur(25), AvgLap: toDur(90),
			}},
			want: &Plan{
				Parts: []Part{&stintPart{laps: 10, lapStart: 11, lapEnd: 20, stintTime: toDur(900)}},
			},
		},
		{
			name: "two stints",
			fields: fields{param: &StintParams{
				FirstLap: 1, LastLap: 5, LapsPerStint: 3, PitTime: toDur(5), AvgLap: toDur(4),
			}},
			want: &Plan{
				Parts: []Part{
					&stintPart{laps: 3, lapStart: 1, lapEnd: 3, stintTime: toDur(12)},
					&pitPart{pitTime: toDur(5)},
					&stintPart{laps: 2, lapStart: 4, lapEnd: 5, stintTime: toDur(8)},
				},
			},
		},
		{
			name: "stop exactly at race end is skipped",
			fields: fields{param: &StintParams{
				FirstLap: 1, LastLap: 6, LapsPerStint: 3, PitTime: toDur(5), AvgLap: toDur(4),
			}},
			want: &Plan{
				Parts: []Part{
					&stintPart{laps: 3, lapStart: 1, lapEnd: 3, stintTime: toDur(12)},
					&pitPart{pitTime: toDur(5)},
					&stintPart{laps: 3, lapStart: 4, lapEnd: 6, stintTime: toDur(12)},
				},
			},
		},
		{
			name: "too many stints",
			fields: fields{param: &StintParams{
				FirstLap: 1, LastLap: 2 * MaxStints, LapsPerStint: 1, PitTime: toDur(5), AvgLap: toDur(4),
			}},
			wantErr: true,
		},
		{
			name: "negative lap time",
			fields: fields{param: &StintParams{
				FirstLap: 1, LastLap: 6, AvgLap: toDur(-4),
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stintCalc{
				param: tt.fields.param,
			}
			got, err := c.Calc()
			if (err != nil) != tt.wantErr {
				t.Errorf("stintCalc.Calc() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got.Parts) != len(tt.want.Parts) {
				t.Errorf("got %d parts, want %d parts", len(got.Parts), len(tt.want.Parts))
				return
			}
			for i := range got.Parts {
				if !reflect.DeepEqual(got.Parts[i], tt.want.Parts[i]) {
					t.Errorf("part %d: got %v, want %v", i, got.Parts[i].Output(), tt.want.Parts[i].Output())
				}
			}
		})
	}
}

func TestPlanEntries(t *testing.T) {
	p := &Plan{Parts: []Part{
		&stintPart{laps: 3, lapStart: 1, lapEnd: 3, stintTime: 12 * time.Second},
		&pitPart{pitTime: 5 * time.Second},
	}}
	want := []PlanEntry{
		{Type: "stint", LapStart: 1, LapEnd: 3, Laps: 3, Seconds: 12, Output: "1-3 (3): 12s"},
		{Type: "pit", Seconds: 5, Output: "Pit 5s"},
	}
	if got := p.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}
