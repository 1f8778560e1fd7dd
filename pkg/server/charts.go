package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/laps"
	"github.com/apex-racing/grcup-analytics/pkg/model"
	"github.com/apex-racing/grcup-analytics/pkg/numeric"
)

func (s *Server) initOpts(title string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  title,
		Width:      "100%",
		Height:     "600px",
		AssetsHost: s.assetsHost,
	}
}

func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, line *charts.Line) {
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeError(w, r, fmt.Errorf("render chart: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Warn("could not write chart", log.ErrorField(err))
	}
}

// tireDegradationChart plots the delta to the best lap per lap. Results
// without data are returned as json like the api endpoint.
func (s *Server) tireDegradationChart(w http.ResponseWriter, r *http.Request) {
	p := pathParams(r)
	res, err := s.svc.TireDegradation(r.Context(), p.track, p.session, p.driver)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !res.IsOK() {
		//nolint:errcheck // best effort
		writeJSON(w, http.StatusOK, res)
		return
	}
	deg := res.Value
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(s.initOpts("Tire degradation")),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Tire degradation %s", p.driver),
			Subtitle: fmt.Sprintf("%s %s, %.3f s/lap", p.track, p.session,
				numeric.Round(deg.DegradationRatePerLap, 3)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "lap"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "delta to best (s)"}),
	)
	line.SetXAxis(lo.Map(deg.LapDeltas, func(d laps.LapDelta, _ int) string {
		return strconv.Itoa(d.Lap)
	})).AddSeries("delta", lo.Map(deg.LapDeltas, func(d laps.LapDelta, _ int) opts.LineData {
		return opts.LineData{Value: numeric.Round(d.Delta, 3)}
	}), charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	s.writeChart(w, r, line)
}

// lapSpeedChart plots the vehicle speed over the time since lap start
func (s *Server) lapSpeedChart(w http.ResponseWriter, r *http.Request) {
	p := pathParams(r)
	lap, err := lapParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trace, err := s.svc.LapSpeedTrace(r.Context(), p.track, p.session, p.driver, lap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(trace) == 0 {
		//nolint:errcheck // best effort
		writeJSON(w, http.StatusOK, model.NoData[any](fmt.Sprintf("No data for lap %d", lap)))
		return
	}
	start := trace[0].Timestamp
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(s.initOpts("Lap speed")),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Speed %s lap %d", p.driver, lap),
			Subtitle: fmt.Sprintf("%s %s", p.track, p.session),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "speed (km/h)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(lo.Map(trace, func(v model.TelemetrySample, _ int) string {
		return strconv.FormatFloat(v.Timestamp.Sub(start).Seconds(), 'f', 1, 64)
	})).AddSeries("speed", lo.Map(trace, func(v model.TelemetrySample, _ int) opts.LineData {
		return opts.LineData{Value: v.Value}
	}), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	s.writeChart(w, r, line)
}
