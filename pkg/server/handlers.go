package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/apex-racing/grcup-analytics/log"
	"github.com/apex-racing/grcup-analytics/pkg/analysis/strategy"
	"github.com/apex-racing/grcup-analytics/pkg/datasource"
	"github.com/apex-racing/grcup-analytics/version"
)

var errInvalidParam = errors.New("invalid parameter")

type params struct {
	track, session, driver string
}

func pathParams(r *http.Request) params {
	return params{
		track:   r.PathValue("track"),
		session: r.PathValue("session"),
		driver:  r.PathValue("driver"),
	}
}

func lapParam(r *http.Request) (int, error) {
	lap, err := strconv.Atoi(r.PathValue("lap"))
	if err != nil {
		return 0, fmt.Errorf("%w: lap %q", errInvalidParam, r.PathValue("lap"))
	}
	return lap, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError maps err to the status code. Logical failures like missing
// data never get here, they are part of the json payload.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, datasource.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, strategy.ErrInvalidRequest), errors.Is(err, errInvalidParam):
		status = http.StatusUnprocessableEntity
	}
	level := log.DebugLevel
	if status == http.StatusInternalServerError {
		level = log.ErrorLevel
	}
	s.log.Log(level, "request failed",
		log.String("path", r.URL.Path),
		log.Int("status", status),
		log.ErrorField(err))
	http.Error(w, err.Error(), status)
}

// serve writes the result of fn as json
func serve[T any](s *Server, fn func(r *http.Request, p params) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r, pathParams(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, v); err != nil {
			s.log.Warn("could not write response", log.ErrorField(err))
		}
	}
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	//nolint:errcheck // best effort
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "GR Cup Racing Intelligence API",
		"version": version.Version,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	//nolint:errcheck // best effort
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) tracks(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, _ params) ([]string, error) {
		return s.svc.Tracks(r.Context())
	})(w, r)
}

func (s *Server) sessions(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) ([]string, error) {
		return s.svc.Sessions(r.Context(), p.track)
	})(w, r)
}

func (s *Server) drivers(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) ([]string, error) {
		return s.svc.Drivers(r.Context(), p.track, p.session)
	})(w, r)
}

func (s *Server) bestLap(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.BestLap(r.Context(), p.track, p.session)
	})(w, r)
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.Performance(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) detailedPerformance(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.DetailedPerformance(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) consistency(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.Consistency(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) tireDegradation(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.TireDegradation(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) pitStrategy(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		var req strategy.PitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %w", strategy.ErrInvalidRequest, err)
		}
		return s.svc.PitStrategy(r.Context(), p.track, p.session, p.driver, req)
	})(w, r)
}

func (s *Server) speedAnalysis(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.Speed(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) brakingAnalysis(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.Braking(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) corneringAnalysis(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.Cornering(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) basicSpeed(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.BasicSpeed(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) basicBraking(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		return s.svc.BasicBraking(r.Context(), p.track, p.session, p.driver)
	})(w, r)
}

func (s *Server) lapTelemetry(w http.ResponseWriter, r *http.Request) {
	serve(s, func(r *http.Request, p params) (any, error) {
		lap, err := lapParam(r)
		if err != nil {
			return nil, err
		}
		return s.svc.LapTelemetry(r.Context(), p.track, p.session, p.driver, lap)
	})(w, r)
}
