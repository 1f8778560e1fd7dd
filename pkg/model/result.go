package model

import "encoding/json"

type Status int

const (
	StatusOK Status = iota
	StatusNoData
	StatusInsufficientData
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no_data"
	case StatusInsufficientData:
		return "insufficient_data"
	}
	return "unknown"
}

// Result carries either a computed value or the reason why no value
// could be computed. Expected outcomes like missing or sparse data are
// reported via Status, never as error.
type Result[T any] struct {
	Status Status
	Value  T
	Reason string
}

func OK[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

func NoData[T any](reason string) Result[T] {
	return Result[T]{Status: StatusNoData, Reason: reason}
}

func Insufficient[T any](reason string) Result[T] {
	return Result[T]{Status: StatusInsufficientData, Reason: reason}
}

func (r Result[T]) IsOK() bool {
	return r.Status == StatusOK
}

// MarshalJSON renders the value for StatusOK, {"error": reason} for
// StatusNoData and {"message": reason} for StatusInsufficientData.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	switch r.Status {
	case StatusNoData:
		return json.Marshal(map[string]string{"error": r.Reason})
	case StatusInsufficientData:
		return json.Marshal(map[string]string{"message": r.Reason})
	default:
		return json.Marshal(r.Value)
	}
}

// Convert carries a non-OK result over to another value type
func Convert[T, U any](r Result[T]) Result[U] {
	return Result[U]{Status: r.Status, Reason: r.Reason}
}
