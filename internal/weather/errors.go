package weather

import (
	"errors"
	"fmt"
)

// ErrInsufficientData marks a forecast that could not be built because at
// least one grid point failed to fetch.
var ErrInsufficientData = errors.New("insufficient data for forecast")

// InputShapeError reports grid-point series that cannot be fused index-for-index.
type InputShapeError struct {
	Reason string
}

func (e *InputShapeError) Error() string {
	return "input shape: " + e.Reason
}

func shapeErrorf(format string, args ...any) error {
	return &InputShapeError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamFetchError wraps a SampleSource failure for one grid point.
type UpstreamFetchError struct {
	Source string
	Point  GeoPoint
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("%s fetch failed at %.4f,%.4f: %v", e.Source, e.Point.Latitude, e.Point.Longitude, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
