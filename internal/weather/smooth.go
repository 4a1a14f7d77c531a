package weather

import "fmt"

// DefaultEMAAlpha is the decay factor used when none is configured.
const DefaultEMAAlpha = 0.25

// SmoothingMode selects the temporal smoothing applied before scoring.
type SmoothingMode string

const (
	SmoothingMovingAverage SmoothingMode = "moving-average"
	SmoothingEMA           SmoothingMode = "ema"
	SmoothingNone          SmoothingMode = "none"
)

// ParseSmoothingMode validates a smoothing mode name.
func ParseSmoothingMode(s string) (SmoothingMode, error) {
	switch m := SmoothingMode(s); m {
	case SmoothingMovingAverage, SmoothingEMA, SmoothingNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown smoothing mode %q", s)
}

// MovingAverage3 averages each element with its neighbours; a missing
// neighbour at either end is replaced by the element itself.
func MovingAverage3(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) < 2 {
		copy(out, xs)
		return out
	}
	for i, x := range xs {
		prev, next := x, x
		if i > 0 {
			prev = xs[i-1]
		}
		if i < len(xs)-1 {
			next = xs[i+1]
		}
		out[i] = (prev + x + next) / 3
	}
	return out
}

// EMA computes ema[0] = x[0], ema[i] = alpha*x[i] + (1-alpha)*ema[i-1].
func EMA(xs []float64, alpha float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Smoother applies one smoothing mode to scalar series.
type Smoother struct {
	Mode  SmoothingMode
	Alpha float64
}

// Smooth returns a smoothed copy of xs with the same length.
func (s Smoother) Smooth(xs []float64) []float64 {
	switch s.Mode {
	case SmoothingEMA:
		alpha := s.Alpha
		if alpha <= 0 || alpha > 1 {
			alpha = DefaultEMAAlpha
		}
		return EMA(xs, alpha)
	case SmoothingNone:
		out := make([]float64, len(xs))
		copy(out, xs)
		return out
	default:
		return MovingAverage3(xs)
	}
}

// SmoothFields smooths temperature and humidity independently and returns
// new slices; the input is left untouched.
func SmoothFields(slices []FusedSlice, s Smoother) []FusedSlice {
	temps := make([]float64, len(slices))
	hums := make([]float64, len(slices))
	for i, sl := range slices {
		temps[i] = sl.TemperatureC
		hums[i] = sl.HumidityPct
	}
	temps = s.Smooth(temps)
	hums = s.Smooth(hums)

	out := make([]FusedSlice, len(slices))
	for i, sl := range slices {
		sl.TemperatureC = temps[i]
		sl.HumidityPct = hums[i]
		out[i] = sl
	}
	return out
}
