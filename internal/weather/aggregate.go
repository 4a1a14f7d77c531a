package weather

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
)

// Reducer selects how per-point values are combined into one fused value.
type Reducer string

const (
	ReducerMean   Reducer = "mean"
	ReducerMedian Reducer = "median"
)

// ParseReducer validates a reducer name.
func ParseReducer(s string) (Reducer, error) {
	switch r := Reducer(s); r {
	case ReducerMean, ReducerMedian:
		return r, nil
	}
	return "", fmt.Errorf("unknown reducer %q", s)
}

func (r Reducer) reduce(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	// Identical inputs reduce to themselves exactly; summing and dividing would
	// not preserve fractional values bit-for-bit.
	if allEqual(xs) {
		return xs[0]
	}

	var (
		v   float64
		err error
	)
	switch r {
	case ReducerMedian:
		v, err = stats.Median(xs)
	default:
		v, err = stats.Mean(xs)
	}
	if err != nil {
		return 0
	}
	return v
}

func allEqual(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Fuse combines the samples of N grid points sharing one nominal timestamp.
// Absent optional values count as 0; an optional field stays nil only when no
// point reported it. The center (first) point supplies the timestamp and
// condition text.
func Fuse(samples []SampleSlice, r Reducer) (FusedSlice, error) {
	if len(samples) == 0 {
		return FusedSlice{}, shapeErrorf("no grid points to fuse")
	}

	n := len(samples)
	var (
		temp     = make([]float64, n)
		humidity = make([]float64, n)
		wind     = make([]float64, n)
		cloud    = make([]float64, n)
		precip   = make([]float64, n)
		chance   = make([]float64, n)
		dew      = make([]float64, n)
		pressure = make([]float64, n)
		hasDew   bool
		hasPres  bool
	)

	for i, s := range samples {
		temp[i] = s.TemperatureC
		humidity[i] = s.HumidityPct
		wind[i] = s.WindKph
		cloud[i] = s.CloudPct
		precip[i] = s.PrecipMM
		chance[i] = s.ChanceOfRain
		if s.DewPointC != nil {
			dew[i] = *s.DewPointC
			hasDew = true
		}
		if s.PressureHpa != nil {
			pressure[i] = *s.PressureHpa
			hasPres = true
		}
	}

	center := samples[0]
	fused := FusedSlice{
		SampleSlice: SampleSlice{
			Time:          center.Time,
			TemperatureC:  r.reduce(temp),
			HumidityPct:   r.reduce(humidity),
			WindKph:       r.reduce(wind),
			CloudPct:      r.reduce(cloud),
			PrecipMM:      r.reduce(precip),
			ChanceOfRain:  r.reduce(chance),
			ConditionText: center.ConditionText,
		},
		Points: n,
	}
	if hasDew {
		v := r.reduce(dew)
		fused.DewPointC = &v
	}
	if hasPres {
		v := r.reduce(pressure)
		fused.PressureHpa = &v
	}
	return fused, nil
}

// FuseSeries fuses N aligned per-point hourly series slice by slice.
// Every series must have the same length and the same timestamp at each index.
func FuseSeries(points [][]SampleSlice, r Reducer) ([]FusedSlice, error) {
	if len(points) == 0 {
		return nil, shapeErrorf("no grid point series")
	}

	length := len(points[0])
	for i, series := range points {
		if len(series) != length {
			return nil, shapeErrorf("point %d has %d slices, want %d", i, len(series), length)
		}
	}

	out := make([]FusedSlice, length)
	column := make([]SampleSlice, len(points))
	for idx := 0; idx < length; idx++ {
		for p, series := range points {
			if !series[idx].Time.Equal(points[0][idx].Time) {
				return nil, shapeErrorf("point %d slice %d at %s, want %s",
					p, idx, series[idx].Time.Format("2006-01-02T15:04"), points[0][idx].Time.Format("2006-01-02T15:04"))
			}
			column[p] = series[idx]
		}
		fused, err := Fuse(column, r)
		if err != nil {
			return nil, err
		}
		out[idx] = fused
	}
	return out, nil
}

// FuseDaily fuses N aligned per-point daily series day by day.
func FuseDaily(points [][]DailySample, r Reducer) ([]DailySample, error) {
	if len(points) == 0 {
		return nil, shapeErrorf("no grid point daily series")
	}

	length := len(points[0])
	for i, series := range points {
		if len(series) != length {
			return nil, shapeErrorf("point %d has %d days, want %d", i, len(series), length)
		}
	}

	n := len(points)
	out := make([]DailySample, length)
	for idx := 0; idx < length; idx++ {
		var (
			avgT   = make([]float64, n)
			minT   = make([]float64, n)
			maxT   = make([]float64, n)
			hum    = make([]float64, n)
			wind   = make([]float64, n)
			precip = make([]float64, n)
			chance = make([]float64, n)
		)
		center := points[0][idx]
		for p, series := range points {
			d := series[idx]
			if !sameDate(d.Date, center.Date) {
				return nil, shapeErrorf("point %d day %d is %s, want %s",
					p, idx, d.Date.Format("2006-01-02"), center.Date.Format("2006-01-02"))
			}
			avgT[p] = d.AvgTempC
			minT[p] = d.MinTempC
			maxT[p] = d.MaxTempC
			hum[p] = d.AvgHumidity
			wind[p] = d.MaxWindKph
			precip[p] = d.TotalPrecipMM
			chance[p] = d.ChanceOfRain
		}
		out[idx] = DailySample{
			Date:          center.Date,
			AvgTempC:      r.reduce(avgT),
			MinTempC:      r.reduce(minT),
			MaxTempC:      r.reduce(maxT),
			AvgHumidity:   r.reduce(hum),
			MaxWindKph:    r.reduce(wind),
			TotalPrecipMM: r.reduce(precip),
			ChanceOfRain:  r.reduce(chance),
			ConditionText: center.ConditionText,
		}
	}
	return out, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
