package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleAt(ts time.Time, temp, hum float64) SampleSlice {
	return SampleSlice{
		Time:         ts,
		TemperatureC: temp,
		HumidityPct:  hum,
		WindKph:      7.3,
		CloudPct:     42.1,
		PrecipMM:     0.1,
		ChanceOfRain: 13,
	}
}

func TestFuse_IdentityForRepeatedPoint(t *testing.T) {
	ts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	s := SampleSlice{
		Time:          ts,
		TemperatureC:  21.7,
		HumidityPct:   63.3,
		WindKph:       0.1,
		CloudPct:      17.9,
		PrecipMM:      0.3,
		ChanceOfRain:  41,
		DewPointC:     ptr(14.2),
		PressureHpa:   ptr(1009.7),
		ConditionText: "Patchy rain nearby",
	}

	for _, tc := range []struct {
		reducer Reducer
		n       int
	}{
		{ReducerMean, 3},
		{ReducerMean, 4},
		{ReducerMedian, 5},
		{ReducerMedian, 9},
	} {
		t.Run(string(tc.reducer), func(t *testing.T) {
			samples := make([]SampleSlice, tc.n)
			for i := range samples {
				samples[i] = s
			}
			fused, err := Fuse(samples, tc.reducer)
			require.NoError(t, err)

			assert.Equal(t, tc.n, fused.Points)
			assert.Equal(t, s.TemperatureC, fused.TemperatureC)
			assert.Equal(t, s.HumidityPct, fused.HumidityPct)
			assert.Equal(t, s.WindKph, fused.WindKph)
			assert.Equal(t, s.CloudPct, fused.CloudPct)
			assert.Equal(t, s.PrecipMM, fused.PrecipMM)
			assert.Equal(t, s.ChanceOfRain, fused.ChanceOfRain)
			require.NotNil(t, fused.DewPointC)
			assert.Equal(t, *s.DewPointC, *fused.DewPointC)
			require.NotNil(t, fused.PressureHpa)
			assert.Equal(t, *s.PressureHpa, *fused.PressureHpa)
			assert.Equal(t, s.ConditionText, fused.ConditionText)
			assert.True(t, fused.Time.Equal(ts))
		})
	}
}

func TestFuse_MeanAndMedian(t *testing.T) {
	ts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	samples := []SampleSlice{
		sampleAt(ts, 10, 50),
		sampleAt(ts, 12, 60),
		sampleAt(ts, 32, 70),
	}
	samples[0].ConditionText = "Sunny"
	samples[1].ConditionText = "Overcast"

	mean, err := Fuse(samples, ReducerMean)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, mean.TemperatureC, 1e-9)
	assert.InDelta(t, 60.0, mean.HumidityPct, 1e-9)
	assert.Equal(t, "Sunny", mean.ConditionText)

	median, err := Fuse(samples, ReducerMedian)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, median.TemperatureC, 1e-9)
	assert.InDelta(t, 60.0, median.HumidityPct, 1e-9)
	assert.Equal(t, "Sunny", median.ConditionText)
}

func TestFuse_AbsentOptionalCountsAsZero(t *testing.T) {
	ts := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a := sampleAt(ts, 20, 50)
	a.DewPointC = ptr(12)
	b := sampleAt(ts, 20, 50)

	fused, err := Fuse([]SampleSlice{a, b}, ReducerMean)
	require.NoError(t, err)
	require.NotNil(t, fused.DewPointC)
	assert.InDelta(t, 6.0, *fused.DewPointC, 1e-9)
	assert.Nil(t, fused.PressureHpa, "field absent at every point stays absent")
}

func TestFuse_EmptyInput(t *testing.T) {
	_, err := Fuse(nil, ReducerMean)
	var shapeErr *InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestFuseSeries_ShapeErrors(t *testing.T) {
	t0 := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tests := []struct {
		name   string
		points [][]SampleSlice
	}{
		{"no points", nil},
		{"length mismatch", [][]SampleSlice{
			{sampleAt(t0, 1, 1), sampleAt(t1, 1, 1)},
			{sampleAt(t0, 1, 1)},
		}},
		{"timestamp mismatch", [][]SampleSlice{
			{sampleAt(t0, 1, 1), sampleAt(t1, 1, 1)},
			{sampleAt(t0, 1, 1), sampleAt(t1.Add(time.Hour), 1, 1)},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FuseSeries(tc.points, ReducerMean)
			var shapeErr *InputShapeError
			require.Error(t, err)
			assert.True(t, errors.As(err, &shapeErr))
		})
	}
}

func TestFuseSeries_Aligned(t *testing.T) {
	t0 := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	points := [][]SampleSlice{
		{sampleAt(t0, 10, 40), sampleAt(t1, 20, 80)},
		{sampleAt(t0, 14, 60), sampleAt(t1, 22, 90)},
	}

	fused, err := FuseSeries(points, ReducerMean)
	require.NoError(t, err)
	require.Len(t, fused, 2)
	assert.InDelta(t, 12.0, fused[0].TemperatureC, 1e-9)
	assert.InDelta(t, 50.0, fused[0].HumidityPct, 1e-9)
	assert.InDelta(t, 21.0, fused[1].TemperatureC, 1e-9)
	assert.InDelta(t, 85.0, fused[1].HumidityPct, 1e-9)
	assert.True(t, fused[1].Time.Equal(t1))
}

func TestFuseDaily(t *testing.T) {
	d0 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	day := func(date time.Time, avg, precip float64) DailySample {
		return DailySample{Date: date, AvgTempC: avg, MinTempC: avg - 5, MaxTempC: avg + 5, AvgHumidity: 70, MaxWindKph: 12, TotalPrecipMM: precip, ChanceOfRain: 30, ConditionText: "Cloudy"}
	}

	fused, err := FuseDaily([][]DailySample{
		{day(d0, 20, 0), day(d0.AddDate(0, 0, 1), 22, 2)},
		{day(d0, 24, 4), day(d0.AddDate(0, 0, 1), 26, 0)},
	}, ReducerMean)
	require.NoError(t, err)
	require.Len(t, fused, 2)
	assert.InDelta(t, 22.0, fused[0].AvgTempC, 1e-9)
	assert.InDelta(t, 17.0, fused[0].MinTempC, 1e-9)
	assert.InDelta(t, 2.0, fused[0].TotalPrecipMM, 1e-9)
	assert.Equal(t, "Cloudy", fused[1].ConditionText)

	_, err = FuseDaily([][]DailySample{
		{day(d0, 20, 0)},
		{day(d0.AddDate(0, 0, 1), 20, 0)},
	}, ReducerMean)
	var shapeErr *InputShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestParseReducer(t *testing.T) {
	r, err := ParseReducer("median")
	require.NoError(t, err)
	assert.Equal(t, ReducerMedian, r)

	_, err = ParseReducer("mode")
	assert.Error(t, err)
}

func TestGridPoints(t *testing.T) {
	center := GeoPoint{Latitude: 37.5665, Longitude: 126.9780, Altitude: 20}

	assert.Equal(t, []GeoPoint{center}, GridPoints(center, GridSingle, 0.03))

	cross := GridPoints(center, GridCross, 0.03)
	require.Len(t, cross, 5)
	assert.Equal(t, center, cross[0])
	assert.InDelta(t, 37.5965, cross[1].Latitude, 1e-9)
	assert.InDelta(t, 126.9480, cross[4].Longitude, 1e-9)

	square := GridPoints(center, GridSquare, 0.05)
	require.Len(t, square, 9)
	assert.Equal(t, center, square[0])
	seen := map[GeoPoint]bool{}
	for _, p := range square {
		assert.Equal(t, center.Altitude, p.Altitude)
		seen[p] = true
	}
	assert.Len(t, seen, 9, "grid points are distinct")
}
