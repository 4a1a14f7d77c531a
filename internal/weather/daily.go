package weather

import (
	"math"
	"time"
)

// DailyFromHourly groups an hourly series by local calendar day for sources
// that do not publish a daily series. Days keep the order they first appear in.
func DailyFromHourly(hourly []SampleSlice) []DailySample {
	var (
		days   []DailySample
		counts []int
	)
	for _, h := range hourly {
		y, m, d := h.Time.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, h.Time.Location())

		last := len(days) - 1
		if last < 0 || !days[last].Date.Equal(date) {
			days = append(days, DailySample{
				Date:          date,
				MinTempC:      math.Inf(1),
				MaxTempC:      math.Inf(-1),
				ConditionText: h.ConditionText,
			})
			counts = append(counts, 0)
			last++
		}

		day := &days[last]
		counts[last]++
		day.AvgTempC += h.TemperatureC
		day.AvgHumidity += h.HumidityPct
		day.MinTempC = math.Min(day.MinTempC, h.TemperatureC)
		day.MaxTempC = math.Max(day.MaxTempC, h.TemperatureC)
		day.MaxWindKph = math.Max(day.MaxWindKph, h.WindKph)
		day.TotalPrecipMM += h.PrecipMM
		day.ChanceOfRain = math.Max(day.ChanceOfRain, h.ChanceOfRain)
		// Prefer midday condition text.
		if h.Time.Hour() >= 12 && h.Time.Hour() < 15 {
			day.ConditionText = h.ConditionText
		}
	}

	for i := range days {
		n := float64(counts[i])
		days[i].AvgTempC /= n
		days[i].AvgHumidity /= n
	}
	return days
}
