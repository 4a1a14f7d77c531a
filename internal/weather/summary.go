package weather

// dailyCloudPct stands in for cloud cover, which daily series do not carry reliably.
const dailyCloudPct = 50

// Narrative bands over mean S.
const (
	NarrativeStable      = "Stable: mostly clear"
	NarrativeEquilibrium = "Equilibrium: cloudy periods"
	NarrativeUnstable    = "Unstable: occasional showers"
	NarrativeActive      = "Active: cloudy or rainy"
)

// DailyScore scores one day from its average temperature, average humidity
// and maximum wind, with cloud fixed at 50%.
func DailyScore(day DailySample, point GeoPoint, scorer Scorer) float64 {
	return scorer.Score(ScoreInput{
		TemperatureC: day.AvgTempC,
		HumidityPct:  day.AvgHumidity,
		WindKph:      day.MaxWindKph,
		CloudPct:     dailyCloudPct,
		Latitude:     point.Latitude,
		Altitude:     point.Altitude,
	})
}

// Narrative maps a mean S to its band text.
func Narrative(meanS float64) string {
	switch {
	case meanS < 0.35:
		return NarrativeStable
	case meanS < 0.55:
		return NarrativeEquilibrium
	case meanS < 0.85:
		return NarrativeUnstable
	default:
		return NarrativeActive
	}
}

// Summarize returns the narrative band and mean S over days.
// An empty input yields an empty narrative and 0.
func Summarize(days []DailySample, point GeoPoint, scorer Scorer) (string, float64) {
	if len(days) == 0 {
		return "", 0
	}
	var sum float64
	for _, d := range days {
		sum += DailyScore(d, point, scorer)
	}
	meanS := sum / float64(len(days))
	return Narrative(meanS), meanS
}
