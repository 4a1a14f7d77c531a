package weather

import (
	"time"
)

// GeoPoint is a single sampling coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// City is a named place whose center anchors the sampling grid.
type City struct {
	Name      string   `json:"name"`
	LocalName string   `json:"localName,omitempty"`
	Country   string   `json:"country,omitempty"`
	Center    GeoPoint `json:"center"`
}

// SampleSlice is one time-stamped observation at one grid point.
// DewPointC and PressureHpa are optional; nil means the source did not report them.
type SampleSlice struct {
	Time          time.Time `json:"time"`
	TemperatureC  float64   `json:"temperatureC"`
	HumidityPct   float64   `json:"humidityPct"`
	WindKph       float64   `json:"windKph"`
	CloudPct      float64   `json:"cloudPct"`
	PrecipMM      float64   `json:"precipMm"`
	ChanceOfRain  float64   `json:"chanceOfRain"`
	DewPointC     *float64  `json:"dewPointC,omitempty"`
	PressureHpa   *float64  `json:"pressureHpa,omitempty"`
	ConditionText string    `json:"conditionText,omitempty"`
}

// FusedSlice is the central tendency of Points aligned samples.
type FusedSlice struct {
	SampleSlice
	Points int `json:"points"`
}

// DailySample is one calendar day of a point forecast.
type DailySample struct {
	Date          time.Time `json:"date"`
	AvgTempC      float64   `json:"avgTempC"`
	MinTempC      float64   `json:"minTempC"`
	MaxTempC      float64   `json:"maxTempC"`
	AvgHumidity   float64   `json:"avgHumidity"`
	MaxWindKph    float64   `json:"maxWindKph"`
	TotalPrecipMM float64   `json:"totalPrecipMm"`
	ChanceOfRain  float64   `json:"chanceOfRain"`
	ConditionText string    `json:"conditionText,omitempty"`
}

// PointForecast is the raw payload a SampleSource returns for one grid point.
// LocalNow is the location-local current time; zero when the source does not report it.
type PointForecast struct {
	Point    GeoPoint      `json:"point"`
	LocalNow time.Time     `json:"localNow"`
	Hourly   []SampleSlice `json:"hourly"`
	Daily    []DailySample `json:"daily"`
}

// HourlySlice is one scored and labelled hour of a RhythmReport.
// TemperatureC and HumidityPct are the fused observations; S is scored from
// their smoothed series.
type HourlySlice struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPct"`
	WindKph      float64   `json:"windKph"`
	CloudPct     float64   `json:"cloudPct"`
	PrecipMM     float64   `json:"precipMm"`
	ChanceOfRain float64   `json:"chanceOfRain"`
	Condition    Condition `json:"condition"`
	Sky          string    `json:"sky"`
	S            float64   `json:"s"`
}

// DailySummary is one scored and labelled day of a RhythmReport.
type DailySummary struct {
	Date          time.Time `json:"date"`
	MinTempC      float64   `json:"minTempC"`
	MaxTempC      float64   `json:"maxTempC"`
	AvgTempC      float64   `json:"avgTempC"`
	AvgHumidity   float64   `json:"avgHumidity"`
	TotalPrecipMM float64   `json:"totalPrecipMm"`
	ChanceOfRain  float64   `json:"chanceOfRain"`
	Condition     Condition `json:"condition"`
	Sky           string    `json:"sky"`
	S             float64   `json:"s"`
	Narrative     string    `json:"narrative"`
}

// RhythmReport is the result of one forecast run.
type RhythmReport struct {
	ID          string         `json:"id"`
	City        string         `json:"city"`
	Center      GeoPoint       `json:"center"`
	Points      int            `json:"points"`
	Source      string         `json:"source"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Options     Options        `json:"options"`
	Hourly      []HourlySlice  `json:"hourly"`
	Daily       []DailySummary `json:"daily"`
	MeanS       float64        `json:"meanS"`
	Narrative   string         `json:"narrative"`
}
