package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/rhythm-forecast/internal/weather"
	"github.com/sony/gobreaker"
)

var openMeteoHourly = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"wind_speed_10m",
	"cloud_cover",
	"precipitation",
	"precipitation_probability",
	"dew_point_2m",
	"pressure_msl",
	"weather_code",
}

// OpenMeteoProvider implements weather.SampleSource for Open-Meteo. It needs
// no API key; the daily series is derived from the hourly one.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: DefaultHTTPConfig(client),
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoResponse struct {
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Timezone         string `json:"timezone"`
	Current          struct {
		Time int64 `json:"time"`
	} `json:"current"`
	Hourly struct {
		Time                     []int64    `json:"time"`
		Temperature2m            []*float64 `json:"temperature_2m"`
		RelativeHumidity2m       []*float64 `json:"relative_humidity_2m"`
		WindSpeed10m             []*float64 `json:"wind_speed_10m"`
		CloudCover               []*float64 `json:"cloud_cover"`
		Precipitation            []*float64 `json:"precipitation"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
		DewPoint2m               []*float64 `json:"dew_point_2m"`
		PressureMSL              []*float64 `json:"pressure_msl"`
		WeatherCode              []*int     `json:"weather_code"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) FetchPoint(ctx context.Context, point weather.GeoPoint, days int) (weather.PointForecast, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(point.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(point.Longitude, 'f', 4, 64))
	values.Set("elevation", strconv.FormatFloat(point.Altitude, 'f', 0, 64))
	values.Set("hourly", strings.Join(openMeteoHourly, ","))
	values.Set("current", "weather_code")
	values.Set("wind_speed_unit", "kmh")
	values.Set("timezone", "auto")
	values.Set("timeformat", "unixtime")
	values.Set("forecast_days", strconv.Itoa(days))

	var payload openMeteoResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.PointForecast{}, fmt.Errorf("openmeteo: %w", err)
	}

	return payload.toPointForecast(point), nil
}

func (r openMeteoResponse) toPointForecast(point weather.GeoPoint) weather.PointForecast {
	loc := time.FixedZone(r.Timezone, r.UTCOffsetSeconds)
	pf := weather.PointForecast{Point: point}
	if r.Current.Time > 0 {
		pf.LocalNow = time.Unix(r.Current.Time, 0).In(loc)
	}

	h := r.Hourly
	for i, ts := range h.Time {
		code := -1
		if i < len(h.WeatherCode) && h.WeatherCode[i] != nil {
			code = *h.WeatherCode[i]
		}
		pf.Hourly = append(pf.Hourly, weather.SampleSlice{
			Time:          time.Unix(ts, 0).In(loc),
			TemperatureC:  valueOr(at(h.Temperature2m, i), 0),
			HumidityPct:   valueOr(at(h.RelativeHumidity2m, i), 0),
			WindKph:       valueOr(at(h.WindSpeed10m, i), 0),
			CloudPct:      valueOr(at(h.CloudCover, i), 0),
			PrecipMM:      valueOr(at(h.Precipitation, i), 0),
			ChanceOfRain:  valueOr(at(h.PrecipitationProbability, i), 0),
			DewPointC:     at(h.DewPoint2m, i),
			PressureHpa:   at(h.PressureMSL, i),
			ConditionText: openMeteoConditionText(code),
		})
	}
	pf.Daily = weather.DailyFromHourly(pf.Hourly)
	return pf
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}

// openMeteoConditionText maps WMO weather codes to descriptive text.
func openMeteoConditionText(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1 || code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return ""
	}
}
