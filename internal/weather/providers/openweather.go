package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/rhythm-forecast/internal/weather"
	"github.com/sony/gobreaker"
)

// openWeatherMaxSlices is the 5-day limit of the 3-hourly forecast endpoint.
const openWeatherMaxSlices = 40

// OpenWeatherProvider implements weather.SampleSource for OpenWeatherMap's
// 3-hourly forecast. It reports neither local time nor dew point.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: DefaultHTTPConfig(client),
		circuit: newBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64  `json:"temp"`
			Humidity float64  `json:"humidity"`
			Pressure *float64 `json:"pressure"`
		} `json:"main"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop  float64 `json:"pop"`
		Rain struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

func (p *OpenWeatherProvider) FetchPoint(ctx context.Context, point weather.GeoPoint, days int) (weather.PointForecast, error) {
	if p.apiKey == "" {
		return weather.PointForecast{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	cnt := days * 8
	if cnt <= 0 || cnt > openWeatherMaxSlices {
		cnt = openWeatherMaxSlices
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", strconv.FormatFloat(point.Latitude, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(point.Longitude, 'f', 4, 64))
	values.Set("cnt", strconv.Itoa(cnt))

	var payload openWeatherResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.PointForecast{}, fmt.Errorf("openweather: %w", err)
	}

	return payload.toPointForecast(point), nil
}

func (r openWeatherResponse) toPointForecast(point weather.GeoPoint) weather.PointForecast {
	loc := time.FixedZone("", r.City.Timezone)
	pf := weather.PointForecast{Point: point}

	for _, item := range r.List {
		text := ""
		if len(item.Weather) > 0 {
			text = item.Weather[0].Description
		}
		pf.Hourly = append(pf.Hourly, weather.SampleSlice{
			Time:          time.Unix(item.Dt, 0).In(loc),
			TemperatureC:  item.Main.Temp,
			HumidityPct:   item.Main.Humidity,
			WindKph:       item.Wind.Speed * 3.6,
			CloudPct:      item.Clouds.All,
			PrecipMM:      item.Rain.ThreeH,
			ChanceOfRain:  item.Pop * 100,
			PressureHpa:   item.Main.Pressure,
			ConditionText: text,
		})
	}
	pf.Daily = weather.DailyFromHourly(pf.Hourly)
	return pf
}
