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

// WeatherAPIProvider implements weather.SampleSource for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: DefaultHTTPConfig(client),
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPIHour struct {
	TimeEpoch    int64               `json:"time_epoch"`
	TempC        float64             `json:"temp_c"`
	Humidity     float64             `json:"humidity"`
	WindKph      float64             `json:"wind_kph"`
	Cloud        float64             `json:"cloud"`
	PrecipMM     float64             `json:"precip_mm"`
	ChanceOfRain float64             `json:"chance_of_rain"`
	DewPointC    *float64            `json:"dewpoint_c"`
	PressureMB   *float64            `json:"pressure_mb"`
	Condition    weatherAPICondition `json:"condition"`
}

type weatherAPIResponse struct {
	Location struct {
		TzID           string `json:"tz_id"`
		LocaltimeEpoch int64  `json:"localtime_epoch"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC          float64             `json:"maxtemp_c"`
				MinTempC          float64             `json:"mintemp_c"`
				AvgTempC          float64             `json:"avgtemp_c"`
				MaxWindKph        float64             `json:"maxwind_kph"`
				TotalPrecipMM     float64             `json:"totalprecip_mm"`
				AvgHumidity       float64             `json:"avghumidity"`
				DailyChanceOfRain float64             `json:"daily_chance_of_rain"`
				Condition         weatherAPICondition `json:"condition"`
			} `json:"day"`
			Hour []weatherAPIHour `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchPoint(ctx context.Context, point weather.GeoPoint, days int) (weather.PointForecast, error) {
	if p.apiKey == "" {
		return weather.PointForecast{}, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", point.Latitude, point.Longitude))
	values.Set("days", strconv.Itoa(days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	var payload weatherAPIResponse
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.PointForecast{}, fmt.Errorf("weatherapi: %w", err)
	}

	return payload.toPointForecast(point), nil
}

func (r weatherAPIResponse) toPointForecast(point weather.GeoPoint) weather.PointForecast {
	loc := time.UTC
	if r.Location.TzID != "" {
		if l, err := time.LoadLocation(r.Location.TzID); err == nil {
			loc = l
		}
	}

	pf := weather.PointForecast{Point: point}
	if r.Location.LocaltimeEpoch > 0 {
		pf.LocalNow = time.Unix(r.Location.LocaltimeEpoch, 0).In(loc)
	}

	for _, fd := range r.Forecast.ForecastDay {
		date, err := time.ParseInLocation("2006-01-02", fd.Date, loc)
		if err != nil {
			continue
		}
		pf.Daily = append(pf.Daily, weather.DailySample{
			Date:          date,
			AvgTempC:      fd.Day.AvgTempC,
			MinTempC:      fd.Day.MinTempC,
			MaxTempC:      fd.Day.MaxTempC,
			AvgHumidity:   fd.Day.AvgHumidity,
			MaxWindKph:    fd.Day.MaxWindKph,
			TotalPrecipMM: fd.Day.TotalPrecipMM,
			ChanceOfRain:  fd.Day.DailyChanceOfRain,
			ConditionText: fd.Day.Condition.Text,
		})

		for _, h := range fd.Hour {
			pf.Hourly = append(pf.Hourly, weather.SampleSlice{
				Time:          time.Unix(h.TimeEpoch, 0).In(loc),
				TemperatureC:  h.TempC,
				HumidityPct:   h.Humidity,
				WindKph:       h.WindKph,
				CloudPct:      h.Cloud,
				PrecipMM:      h.PrecipMM,
				ChanceOfRain:  h.ChanceOfRain,
				DewPointC:     h.DewPointC,
				PressureHpa:   h.PressureMB,
				ConditionText: h.Condition.Text,
			})
		}
	}
	return pf
}
