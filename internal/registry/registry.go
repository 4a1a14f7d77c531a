package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/rhythm-forecast/internal/common"
	"github.com/i474232898/rhythm-forecast/internal/weather"
)

// ErrUnknownCity is returned when a name is neither registered nor geocodable.
var ErrUnknownCity = errors.New("unknown city")

// GeocodeFunc resolves a free-form city name to coordinates.
type GeocodeFunc func(name string) (weather.GeoPoint, error)

// DefaultCities is the built-in city table.
func DefaultCities() []weather.City {
	city := func(name, local, country string, lat, lon, alt float64) weather.City {
		return weather.City{
			Name:      name,
			LocalName: local,
			Country:   country,
			Center:    weather.GeoPoint{Latitude: lat, Longitude: lon, Altitude: alt},
		}
	}
	return []weather.City{
		city("Seoul", "서울", "KR", 37.5665, 126.9780, 20),
		city("Suwon", "수원", "KR", 37.2636, 127.0286, 30),
		city("Yongin", "용인", "KR", 37.2753, 127.1159, 70),
		city("Ansan", "안산", "KR", 37.3219, 126.8309, 15),
		city("Anyang", "안양", "KR", 37.3943, 126.9568, 25),
		city("Gangneung", "강릉", "KR", 37.7519, 128.8761, 50),
		city("Busan", "부산", "KR", 35.1796, 129.0756, 5),
		city("Osaka", "大阪", "JP", 34.6937, 135.5023, 10),
		city("Fukuoka", "福岡", "JP", 33.5902, 130.4017, 20),
		city("Yufuin", "湯布院", "JP", 33.2659, 131.3461, 150),
		city("Nagoya", "名古屋", "JP", 35.1815, 136.9066, 15),
		city("Matsuyama", "松山", "JP", 33.8393, 132.7657, 30),
	}
}

// Registry looks up cities by English or local name, case-insensitively.
// Unregistered names go to the geocoder, when one is configured, and are
// remembered for later lookups.
type Registry struct {
	mu      sync.RWMutex
	cities  []weather.City
	index   map[string]weather.City
	geocode GeocodeFunc
}

// New builds a Registry. geocode may be nil.
func New(cities []weather.City, geocode GeocodeFunc) *Registry {
	r := &Registry{
		index:   make(map[string]weather.City, len(cities)*2),
		geocode: geocode,
	}
	for _, c := range cities {
		r.add(c)
	}
	return r
}

func (r *Registry) add(c weather.City) {
	r.cities = append(r.cities, c)
	r.index[common.NormalizeKey(c.Name)] = c
	if c.LocalName != "" {
		r.index[common.NormalizeKey(c.LocalName)] = c
	}
}

// Lookup resolves name to a City.
func (r *Registry) Lookup(name string) (weather.City, error) {
	key := common.NormalizeKey(name)
	if key == "" {
		return weather.City{}, fmt.Errorf("%w: empty name", ErrUnknownCity)
	}

	r.mu.RLock()
	c, ok := r.index[key]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	if r.geocode == nil {
		return weather.City{}, fmt.Errorf("%w: %s", ErrUnknownCity, name)
	}
	point, err := r.geocode(strings.TrimSpace(name))
	if err != nil {
		return weather.City{}, fmt.Errorf("%w: %s: %v", ErrUnknownCity, name, err)
	}

	c = weather.City{Name: strings.TrimSpace(name), Center: point}
	r.mu.Lock()
	if existing, ok := r.index[key]; ok {
		c = existing
	} else {
		r.add(c)
	}
	r.mu.Unlock()
	return c, nil
}

// List returns all known cities sorted by name.
func (r *Registry) List() []weather.City {
	r.mu.RLock()
	out := make([]weather.City, len(r.cities))
	copy(out, r.cities)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// KelvinsGeocoder resolves names through the Google Geocoding API.
func KelvinsGeocoder(apiKey string) GeocodeFunc {
	geocoder.ApiKey = apiKey
	return func(name string) (weather.GeoPoint, error) {
		loc, err := geocoder.Geocoding(geocoder.Address{City: name})
		if err != nil {
			return weather.GeoPoint{}, err
		}
		return weather.GeoPoint{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
	}
}
