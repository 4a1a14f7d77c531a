package weather

import (
	"strings"

	"github.com/i474232898/rhythm-forecast/internal/common"
)

// DescribeSky reduces a provider's free-form condition text to a short sky
// description shown next to the derived label.
func DescribeSky(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return "unknown"
	case common.HasAny(t, "sunny", "clear"):
		return "clear"
	case common.HasAny(t, "partly", "mostly"):
		return "mostly clear"
	case strings.Contains(t, "cloud"):
		return "partly cloudy"
	case strings.Contains(t, "overcast"):
		return "mostly cloudy"
	case strings.Contains(t, "rain") && strings.Contains(t, "snow"):
		return "rain or snow"
	case common.HasAny(t, "rain", "drizzle", "shower"):
		return "rain or shower"
	case common.HasAny(t, "snow", "sleet"):
		return "snow"
	case common.HasAny(t, "fog", "mist", "haze"):
		return "fog"
	default:
		return "other"
	}
}
