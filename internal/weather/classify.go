package weather

import "fmt"

// Condition is a sky-condition label derived from S.
type Condition string

const (
	// Instant tier.
	ConditionClear  Condition = "clear"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"

	// Daily tier (ConditionClear is shared).
	ConditionMostlyClear   Condition = "mostly_clear"
	ConditionPartlyCloudy  Condition = "partly_cloudy"
	ConditionMostlyCloudy  Condition = "mostly_cloudy"
	ConditionRainShower    Condition = "rain_shower"
	ConditionRainOrThunder Condition = "rain_or_thunder"

	// ConditionRainUnlikely replaces a rain label the precipitation signals do not support.
	ConditionRainUnlikely Condition = "mostly_cloudy_rain_unlikely"
)

// IsRain reports whether c belongs to the rain family.
func (c Condition) IsRain() bool {
	switch c {
	case ConditionRain, ConditionRainShower, ConditionRainOrThunder:
		return true
	}
	return false
}

// Tier selects the label set used by Classify.
type Tier string

const (
	TierInstant Tier = "instant"
	TierDaily   Tier = "daily"
)

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierInstant, TierDaily:
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Classify maps S to a label for the tier, then applies the two precipitation
// overrides in order: rain suppression and observed-rain precedence.
func Classify(s, rainMM, chanceOfRain float64, tier Tier) Condition {
	label := labelFor(s, tier)

	if rainMM < 0.1 && chanceOfRain < 10 && label.IsRain() {
		label = ConditionRainUnlikely
	}
	if rainMM > 0 && !label.IsRain() {
		label = ConditionRain
	}
	return label
}

func labelFor(s float64, tier Tier) Condition {
	if tier == TierDaily {
		switch {
		case s < 0.30:
			return ConditionClear
		case s < 0.45:
			return ConditionMostlyClear
		case s < 0.60:
			return ConditionPartlyCloudy
		case s < 0.75:
			return ConditionMostlyCloudy
		case s < 0.90:
			return ConditionRainShower
		default:
			return ConditionRainOrThunder
		}
	}

	switch {
	case s < 0.4:
		return ConditionClear
	case s < 0.75:
		return ConditionCloudy
	default:
		return ConditionRain
	}
}
