package weather

import (
	"fmt"
	"math"
	"time"
)

// MaxS is the upper bound of the rhythm stability index.
const MaxS = 3.0

// Strategy names a scoring formula. Downstream thresholds are tuned per strategy.
type Strategy string

const (
	// StrategyInteraction is the composite instability index with
	// humidity/cloud interaction terms and site correction.
	StrategyInteraction Strategy = "interaction"
	// StrategyGaussian is the Gaussian-product comfort form used for coarse scoring.
	StrategyGaussian Strategy = "gaussian"
	// StrategyLinear is the legacy weighted sum.
	StrategyLinear Strategy = "linear"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyInteraction, StrategyGaussian, StrategyLinear:
		return st, nil
	}
	return "", fmt.Errorf("unknown scorer strategy %q", s)
}

// ScoreInput carries one slice of inputs to the scorer.
// A zero Time disables the nocturnal and seasonal dampening.
type ScoreInput struct {
	TemperatureC float64
	HumidityPct  float64
	WindKph      float64
	CloudPct     float64
	DewPointC    *float64
	PressureHpa  *float64
	Latitude     float64
	Altitude     float64
	Time         time.Time
}

// Scorer computes S for a single slice. It never fails.
type Scorer struct {
	Strategy Strategy
	// ZetaCorrection modulates the gaussian form by a truncated zeta series.
	ZetaCorrection bool
}

// Score returns S in [0, MaxS].
func (sc Scorer) Score(in ScoreInput) float64 {
	switch sc.Strategy {
	case StrategyGaussian:
		s := gaussianForm(in)
		if sc.ZetaCorrection {
			s *= zetaFactor(in.TemperatureC, in.HumidityPct)
		}
		return clamp(s)
	case StrategyLinear:
		return clamp(linearForm(in))
	default:
		return clamp(interactionForm(in) * 1.2)
	}
}

func interactionForm(in ScoreInput) float64 {
	h := (in.HumidityPct - 60) / 20
	w := (in.WindKph - 10) / 10
	c := (in.CloudPct - 50) / 50

	diurnal := math.Sin(in.TemperatureC/7) * 0.5

	dew := in.TemperatureC - (100-in.HumidityPct)/5
	if in.DewPointC != nil {
		dew = *in.DewPointC
	}
	spread := math.Max(0, in.TemperatureC-dew)
	spreadN := math.Min(1.5, spread/6)

	pressure := 1013.0
	if in.PressureHpa != nil {
		pressure = *in.PressureHpa
	}
	pDev := math.Max(0, (1016-pressure)/12)

	interact := 0.6*h*c + 0.25*w*c + 0.35*spreadN*c + 0.25*pDev*c

	s := math.Abs(0.5*diurnal + 0.8*h + 0.6*c + 0.3*w + interact)
	s *= (1 - in.Altitude/1000*0.05) * (1 + 0.002*(in.Latitude-35))

	if !in.Time.IsZero() {
		if hour := in.Time.Hour(); hour >= 0 && hour <= 6 {
			s *= 0.9
		}
		if month := in.Time.Month(); month >= time.June && month <= time.September {
			s *= 1.05
		}
	}
	return s
}

func gaussianForm(in ScoreInput) float64 {
	st := math.Exp(-math.Pow(in.TemperatureC-20, 2) / (2 * 7 * 7))
	sh := math.Exp(-math.Pow(in.HumidityPct-50, 2) / (2 * 15 * 15))
	scl := 1 - in.CloudPct/100
	sv := math.Tanh(in.WindKph / 10)
	return 1.2*(st*sh*scl) - 0.4*sv
}

func linearForm(in ScoreInput) float64 {
	return (0.4*in.TemperatureC + 0.3*in.HumidityPct - 0.2*in.WindKph + 0.1*in.CloudPct) / 100
}

// zetaFactor is 1 + 0.02*tanh(zeta(sigma)/20) with zeta truncated at 40 terms.
func zetaFactor(temp, humidity float64) float64 {
	sigma := 1 + 0.1*math.Sin(temp/10) - 0.05*math.Cos(humidity/30)
	var zeta float64
	for k := 1; k <= 40; k++ {
		zeta += 1 / math.Pow(float64(k), sigma)
	}
	return 1 + 0.02*math.Tanh(zeta/20)
}

// clamp bounds s to [0, MaxS] and maps NaN to 0.
func clamp(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > MaxS {
		return MaxS
	}
	return s
}
