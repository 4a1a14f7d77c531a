package weather

// Options is the caller-selectable configuration of one forecast run.
// Zero fields fall back to the service defaults.
type Options struct {
	Reducer        Reducer       `json:"reducer"`
	Strategy       Strategy      `json:"strategy"`
	ZetaCorrection bool          `json:"zetaCorrection,omitempty"`
	Smoothing      SmoothingMode `json:"smoothing"`
	Alpha          float64       `json:"alpha"`
	// SmoothScores applies an EMA with Alpha over the hourly S series before classification.
	SmoothScores bool        `json:"smoothScores,omitempty"`
	HourlyTier   Tier        `json:"hourlyTier"`
	Grid         GridPattern `json:"grid"`
	GridOffset   float64     `json:"gridOffset"`
	Hours        int         `json:"hours"`
	Days         int         `json:"days"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Reducer:    ReducerMean,
		Strategy:   StrategyInteraction,
		Smoothing:  SmoothingMovingAverage,
		Alpha:      DefaultEMAAlpha,
		HourlyTier: TierInstant,
		Grid:       GridCross,
		GridOffset: 0.03,
		Hours:      12,
		Days:       10,
	}
}

// merge fills zero fields of o from def.
func (o Options) merge(def Options) Options {
	if o.Reducer == "" {
		o.Reducer = def.Reducer
	}
	if o.Strategy == "" {
		o.Strategy = def.Strategy
		o.ZetaCorrection = o.ZetaCorrection || def.ZetaCorrection
	}
	if o.Smoothing == "" {
		o.Smoothing = def.Smoothing
	}
	if o.Alpha == 0 {
		o.Alpha = def.Alpha
	}
	o.SmoothScores = o.SmoothScores || def.SmoothScores
	if o.HourlyTier == "" {
		o.HourlyTier = def.HourlyTier
	}
	if o.Grid == "" {
		o.Grid = def.Grid
	}
	if o.GridOffset == 0 {
		o.GridOffset = def.GridOffset
	}
	if o.Hours == 0 {
		o.Hours = def.Hours
	}
	if o.Days == 0 {
		o.Days = def.Days
	}
	return o
}

func (o Options) scorer() Scorer {
	return Scorer{Strategy: o.Strategy, ZetaCorrection: o.ZetaCorrection}
}

func (o Options) smoother() Smoother {
	return Smoother{Mode: o.Smoothing, Alpha: o.Alpha}
}
