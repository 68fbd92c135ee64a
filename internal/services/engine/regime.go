package engine

import (
	"sort"
	"time"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// Regime labels produced by the scorer.
const (
	RegimeRiskOn  = "risk_on"
	RegimeNeutral = "neutral"
	RegimeRiskOff = "risk_off"
)

// MacroRegimeInputs carries a yield-curve snapshot and CPI year-over-year
// series for the domestic economy and an optional comparator country.
type MacroRegimeInputs struct {
	Curve      []models.YieldCurvePoint `json:"curve"`
	Domestic   []models.InflationPoint  `json:"domestic"`
	Comparator []models.InflationPoint  `json:"comparator,omitempty"`
}

func (in MacroRegimeInputs) Digest() string { return models.DigestOf(in) }

func (in MacroRegimeInputs) Validate() error {
	for _, p := range in.Curve {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, p := range in.Domestic {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, p := range in.Comparator {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MacroRegimeParams are the resolved configuration parameters of the model.
type MacroRegimeParams struct {
	ShortTenorMonths int
	LongTenorMonths  int
	LookbackMonths   int
}

// Assessment is the typed regime output consumed by the strategy simulator.
type Assessment struct {
	Label         string  `json:"label"`
	Score         float64 `json:"score"`
	CurveSlope    float64 `json:"curve_slope"`
	CurveShape    string  `json:"curve_shape"`
	CPIYoY        float64 `json:"cpi_yoy"`
	CPIMomentum   float64 `json:"cpi_momentum"`
	RealShortRate float64 `json:"real_short_rate"`
}

// MacroRegime combines curve slope, inflation momentum, and the real short
// rate into one stress score.
//
// Sign conventions (higher score = more stress):
//
//	inverted curve          +2    slope below 0.3pp  +1
//	cpi yoy above 4%        +2    above 2%           +1
//	momentum above +0.5pp   +1    below -0.5pp       -1
//	real short rate above 1%+1
//
// Score <= 1 maps to risk_on, <= 3 to neutral, above to risk_off.
type MacroRegime struct {
	params MacroRegimeParams
}

func NewMacroRegime(p MacroRegimeParams) *MacroRegime {
	if p.ShortTenorMonths <= 0 {
		p.ShortTenorMonths = 3
	}
	if p.LongTenorMonths <= 0 {
		p.LongTenorMonths = 120
	}
	if p.LookbackMonths <= 0 {
		p.LookbackMonths = 12
	}
	return &MacroRegime{params: p}
}

func (m *MacroRegime) Name() string { return "macro_regime" }

func (m *MacroRegime) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(MacroRegimeInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "macro_regime expects MacroRegimeInputs"}
	}
	a, err := m.Assess(typed, sc)
	if err != nil {
		return models.ModelResult{}, err
	}

	components := map[string]float64{
		"curve_slope":     a.CurveSlope,
		"cpi_yoy":         a.CPIYoY,
		"cpi_momentum":    a.CPIMomentum,
		"real_short_rate": a.RealShortRate,
	}
	return models.ModelResult{
		ModelName:      m.Name(),
		InputsDigest:   typed.Digest(),
		Signal:         models.SignalNoArbitrage,
		Magnitude:      a.Score,
		Confidence:     models.ConfidenceHigh,
		Components:     components,
		Recommendation: a.Label,
	}, nil
}

// Assess derives the three sub-signals and the combined regime.
func (m *MacroRegime) Assess(in MacroRegimeInputs, sc models.Scenario) (Assessment, error) {
	if err := in.Validate(); err != nil {
		return Assessment{}, err
	}
	// An assumed regime in the scenario short-circuits derivation entirely.
	if label := sc.Regime(); label != "" {
		return Assessment{Label: label}, nil
	}
	if len(in.Curve) < 2 {
		return Assessment{}, &models.InsufficientDataError{Model: m.Name(), Need: 2, Got: len(in.Curve)}
	}
	if len(in.Domestic) < 2 {
		return Assessment{}, &models.InsufficientDataError{Model: m.Name(), Need: 2, Got: len(in.Domestic)}
	}

	short := yieldAtTenor(in.Curve, m.params.ShortTenorMonths)
	long := yieldAtTenor(in.Curve, m.params.LongTenorMonths)
	slope := long - short

	prints := append([]models.InflationPoint(nil), in.Domestic...)
	sort.Slice(prints, func(i, j int) bool { return prints[i].Period.Before(prints[j].Period) })
	latest := prints[len(prints)-1]
	cutoff := latest.Period.AddDate(0, -m.params.LookbackMonths, 0)
	momentum := latest.CPIYoYPct - yoyAt(prints, cutoff)

	a := Assessment{
		CurveSlope:    slope,
		CurveShape:    classifyCurve(slope),
		CPIYoY:        latest.CPIYoYPct,
		CPIMomentum:   momentum,
		RealShortRate: short - latest.CPIYoYPct,
	}

	score := 0.0
	switch {
	case slope < 0:
		score += 2
	case slope < 0.3:
		score++
	}
	switch {
	case a.CPIYoY > 4:
		score += 2
	case a.CPIYoY > 2:
		score++
	}
	switch {
	case momentum > 0.5:
		score++
	case momentum < -0.5:
		score--
	}
	if a.RealShortRate > 1 {
		score++
	}

	a.Score = score
	switch {
	case score <= 1:
		a.Label = RegimeRiskOn
	case score <= 3:
		a.Label = RegimeNeutral
	default:
		a.Label = RegimeRiskOff
	}
	return a, nil
}

// yieldAtTenor returns the yield of the curve point nearest the target tenor.
func yieldAtTenor(curve []models.YieldCurvePoint, tenorMonths int) float64 {
	best := curve[0]
	for _, p := range curve[1:] {
		if absInt(p.TenorMonths-tenorMonths) < absInt(best.TenorMonths-tenorMonths) {
			best = p
		}
	}
	return best.YieldPct
}

// yoyAt returns the latest print at or before cutoff, falling back to the
// earliest available print for short histories.
func yoyAt(sorted []models.InflationPoint, cutoff time.Time) float64 {
	v := sorted[0].CPIYoYPct
	for _, p := range sorted {
		if p.Period.After(cutoff) {
			break
		}
		v = p.CPIYoYPct
	}
	return v
}

func classifyCurve(slope float64) string {
	switch {
	case slope > 0.5:
		return "normal"
	case slope > 0:
		return "flat"
	default:
		return "inverted"
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ service.Model = (*MacroRegime)(nil)
