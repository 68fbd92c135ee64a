package engine

import (
	"errors"
	"testing"
	"time"

	"ArbLens/internal/domain/models"
)

func monthlyCPI(country string, months int, start, step float64) []models.InflationPoint {
	out := make([]models.InflationPoint, 0, months)
	period := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		out = append(out, models.InflationPoint{
			Country:   country,
			Period:    period.AddDate(0, i, 0),
			CPIYoYPct: start + step*float64(i),
		})
	}
	return out
}

func curve(short, long float64) []models.YieldCurvePoint {
	return []models.YieldCurvePoint{
		{TenorMonths: 3, YieldPct: short},
		{TenorMonths: 24, YieldPct: (short + long) / 2},
		{TenorMonths: 120, YieldPct: long},
	}
}

func TestRegimeRiskOn(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{})

	// Steep curve, low and falling inflation, negative real short rate.
	in := MacroRegimeInputs{
		Curve:    curve(1.0, 3.0),
		Domestic: monthlyCPI("UK", 13, 2.8, -0.1),
	}
	a, err := m.Assess(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Label != RegimeRiskOn {
		t.Fatalf("expected risk_on, got %s (score %v)", a.Label, a.Score)
	}
	if a.CurveShape != "normal" {
		t.Fatalf("expected normal curve, got %s", a.CurveShape)
	}
	if a.CurveSlope != 2.0 {
		t.Fatalf("slope = %v, want 2.0", a.CurveSlope)
	}
}

func TestRegimeRiskOff(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{})

	// Inverted curve, hot and accelerating inflation.
	in := MacroRegimeInputs{
		Curve:    curve(5.5, 4.0),
		Domestic: monthlyCPI("UK", 13, 4.0, 0.2),
	}
	a, err := m.Assess(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Label != RegimeRiskOff {
		t.Fatalf("expected risk_off, got %s (score %v)", a.Label, a.Score)
	}
	if a.CurveShape != "inverted" {
		t.Fatalf("expected inverted curve, got %s", a.CurveShape)
	}
}

func TestRegimeScenarioPinsLabel(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{})
	in := MacroRegimeInputs{
		Curve:    curve(5.5, 4.0),
		Domestic: monthlyCPI("UK", 13, 4.0, 0.2),
	}
	sc := models.NewScenario(models.WithRegime(RegimeRiskOn))

	a, err := m.Assess(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Label != RegimeRiskOn {
		t.Fatalf("scenario regime must short-circuit derivation, got %s", a.Label)
	}
	if a.Score != 0 {
		t.Fatalf("pinned regime carries no derived score, got %v", a.Score)
	}
}

func TestRegimeInsufficientCurve(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{})
	in := MacroRegimeInputs{
		Curve:    []models.YieldCurvePoint{{TenorMonths: 3, YieldPct: 4.0}},
		Domestic: monthlyCPI("UK", 13, 2.0, 0),
	}

	_, err := m.Assess(in, models.NewScenario())
	var ide *models.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestRegimeMomentumUsesLookback(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{LookbackMonths: 12})

	// 13 prints rising 0.1pp per month: momentum over 12 months is +1.2pp.
	in := MacroRegimeInputs{
		Curve:    curve(1.0, 3.0),
		Domestic: monthlyCPI("UK", 13, 1.0, 0.1),
	}
	a, err := m.Assess(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CPIMomentum < 1.19 || a.CPIMomentum > 1.21 {
		t.Fatalf("momentum = %v, want ~1.2", a.CPIMomentum)
	}
}

func TestRegimeEvaluateSummary(t *testing.T) {
	m := NewMacroRegime(MacroRegimeParams{})
	in := MacroRegimeInputs{
		Curve:    curve(1.0, 3.0),
		Domestic: monthlyCPI("UK", 13, 2.8, -0.1),
	}
	res, err := m.Evaluate(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalNoArbitrage {
		t.Fatalf("regime scoring reports no_arbitrage, got %s", res.Signal)
	}
	if res.Recommendation != RegimeRiskOn {
		t.Fatalf("recommendation should carry the label, got %q", res.Recommendation)
	}
	if _, ok := res.Components["curve_slope"]; !ok {
		t.Fatalf("expected curve_slope component")
	}
}
