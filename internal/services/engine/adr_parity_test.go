package engine

import (
	"math"
	"testing"
	"testing/quick"
	"time"

	"ArbLens/internal/domain/models"
)

func adrPair(adrPrice, localPrice, ratio, localPerUSD float64) ADRParityInputs {
	now := time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)
	return ADRParityInputs{
		ADR:   models.PriceQuote{InstrumentID: "BP", Price: adrPrice, Currency: "USD", AsOf: now},
		Local: models.PriceQuote{InstrumentID: "BP.L", Price: localPrice, Currency: "GBP", AsOf: now},
		Ratio: models.ConversionRatio{ADRID: "BP", LocalID: "BP.L", Ratio: ratio},
		FX:    models.FXRate{Base: "USD", Quote: "GBP", Rate: localPerUSD, AsOf: now},
	}
}

func TestADRParityWorkedExample(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50, StalenessWindow: 15 * time.Minute})

	// Local 100 GBP, 2 shares per ADR, 2 GBP per USD: implied ADR = 100 USD.
	in := adrPair(105, 100, 2, 2)
	res, err := m.EvaluatePair(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Components["implied_adr_price"]-100) > 1e-9 {
		t.Fatalf("implied = %v, want 100", res.Components["implied_adr_price"])
	}
	if res.Signal != models.SignalArbitrage {
		t.Fatalf("expected arbitrage at +5%%, got %s", res.Signal)
	}
	if res.Recommendation != "ADR rich: sell ADR / buy local" {
		t.Fatalf("unexpected recommendation %q", res.Recommendation)
	}
	if math.Abs(res.Magnitude-500) > 1e-9 {
		t.Fatalf("magnitude = %v, want 500 bps", res.Magnitude)
	}
}

func TestADRParityCheapSide(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50})
	res, err := m.EvaluatePair(adrPair(95, 100, 2, 2), models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalArbitrage || res.Magnitude >= 0 {
		t.Fatalf("expected negative-deviation arbitrage, got %s %v", res.Signal, res.Magnitude)
	}
	if res.Recommendation != "ADR cheap: buy ADR / sell local" {
		t.Fatalf("unexpected recommendation %q", res.Recommendation)
	}
}

func TestADRParityDeadBand(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50})

	// +30 bps sits inside the 50 bps dead band.
	res, err := m.EvaluatePair(adrPair(100.30, 100, 2, 2), models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalNoArbitrage {
		t.Fatalf("expected no_arbitrage inside dead band, got %s", res.Signal)
	}
	// Magnitude still reports the measured deviation.
	if math.Abs(res.Magnitude-30) > 1e-6 {
		t.Fatalf("magnitude = %v, want ~30 bps", res.Magnitude)
	}
}

func TestADRParityStaleQuotesDowngradeConfidence(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50, StalenessWindow: 15 * time.Minute})

	in := adrPair(105, 100, 2, 2)
	in.Local.AsOf = in.ADR.AsOf.Add(-2 * time.Hour)

	res, err := m.EvaluatePair(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalArbitrage {
		t.Fatalf("stale quotes still evaluate, got %s", res.Signal)
	}
	if res.Confidence != models.ConfidenceLow {
		t.Fatalf("expected low confidence on stale quotes, got %s", res.Confidence)
	}
	if res.Components["stale"] != 1 {
		t.Fatalf("expected stale marker component")
	}
}

func TestADRParityAcceptsEitherFXDirection(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50})

	direct := adrPair(105, 100, 2, 2)
	inverted := direct
	inverted.FX = direct.FX.Invert()

	a, err := m.EvaluatePair(direct, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.EvaluatePair(inverted, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Magnitude-b.Magnitude) > 1e-6 {
		t.Fatalf("fx direction changed the deviation: %v vs %v", a.Magnitude, b.Magnitude)
	}
}

// Scaling the local price and the FX rate together leaves the deviation
// unchanged: parity is a ratio, not a level.
func TestADRParityScaleInvariance(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50})
	base, err := m.EvaluatePair(adrPair(105, 100, 2, 2), models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := func(raw uint8) bool {
		k := 1 + float64(raw%200)/10 // 1.0 .. 20.9
		res, err := m.EvaluatePair(adrPair(105, 100*k, 2, 2*k), models.NewScenario())
		if err != nil {
			return false
		}
		return math.Abs(res.Magnitude-base.Magnitude) < 1e-6
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatalf("scale invariance violated: %v", err)
	}
}

func TestADRParityDeterminism(t *testing.T) {
	m := NewADRParity(ADRParityParams{DeadBandBPS: 50, StalenessWindow: 15 * time.Minute})
	in := adrPair(105, 100, 2, 2)
	sc := models.NewScenario(models.WithOverride(models.KeyFXOverride, 1.9))

	a, err := m.EvaluatePair(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.EvaluatePair(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.InputsDigest != b.InputsDigest || a.Magnitude != b.Magnitude {
		t.Fatalf("repeated evaluation diverged")
	}
	if a.Components["fx_local_per_adr"] != 1.9 {
		t.Fatalf("override not applied: %v", a.Components["fx_local_per_adr"])
	}
}

func TestADRParityRejectsNonSpanningFX(t *testing.T) {
	m := NewADRParity(ADRParityParams{})
	in := adrPair(105, 100, 2, 2)
	in.FX.Quote = "EUR"

	if _, err := m.EvaluatePair(in, models.NewScenario()); err == nil {
		t.Fatalf("expected validation error when fx does not span the pair")
	}
}
