package engine

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ArbLens/internal/domain/models"
)

func gbpTerm(uncertain bool) models.DividendTerm {
	return models.DividendTerm{
		ExDate:         time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		PayDate:        time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC),
		Currency:       "USD",
		DeclaredAmount: decimal.NewFromFloat(0.51),
		Uncertain:      uncertain,
	}
}

func dividendFXInputs(company, market float64) DividendFXInputs {
	return DividendFXInputs{
		Term:        gbpTerm(false),
		CompanyRate: models.FXRate{Base: "USD", Quote: "GBP", Rate: company},
		MarketRate:  models.FXRate{Base: "USD", Quote: "GBP", Rate: market},
	}
}

func TestDividendFXCompanyRateRich(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	res, err := m.EvaluateTerm(dividendFXInputs(0.80, 0.78), models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalArbitrage {
		t.Fatalf("expected arbitrage, got %s", res.Signal)
	}
	// Issuer pays more GBP per USD than the market: elect GBP.
	if res.Recommendation != "elect GBP" {
		t.Fatalf("unexpected recommendation %q", res.Recommendation)
	}
	wantSpread := (0.80/0.78 - 1) * 10000
	if math.Abs(res.Components["spread_bps"]-wantSpread) > 1e-9 {
		t.Fatalf("spread_bps = %v, want %v", res.Components["spread_bps"], wantSpread)
	}
	if res.Magnitude <= 0 {
		t.Fatalf("expected positive magnitude, got %v", res.Magnitude)
	}
}

func TestDividendFXCompanyRatePoor(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	res, err := m.EvaluateTerm(dividendFXInputs(0.76, 0.78), models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalArbitrage {
		t.Fatalf("expected arbitrage, got %s", res.Signal)
	}
	// Market is richer: take the declared currency and convert yourself.
	if res.Recommendation != "elect USD" {
		t.Fatalf("unexpected recommendation %q", res.Recommendation)
	}
	if res.Magnitude >= 0 {
		t.Fatalf("expected negative magnitude, got %v", res.Magnitude)
	}
}

func TestDividendFXBorrowCarryEatsSpread(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.781, 0.78) // ~12.8 bps gross

	// 30-day settlement at 20% annual borrow costs ~164 bps, well over the
	// gross spread.
	sc := models.NewScenario(models.WithOverride(models.KeyBorrowRate, 0.20))
	res, err := m.EvaluateTerm(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalNoArbitrage {
		t.Fatalf("expected no_arbitrage once carry exceeds spread, got %s", res.Signal)
	}
	if res.Components["net_bps"] >= 0 {
		t.Fatalf("net_bps should be negative, got %v", res.Components["net_bps"])
	}
	if res.Magnitude != 0 {
		t.Fatalf("magnitude should clamp to zero, got %v", res.Magnitude)
	}
}

func TestDividendFXUncertainDeclaration(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.85, 0.78)
	in.Term.Uncertain = true

	res, err := m.EvaluateTerm(in, models.NewScenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalInconclusive {
		t.Fatalf("uncertain term must be inconclusive however wide the spread, got %s", res.Signal)
	}
	if res.Confidence != models.ConfidenceUncertain {
		t.Fatalf("expected uncertain confidence, got %s", res.Confidence)
	}
}

func TestDividendFXScenarioOverridesMarketRate(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.80, 0.78)

	sc := models.NewScenario(models.WithOverride(models.KeyFXOverride, 0.80))
	res, err := m.EvaluateTerm(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Signal != models.SignalNoArbitrage {
		t.Fatalf("override matching company rate should kill the spread, got %s", res.Signal)
	}
	if res.Components["market_rate"] != 0.80 {
		t.Fatalf("override not applied: market_rate = %v", res.Components["market_rate"])
	}
	// The input record itself must not change.
	if in.MarketRate.Rate != 0.78 {
		t.Fatalf("input mutated by scenario override")
	}
}

func TestDividendFXForwardHedgeComponents(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.80, 0.78)

	sc := models.NewScenario(models.WithOverride(models.KeyForwardPoints, 25))
	res, err := m.EvaluateTerm(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantForward := 0.78 + 25.0/10000
	if math.Abs(res.Components["forward_rate"]-wantForward) > 1e-12 {
		t.Fatalf("forward_rate = %v, want %v", res.Components["forward_rate"], wantForward)
	}
	if _, ok := res.Components["hedged_spread_bps"]; !ok {
		t.Fatalf("expected hedged_spread_bps component")
	}
}

func TestDividendFXRejectsMismatchedPair(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.80, 0.78)
	in.MarketRate.Quote = "EUR"

	if _, err := m.EvaluateTerm(in, models.NewScenario()); err == nil {
		t.Fatalf("expected validation error for mismatched pairs")
	}
}

func TestDividendFXDeterministicDigest(t *testing.T) {
	m := NewDividendFX(DividendFXParams{})
	in := dividendFXInputs(0.80, 0.78)
	sc := models.NewScenario(models.WithOverride(models.KeyBorrowRate, 0.02))

	a, err := m.EvaluateTerm(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.EvaluateTerm(in, sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.InputsDigest == "" || a.InputsDigest != b.InputsDigest {
		t.Fatalf("digest not stable: %q vs %q", a.InputsDigest, b.InputsDigest)
	}
	if a.Magnitude != b.Magnitude || a.Signal != b.Signal {
		t.Fatalf("repeated evaluation diverged")
	}
}
