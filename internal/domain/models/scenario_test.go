package models

import "testing"

func TestScenarioFromMapCopiesInputs(t *testing.T) {
	values := map[string]float64{KeyBorrowRate: 0.02}
	flags := map[string]bool{FlagForcedScrip: true}
	sc := ScenarioFromMap(values, flags, "")

	values[KeyBorrowRate] = 99
	flags[FlagForcedScrip] = false

	if v, _ := sc.Float(KeyBorrowRate); v != 0.02 {
		t.Fatalf("scenario leaked caller mutation: %v", v)
	}
	if !sc.Flag(FlagForcedScrip) {
		t.Fatalf("scenario flag leaked caller mutation")
	}
}

func TestScenarioAbsentKeys(t *testing.T) {
	sc := NewScenario()
	if _, ok := sc.Float(KeyFXOverride); ok {
		t.Fatalf("absent key must not be found")
	}
	if sc.FloatOr(KeyMarginRate, 0.25) != 0.25 {
		t.Fatalf("FloatOr must fall back to default")
	}
	if sc.Flag(FlagForcedScrip) {
		t.Fatalf("absent flag must be false")
	}
}

func TestScenarioDigestStable(t *testing.T) {
	a := NewScenario(
		WithOverride(KeyFXOverride, 0.78),
		WithOverride(KeyBorrowRate, 0.02),
		WithFlag(FlagForcedScrip, true),
	)
	b := NewScenario(
		WithOverride(KeyBorrowRate, 0.02),
		WithOverride(KeyFXOverride, 0.78),
		WithFlag(FlagForcedScrip, true),
	)
	if a.Digest() != b.Digest() {
		t.Fatalf("insertion order changed the digest")
	}

	c := NewScenario(WithOverride(KeyFXOverride, 0.79))
	if a.Digest() == c.Digest() {
		t.Fatalf("different contents produced the same digest")
	}
}

func TestScenarioRegimeInDigest(t *testing.T) {
	a := NewScenario(WithRegime("risk_off"))
	b := NewScenario()
	if a.Digest() == b.Digest() {
		t.Fatalf("regime label must be part of the digest")
	}
}

func TestDigestOfDeterministic(t *testing.T) {
	type payload struct {
		A string             `json:"a"`
		B map[string]float64 `json:"b"`
	}
	p := payload{A: "x", B: map[string]float64{"k1": 1, "k2": 2, "k3": 3}}
	first := DigestOf(p)
	for i := 0; i < 20; i++ {
		if DigestOf(p) != first {
			t.Fatalf("digest changed across calls")
		}
	}
	if first == "" {
		t.Fatalf("digest empty")
	}
}
