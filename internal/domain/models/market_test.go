package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFXRateInvert(t *testing.T) {
	r := FXRate{Base: "USD", Quote: "GBP", Rate: 0.8}
	inv := r.Invert()
	if inv.Base != "GBP" || inv.Quote != "USD" {
		t.Fatalf("invert swapped wrong: %s/%s", inv.Base, inv.Quote)
	}
	if inv.Rate != 1.25 {
		t.Fatalf("inverted rate = %v", inv.Rate)
	}
	if !r.Spans("GBP", "USD") || !inv.Spans("GBP", "USD") {
		t.Fatalf("Spans must be direction-agnostic")
	}
}

func TestFXRateValidate(t *testing.T) {
	bad := FXRate{Base: "USD", Quote: "GBP", Rate: 0}
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero rate must fail validation")
	}
	bad = FXRate{Base: "US", Quote: "GBP", Rate: 1}
	if err := bad.Validate(); err == nil {
		t.Fatalf("short currency code must fail validation")
	}
}

func TestPriceSeriesOrdering(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := PriceSeries{
		{Date: d, Close: 100},
		{Date: d.AddDate(0, 0, -1), Close: 101},
	}
	if err := s.Validate(); err == nil {
		t.Fatalf("out-of-order series must fail validation")
	}
}

func TestDividendTermValidate(t *testing.T) {
	term := DividendTerm{
		ExDate:         time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC),
		PayDate:        time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		Currency:       "USD",
		DeclaredAmount: decimal.NewFromFloat(0.51),
	}
	if err := term.Validate(); err == nil {
		t.Fatalf("ex_date after pay_date must fail validation")
	}

	term.ExDate, term.PayDate = term.PayDate, term.ExDate
	if err := term.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if term.SettlementDays() != 30 {
		t.Fatalf("settlement days = %v, want 30", term.SettlementDays())
	}
}
