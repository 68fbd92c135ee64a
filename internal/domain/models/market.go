package models

import "time"

// FXRate is a spot exchange rate quote: 1 unit of Base buys Rate units of Quote.
type FXRate struct {
	Base   string    `json:"base" validate:"required,len=3"`
	Quote  string    `json:"quote" validate:"required,len=3"`
	Rate   float64   `json:"rate" validate:"gt=0"`
	AsOf   time.Time `json:"as_of"`
	Source string    `json:"source,omitempty"`
}

// Validate checks the rate invariants.
func (r FXRate) Validate() error {
	if len(r.Base) != 3 || len(r.Quote) != 3 {
		return &ValidationError{Field: "fx_rate", Reason: "base and quote must be ISO currency codes"}
	}
	if r.Rate <= 0 {
		return &ValidationError{Field: "fx_rate.rate", Reason: "rate must be positive"}
	}
	return nil
}

// Convert converts an amount denominated in Base into Quote.
func (r FXRate) Convert(amount float64) float64 {
	return amount * r.Rate
}

// Invert returns the reciprocal quote (Quote/Base).
func (r FXRate) Invert() FXRate {
	return FXRate{
		Base:   r.Quote,
		Quote:  r.Base,
		Rate:   1 / r.Rate,
		AsOf:   r.AsOf,
		Source: r.Source,
	}
}

// Spans reports whether the rate quotes between the two given currencies,
// in either direction.
func (r FXRate) Spans(a, b string) bool {
	return (r.Base == a && r.Quote == b) || (r.Base == b && r.Quote == a)
}

// PriceQuote is a single observed price for an instrument.
type PriceQuote struct {
	InstrumentID string    `json:"instrument_id" validate:"required"`
	Price        float64   `json:"price" validate:"gt=0"`
	Currency     string    `json:"currency" validate:"required,len=3"`
	AsOf         time.Time `json:"as_of"`
}

func (q PriceQuote) Validate() error {
	if q.InstrumentID == "" {
		return &ValidationError{Field: "price_quote.instrument_id", Reason: "instrument id is required"}
	}
	if q.Price <= 0 {
		return &ValidationError{Field: "price_quote.price", Reason: "price must be positive"}
	}
	if len(q.Currency) != 3 {
		return &ValidationError{Field: "price_quote.currency", Reason: "currency must be an ISO code"}
	}
	return nil
}

// ConversionRatio maps one depositary receipt to its local-share equivalent:
// one ADR unit represents Ratio local shares.
type ConversionRatio struct {
	ADRID   string  `json:"adr_id" validate:"required"`
	LocalID string  `json:"local_id" validate:"required"`
	Ratio   float64 `json:"ratio" validate:"gt=0"`
}

func (c ConversionRatio) Validate() error {
	if c.Ratio <= 0 {
		return &ValidationError{Field: "conversion_ratio.ratio", Reason: "ratio must be positive"}
	}
	if c.ADRID == "" || c.LocalID == "" {
		return &ValidationError{Field: "conversion_ratio", Reason: "adr_id and local_id are required"}
	}
	return nil
}

// PricePoint is one period of a historical price series.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Close    float64   `json:"close" validate:"gt=0"`
	AdjClose float64   `json:"adj_close,omitempty"`
}

// PriceSeries is a date-ordered price history.
type PriceSeries []PricePoint

// Validate checks ordering and positivity across the series.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if p.Close <= 0 {
			return &ValidationError{Field: "price_series.close", Reason: "close must be positive"}
		}
		if i > 0 && p.Date.Before(s[i-1].Date) {
			return &ValidationError{Field: "price_series.date", Reason: "series must be date-ordered"}
		}
	}
	return nil
}

// RatePoint is one observation of an annualized rate series (percent).
type RatePoint struct {
	Date      time.Time `json:"date"`
	AnnualPct float64   `json:"annual_pct"`
}

// RegimeTag labels one period with an externally supplied regime.
type RegimeTag struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}
