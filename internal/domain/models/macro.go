package models

import "time"

// YieldCurvePoint is one tenor on a sovereign yield curve.
type YieldCurvePoint struct {
	TenorMonths int       `json:"tenor_months" validate:"gt=0"`
	YieldPct    float64   `json:"yield_pct"`
	AsOf        time.Time `json:"as_of"`
}

func (p YieldCurvePoint) Validate() error {
	if p.TenorMonths <= 0 {
		return &ValidationError{Field: "yield_curve_point.tenor_months", Reason: "tenor must be positive"}
	}
	return nil
}

// InflationPoint is one CPI year-over-year print for a country.
type InflationPoint struct {
	Country   string    `json:"country" validate:"required"`
	Period    time.Time `json:"period"`
	CPIYoYPct float64   `json:"cpi_yoy_pct"`
}

func (p InflationPoint) Validate() error {
	if p.Country == "" {
		return &ValidationError{Field: "inflation_point.country", Reason: "country is required"}
	}
	return nil
}

// CountryMetrics is the per-country valuation metric set. Pointer fields are
// nil when the metric is not reported for that country; Returns maps a period
// label ("1y", "5y", "10y") to a performance percentage.
type CountryMetrics struct {
	Country       string             `json:"country" validate:"required"`
	DividendYield *float64           `json:"dividend_yield,omitempty"`
	PE            *float64           `json:"pe,omitempty"`
	ForwardPE     *float64           `json:"forward_pe,omitempty"`
	PriceToBook   *float64           `json:"price_to_book,omitempty"`
	Returns       map[string]float64 `json:"returns,omitempty"`
}

func (m CountryMetrics) Validate() error {
	if m.Country == "" {
		return &ValidationError{Field: "country_metrics.country", Reason: "country is required"}
	}
	if m.PE != nil && *m.PE <= 0 {
		return &ValidationError{Field: "country_metrics.pe", Reason: "pe must be positive when present"}
	}
	if m.ForwardPE != nil && *m.ForwardPE <= 0 {
		return &ValidationError{Field: "country_metrics.forward_pe", Reason: "forward pe must be positive when present"}
	}
	if m.PriceToBook != nil && *m.PriceToBook <= 0 {
		return &ValidationError{Field: "country_metrics.price_to_book", Reason: "price to book must be positive when present"}
	}
	if m.DividendYield != nil && *m.DividendYield < 0 {
		return &ValidationError{Field: "country_metrics.dividend_yield", Reason: "dividend yield must not be negative"}
	}
	return nil
}
