package models

// ScenarioRequest is the wire form of a scenario: numeric overrides keyed by
// the Key* constants, boolean flags keyed by the Flag* constants, and an
// optional pinned regime label.
type ScenarioRequest struct {
	Overrides map[string]float64 `json:"overrides,omitempty"`
	Flags     map[string]bool    `json:"flags,omitempty"`
	Regime    string             `json:"regime,omitempty"`
}

// Build materializes the request into an immutable Scenario.
func (r *ScenarioRequest) Build() Scenario {
	if r == nil {
		return NewScenario()
	}
	return ScenarioFromMap(r.Overrides, r.Flags, r.Regime)
}

// DividendFXRequest evaluates one dividend declaration against company and
// market conversion rates.
type DividendFXRequest struct {
	Term        DividendTerm     `json:"term" validate:"required"`
	CompanyRate FXRate           `json:"company_rate" validate:"required"`
	MarketRate  FXRate           `json:"market_rate" validate:"required"`
	Scenario    *ScenarioRequest `json:"scenario,omitempty"`
}

// ADRParityRequest evaluates one ADR/local pair.
type ADRParityRequest struct {
	ADR      PriceQuote       `json:"adr" validate:"required"`
	Local    PriceQuote       `json:"local" validate:"required"`
	Ratio    ConversionRatio  `json:"ratio" validate:"required"`
	FX       FXRate           `json:"fx" validate:"required"`
	Scenario *ScenarioRequest `json:"scenario,omitempty"`
}

// ADRParityBatchItem is one named pair inside a batch request.
type ADRParityBatchItem struct {
	Entity string          `json:"entity" validate:"required"`
	ADR    PriceQuote      `json:"adr" validate:"required"`
	Local  PriceQuote      `json:"local" validate:"required"`
	Ratio  ConversionRatio `json:"ratio" validate:"required"`
	FX     FXRate          `json:"fx" validate:"required"`
}

// ADRParityBatchRequest evaluates many pairs under one scenario and returns
// a ranked table.
type ADRParityBatchRequest struct {
	Items    []ADRParityBatchItem `json:"items" validate:"required,min=1,dive"`
	Scenario *ScenarioRequest     `json:"scenario,omitempty"`
}

// ScripRequest evaluates a cash-versus-scrip dividend election.
type ScripRequest struct {
	Term     DividendTerm     `json:"term" validate:"required"`
	Market   PriceQuote       `json:"market" validate:"required"`
	Holding  int64            `json:"holding" default:"1" validate:"gte=1"`
	Scenario *ScenarioRequest `json:"scenario,omitempty"`
}

// CountryScoreRequest scores a cross-section of country metric sets.
type CountryScoreRequest struct {
	Countries []CountryMetrics `json:"countries" validate:"required,min=1,dive"`
	Scenario  *ScenarioRequest `json:"scenario,omitempty"`
}

// RegimeRequest classifies the macro regime from curve and inflation data.
type RegimeRequest struct {
	Curve      []YieldCurvePoint `json:"curve" validate:"required,min=2,dive"`
	Domestic   []InflationPoint  `json:"domestic" validate:"required,min=1,dive"`
	Comparator []InflationPoint  `json:"comparator,omitempty" validate:"omitempty,dive"`
	Scenario   *ScenarioRequest  `json:"scenario,omitempty"`
}

// SimComboRequest is the wire form of a synthetic combo position.
type SimComboRequest struct {
	Contracts       int     `json:"contracts" default:"1" validate:"gte=1"`
	Multiplier      int     `json:"multiplier" default:"100" validate:"gte=1"`
	StrikeOffsetPct float64 `json:"strike_offset_pct"`
	TenorMonths     int     `json:"tenor_months" default:"6" validate:"gte=1"`
}

// SimulateRequest runs the synthetic leveraged strategy over a price history.
type SimulateRequest struct {
	Index       PriceSeries            `json:"index" validate:"required,min=2"`
	Comparators map[string]PriceSeries `json:"comparators,omitempty"`
	Combo       SimComboRequest        `json:"combo"`
	Financing   []RatePoint            `json:"financing,omitempty"`
	Regimes     []RegimeTag            `json:"regimes,omitempty"`
	Scenario    *ScenarioRequest       `json:"scenario,omitempty"`
}
