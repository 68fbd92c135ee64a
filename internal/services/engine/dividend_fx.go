package engine

import (
	"math"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// DividendFXInputs carries one dividend declaration together with the
// issuer-published conversion rate and the live market rate for the same
// currency pair.
type DividendFXInputs struct {
	Term        models.DividendTerm `json:"term"`
	CompanyRate models.FXRate       `json:"company_rate"`
	MarketRate  models.FXRate       `json:"market_rate"`
}

func (in DividendFXInputs) Digest() string { return models.DigestOf(in) }

func (in DividendFXInputs) Validate() error {
	if err := in.Term.Validate(); err != nil {
		return err
	}
	if err := in.CompanyRate.Validate(); err != nil {
		return err
	}
	if err := in.MarketRate.Validate(); err != nil {
		return err
	}
	if in.CompanyRate.Base != in.MarketRate.Base || in.CompanyRate.Quote != in.MarketRate.Quote {
		return &models.ValidationError{Field: "market_rate", Reason: "company and market rates must quote the same pair in the same direction"}
	}
	if in.Term.Currency != in.CompanyRate.Base {
		return &models.ValidationError{Field: "company_rate.base", Reason: "company rate must convert out of the declared dividend currency"}
	}
	return nil
}

// DividendFXParams are the resolved configuration parameters of the model.
type DividendFXParams struct {
	// MinSpreadBPS is the dead-band below which a net spread is not called
	// an arbitrage.
	MinSpreadBPS float64
	// DayCount is the accrual day count for borrow carry, normally 365.
	DayCount float64
}

// DividendFX evaluates dividend currency arbitrage: the value of electing a
// dividend at the issuer's published rate against converting at the live
// market rate.
//
// Spread convention: spread_bps is positive when the issuer rate pays more
// quote currency per unit of the declared currency than the market does,
// i.e. electing the quote currency is the richer choice.
type DividendFX struct {
	params DividendFXParams
}

func NewDividendFX(p DividendFXParams) *DividendFX {
	if p.DayCount <= 0 {
		p.DayCount = 365
	}
	return &DividendFX{params: p}
}

func (m *DividendFX) Name() string { return "dividend_fx_arbitrage" }

func (m *DividendFX) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(DividendFXInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "dividend_fx_arbitrage expects DividendFXInputs"}
	}
	return m.EvaluateTerm(typed, sc)
}

// EvaluateTerm is the typed evaluation entry point.
func (m *DividendFX) EvaluateTerm(in DividendFXInputs, sc models.Scenario) (models.ModelResult, error) {
	if err := in.Validate(); err != nil {
		return models.ModelResult{}, err
	}

	market := in.MarketRate.Rate
	if v, ok := sc.Float(models.KeyFXOverride); ok {
		if v <= 0 {
			return models.ModelResult{}, &models.ValidationError{Field: models.KeyFXOverride, Reason: "fx override must be positive"}
		}
		market = v
	}
	company := in.CompanyRate.Rate

	spreadBPS := (company/market - 1) * 10000
	gross := math.Abs(spreadBPS)

	declared, _ := in.Term.DeclaredAmount.Float64()
	components := map[string]float64{
		"company_rate":       company,
		"market_rate":        market,
		"spread_bps":         spreadBPS,
		"value_company_rate": declared * company,
		"value_market_rate":  declared * market,
	}

	carryBPS := 0.0
	if borrow, ok := sc.Float(models.KeyBorrowRate); ok {
		carryBPS = borrow * in.Term.SettlementDays() / m.params.DayCount * 10000
		components["borrow_rate"] = borrow
		components["carry_bps"] = carryBPS
		components["settlement_days"] = in.Term.SettlementDays()
	}
	netBPS := gross - carryBPS
	components["net_bps"] = netBPS

	if points, ok := sc.Float(models.KeyForwardPoints); ok {
		forward := market + points/10000
		if forward > 0 {
			hedgedBPS := (company/forward - 1) * 10000
			components["forward_rate"] = forward
			components["hedged_spread_bps"] = hedgedBPS
			components["unhedged_spread_bps"] = spreadBPS
		}
	}

	result := models.ModelResult{
		ModelName:    m.Name(),
		InputsDigest: in.Digest(),
		Magnitude:    math.Copysign(math.Max(netBPS, 0), spreadBPS),
		Components:   components,
	}

	switch {
	case in.Term.Uncertain:
		// An unconfirmed declaration never supports a confident call,
		// whatever the computed spread says.
		result.Signal = models.SignalInconclusive
		result.Confidence = models.ConfidenceUncertain
	case netBPS <= m.params.MinSpreadBPS:
		result.Signal = models.SignalNoArbitrage
		result.Confidence = models.ConfidenceHigh
		result.Recommendation = "no advantage either election"
	default:
		result.Signal = models.SignalArbitrage
		result.Confidence = models.ConfidenceHigh
		if spreadBPS > 0 {
			result.Recommendation = "elect " + in.CompanyRate.Quote
		} else {
			result.Recommendation = "elect " + in.CompanyRate.Base
		}
	}
	return result, nil
}

var _ service.Model = (*DividendFX)(nil)
