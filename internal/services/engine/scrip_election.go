package engine

import (
	"github.com/shopspring/decimal"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// ScripElectionInputs carries a dividend term offering a scrip alternative
// and the current market quote of the underlying share. Holding scales the
// analysis to a position size; 1 gives the per-share view.
type ScripElectionInputs struct {
	Term    models.DividendTerm `json:"term"`
	Market  models.PriceQuote   `json:"market"`
	Holding int64               `json:"holding"`
}

func (in ScripElectionInputs) Digest() string { return models.DigestOf(in) }

func (in ScripElectionInputs) Validate() error {
	if err := in.Term.Validate(); err != nil {
		return err
	}
	if err := in.Market.Validate(); err != nil {
		return err
	}
	if !in.Term.ScripIssuePrice.IsPositive() {
		return &models.ValidationError{Field: "term.scrip_issue_price", Reason: "scrip issue price is required for scrip election"}
	}
	if in.Term.Currency != in.Market.Currency {
		return &models.ValidationError{Field: "market.currency", Reason: "market quote must be in the dividend currency"}
	}
	if in.Holding < 1 {
		return &models.ValidationError{Field: "holding", Reason: "holding must be at least one share"}
	}
	return nil
}

// ScripElectionParams are the resolved configuration parameters of the model.
type ScripElectionParams struct {
	// WholeShares truncates the scrip entitlement to whole shares, matching
	// issuer terms for sized holdings. Per-share analysis keeps fractions.
	WholeShares bool
}

// ScripElection compares the cash value of a dividend against the marked
// value of its scrip alternative, and answers the lender-mandate variant:
// when scrip is forced, it reports the economic cost of the mandate relative
// to the unconstrained optimum instead of a free recommendation.
type ScripElection struct {
	params ScripElectionParams
}

func NewScripElection(p ScripElectionParams) *ScripElection {
	return &ScripElection{params: p}
}

func (m *ScripElection) Name() string { return "scrip_election" }

func (m *ScripElection) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(ScripElectionInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "scrip_election expects ScripElectionInputs"}
	}
	return m.EvaluateElection(typed, sc)
}

// EvaluateElection is the typed evaluation entry point.
func (m *ScripElection) EvaluateElection(in ScripElectionInputs, sc models.Scenario) (models.ModelResult, error) {
	if err := in.Validate(); err != nil {
		return models.ModelResult{}, err
	}

	holding := decimal.NewFromInt(in.Holding)
	price := decimal.NewFromFloat(in.Market.Price)

	cashValue := in.Term.DeclaredAmount.Mul(holding)
	scripShares := cashValue.Div(in.Term.ScripIssuePrice)
	if m.params.WholeShares && in.Holding > 1 {
		scripShares = scripShares.Floor()
	}
	scripValue := scripShares.Mul(price)

	relBPS := 0.0
	if cashValue.IsPositive() {
		relBPS, _ = scripValue.Sub(cashValue).Div(cashValue).Mul(decimal.NewFromInt(10000)).Float64()
	}

	cashF, _ := cashValue.Float64()
	scripF, _ := scripValue.Float64()
	sharesF, _ := scripShares.Float64()
	issueF, _ := in.Term.ScripIssuePrice.Float64()

	components := map[string]float64{
		"cash_value":        cashF,
		"scrip_shares":      sharesF,
		"scrip_value":       scripF,
		"scrip_issue_price": issueF,
		"market_price":      in.Market.Price,
		"relative_bps":      relBPS,
	}

	forced := sc.Flag(models.FlagForcedScrip)
	result := models.ModelResult{
		ModelName:    m.Name(),
		InputsDigest: in.Digest(),
		Magnitude:    relBPS,
		Confidence:   models.ConfidenceHigh,
		Components:   components,
	}

	best := "cash"
	if scripValue.GreaterThan(cashValue) {
		best = "scrip"
	}

	switch {
	case in.Term.Uncertain:
		result.Signal = models.SignalInconclusive
		result.Confidence = models.ConfidenceUncertain
		result.Recommendation = best
	case forced:
		// Mandated holders take scrip regardless; report what the mandate
		// costs against the unconstrained optimum.
		mandateCost := decimal.Max(cashValue, scripValue).Sub(scripValue)
		costF, _ := mandateCost.Float64()
		components["mandate_cost"] = costF
		result.Recommendation = "scrip"
		if costF > 0 {
			result.Signal = models.SignalNoArbitrage
		} else {
			result.Signal = models.SignalArbitrage
		}
	case scripValue.Equal(cashValue):
		result.Signal = models.SignalNoArbitrage
		result.Recommendation = best
	default:
		result.Signal = models.SignalArbitrage
		result.Recommendation = best
	}
	return result, nil
}

var _ service.Model = (*ScripElection)(nil)
