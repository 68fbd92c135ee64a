package engine

import (
	"math"
	"time"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// ADRParityInputs pairs an ADR quote with its local-listing quote, the share
// conversion ratio, and an FX rate spanning the two quote currencies.
type ADRParityInputs struct {
	ADR   models.PriceQuote      `json:"adr"`
	Local models.PriceQuote      `json:"local"`
	Ratio models.ConversionRatio `json:"ratio"`
	FX    models.FXRate          `json:"fx"`
}

func (in ADRParityInputs) Digest() string { return models.DigestOf(in) }

func (in ADRParityInputs) Validate() error {
	if err := in.ADR.Validate(); err != nil {
		return err
	}
	if err := in.Local.Validate(); err != nil {
		return err
	}
	if err := in.Ratio.Validate(); err != nil {
		return err
	}
	if err := in.FX.Validate(); err != nil {
		return err
	}
	if !in.FX.Spans(in.ADR.Currency, in.Local.Currency) {
		return &models.ValidationError{Field: "fx", Reason: "fx rate must span the ADR and local quote currencies"}
	}
	return nil
}

// localPerADRCcy normalizes the FX input to local-currency units per one unit
// of the ADR currency, whichever direction the rate was supplied in.
func (in ADRParityInputs) localPerADRCcy() float64 {
	if in.FX.Base == in.ADR.Currency {
		return in.FX.Rate
	}
	return 1 / in.FX.Rate
}

// ADRParityParams are the resolved configuration parameters of the model.
type ADRParityParams struct {
	// DeadBandBPS is the deviation band treated as no-arbitrage.
	DeadBandBPS float64
	// StalenessWindow is the tolerated gap between the two quote timestamps
	// before confidence is downgraded.
	StalenessWindow time.Duration
}

// ADRParity evaluates the price of a depositary receipt against the
// FX-converted value of its underlying local shares.
type ADRParity struct {
	params ADRParityParams
}

func NewADRParity(p ADRParityParams) *ADRParity {
	return &ADRParity{params: p}
}

func (m *ADRParity) Name() string { return "adr_parity" }

func (m *ADRParity) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(ADRParityInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "adr_parity expects ADRParityInputs"}
	}
	return m.EvaluatePair(typed, sc)
}

// EvaluatePair is the typed evaluation entry point.
func (m *ADRParity) EvaluatePair(in ADRParityInputs, sc models.Scenario) (models.ModelResult, error) {
	if err := in.Validate(); err != nil {
		return models.ModelResult{}, err
	}

	localPerADR := in.localPerADRCcy()
	if v, ok := sc.Float(models.KeyFXOverride); ok {
		if v <= 0 {
			return models.ModelResult{}, &models.ValidationError{Field: models.KeyFXOverride, Reason: "fx override must be positive"}
		}
		localPerADR = v
	}

	implied := in.Local.Price * in.Ratio.Ratio / localPerADR
	deviation := (in.ADR.Price - implied) / implied
	devBPS := deviation * 10000

	components := map[string]float64{
		"adr_price":         in.ADR.Price,
		"local_price":       in.Local.Price,
		"ratio":             in.Ratio.Ratio,
		"fx_local_per_adr":  localPerADR,
		"implied_adr_price": implied,
		"deviation_pct":     deviation * 100,
		"deviation_bps":     devBPS,
		"quote_gap_seconds": math.Abs(in.ADR.AsOf.Sub(in.Local.AsOf).Seconds()),
		"dead_band_bps":     m.params.DeadBandBPS,
	}

	confidence := models.ConfidenceHigh
	gap := in.ADR.AsOf.Sub(in.Local.AsOf)
	if gap < 0 {
		gap = -gap
	}
	if m.params.StalenessWindow > 0 && gap > m.params.StalenessWindow {
		// Partial information is still reported, but flagged.
		confidence = models.ConfidenceLow
		components["stale"] = 1
	}

	result := models.ModelResult{
		ModelName:    m.Name(),
		InputsDigest: in.Digest(),
		Magnitude:    devBPS,
		Confidence:   confidence,
		Components:   components,
	}

	if math.Abs(devBPS) <= m.params.DeadBandBPS {
		result.Signal = models.SignalNoArbitrage
		result.Recommendation = "within dead band"
		return result, nil
	}
	result.Signal = models.SignalArbitrage
	if deviation > 0 {
		result.Recommendation = "ADR rich: sell ADR / buy local"
	} else {
		result.Recommendation = "ADR cheap: buy ADR / sell local"
	}
	return result, nil
}

var _ service.Model = (*ADRParity)(nil)
