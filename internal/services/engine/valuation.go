package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// Normalization modes for country scoring.
const (
	ValuationModeAbsolute = "absolute"
	ValuationModeZScore   = "zscore"
)

// Metric names used in weights, scores, and ranks.
const (
	MetricPE            = "pe"
	MetricForwardPE     = "forward_pe"
	MetricPriceToBook   = "price_to_book"
	MetricDividendYield = "dividend_yield"
	MetricReturns       = "returns"
)

// CountryValuationInputs is the full cross-section of country metric sets.
// Scoring is relative, so the model needs all countries at once.
type CountryValuationInputs struct {
	Countries []models.CountryMetrics `json:"countries"`
}

func (in CountryValuationInputs) Digest() string { return models.DigestOf(in) }

func (in CountryValuationInputs) Validate() error {
	for _, c := range in.Countries {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValuationWeights is the composite weighting across metrics. Weights are
// renormalized per country over the metrics that country actually reports,
// so incomplete data is not penalized as if it scored zero.
type ValuationWeights struct {
	PE            float64 `json:"pe"`
	ForwardPE     float64 `json:"forward_pe"`
	PriceToBook   float64 `json:"price_to_book"`
	DividendYield float64 `json:"dividend_yield"`
	Returns       float64 `json:"returns"`
}

// Sum returns the total weight.
func (w ValuationWeights) Sum() float64 {
	return w.PE + w.ForwardPE + w.PriceToBook + w.DividendYield + w.Returns
}

// ValuationParams are the resolved configuration parameters of the model.
type ValuationParams struct {
	Weights  ValuationWeights
	Mode     string
	MinPeers int
}

// CountryScore is the per-country scoring output. Composite runs 0-100 with
// low meaning cheap. MetricRanks rank each reported metric cross-sectionally,
// 1 = cheapest among reporting countries.
type CountryScore struct {
	Country      string             `json:"country"`
	Composite    float64            `json:"composite"`
	Verdict      string             `json:"verdict"`
	MetricScores map[string]float64 `json:"metric_scores"`
	MetricRanks  map[string]int     `json:"metric_ranks"`
	Missing      []string           `json:"missing,omitempty"`
}

// CountryValuation scores countries on valuation metrics. The default
// absolute mode maps each metric onto fixed 0-100 bands, so one country's
// missing metric never moves another country's composite. The zscore mode
// normalizes cross-sectionally over reporting countries instead.
type CountryValuation struct {
	params ValuationParams
}

func NewCountryValuation(p ValuationParams) *CountryValuation {
	if p.Mode == "" {
		p.Mode = ValuationModeAbsolute
	}
	if p.MinPeers <= 0 {
		p.MinPeers = 3
	}
	return &CountryValuation{params: p}
}

func (m *CountryValuation) Name() string { return "country_valuation" }

func (m *CountryValuation) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(CountryValuationInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "country_valuation expects CountryValuationInputs"}
	}
	scores, skipped, err := m.Scores(typed, sc)
	if err != nil {
		return models.ModelResult{}, err
	}

	// Summary result: the cheapest country leads; per-country composites go
	// into components keyed by country.
	components := make(map[string]float64, len(scores)+1)
	for _, s := range scores {
		components["score."+s.Country] = s.Composite
	}
	components["skipped"] = float64(len(skipped))

	result := models.ModelResult{
		ModelName:    m.Name(),
		InputsDigest: typed.Digest(),
		Signal:       models.SignalNoArbitrage,
		Confidence:   models.ConfidenceHigh,
		Components:   components,
	}
	if len(scores) > 0 {
		result.Magnitude = scores[0].Composite
		result.Recommendation = scores[0].Country + " " + scores[0].Verdict
	}
	if len(skipped) > 0 {
		result.Confidence = models.ConfidenceMedium
	}
	return result, nil
}

// Scores computes the full per-country scoring table, cheapest first.
// Countries reporting no usable metric are returned as skipped entities.
func (m *CountryValuation) Scores(in CountryValuationInputs, _ models.Scenario) ([]CountryScore, []models.EntityError, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	if len(in.Countries) < m.params.MinPeers {
		return nil, nil, &models.InsufficientDataError{Model: m.Name(), Need: m.params.MinPeers, Got: len(in.Countries)}
	}

	raw := make([]map[string]float64, len(in.Countries))
	for i, c := range in.Countries {
		raw[i] = metricValues(c)
	}

	var scores []CountryScore
	var skipped []models.EntityError
	for i, c := range in.Countries {
		var s CountryScore
		var err error
		switch m.params.Mode {
		case ValuationModeZScore:
			s, err = m.scoreZ(c, raw[i], raw)
		default:
			s, err = m.scoreAbsolute(c, raw[i])
		}
		if err != nil {
			skipped = append(skipped, models.EntityError{Entity: c.Country, Err: err})
			continue
		}
		s.MetricRanks = metricRanks(raw[i], raw, i)
		scores = append(scores, s)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Composite != scores[j].Composite {
			return scores[i].Composite < scores[j].Composite
		}
		return scores[i].Country < scores[j].Country
	})
	return scores, skipped, nil
}

// metricValues extracts the reported metrics of one country. Dividend yields
// published as percent numbers are normalized to decimals; the returns block
// collapses to the mean of the reported period performances.
func metricValues(c models.CountryMetrics) map[string]float64 {
	out := make(map[string]float64, 5)
	if c.PE != nil {
		out[MetricPE] = *c.PE
	}
	if c.ForwardPE != nil {
		out[MetricForwardPE] = *c.ForwardPE
	}
	if c.PriceToBook != nil {
		out[MetricPriceToBook] = *c.PriceToBook
	}
	if c.DividendYield != nil {
		dy := *c.DividendYield
		for dy > 0.5 {
			dy /= 100
		}
		out[MetricDividendYield] = dy
	}
	if len(c.Returns) > 0 {
		keys := make([]string, 0, len(c.Returns))
		for k := range c.Returns {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sum := 0.0
		for _, k := range keys {
			sum += c.Returns[k]
		}
		out[MetricReturns] = sum / float64(len(keys))
	}
	return out
}

func (m *CountryValuation) weight(metric string) float64 {
	switch metric {
	case MetricPE:
		return m.params.Weights.PE
	case MetricForwardPE:
		return m.params.Weights.ForwardPE
	case MetricPriceToBook:
		return m.params.Weights.PriceToBook
	case MetricDividendYield:
		return m.params.Weights.DividendYield
	case MetricReturns:
		return m.params.Weights.Returns
	}
	return 0
}

// scoreAbsolute maps each reported metric onto a fixed 0-100 expensiveness
// band and weight-averages over the reported set.
func (m *CountryValuation) scoreAbsolute(c models.CountryMetrics, vals map[string]float64) (CountryScore, error) {
	scores := map[string]float64{}
	if v, ok := vals[MetricPE]; ok {
		scores[MetricPE] = clamp(v/25*100, 0, 100)
	}
	if v, ok := vals[MetricForwardPE]; ok {
		scores[MetricForwardPE] = clamp(v/20*100, 0, 100)
	}
	if v, ok := vals[MetricPriceToBook]; ok {
		scores[MetricPriceToBook] = clamp(v/5*100, 0, 100)
	}
	if v, ok := vals[MetricDividendYield]; ok {
		// High yield reads cheap, so it scores low.
		scores[MetricDividendYield] = clamp((1-v/0.05)*100, 0, 100)
	}
	if v, ok := vals[MetricReturns]; ok {
		// Strong trailing performance reads expensive.
		scores[MetricReturns] = clamp(v/15*100, 0, 100)
	}
	return m.combine(c, scores)
}

// scoreZ normalizes each metric cross-sectionally over the countries that
// report it and centers the composite on 50.
func (m *CountryValuation) scoreZ(c models.CountryMetrics, vals map[string]float64, all []map[string]float64) (CountryScore, error) {
	scores := map[string]float64{}
	for metric, v := range vals {
		pool := make([]float64, 0, len(all))
		for _, other := range all {
			if ov, ok := other[metric]; ok {
				pool = append(pool, ov)
			}
		}
		if len(pool) < 2 {
			scores[metric] = 50
			continue
		}
		mean, std := stat.MeanStdDev(pool, nil)
		if std == 0 {
			scores[metric] = 50
			continue
		}
		z := (v - mean) / std
		if metric == MetricDividendYield {
			// High yield is cheap: flip the orientation.
			z = -z
		}
		scores[metric] = clamp(50+10*z, 0, 100)
	}
	return m.combine(c, scores)
}

func (m *CountryValuation) combine(c models.CountryMetrics, scores map[string]float64) (CountryScore, error) {
	metrics := []string{MetricPE, MetricForwardPE, MetricPriceToBook, MetricDividendYield, MetricReturns}
	total, weighted := 0.0, 0.0
	var missing []string
	for _, metric := range metrics {
		w := m.weight(metric)
		if w <= 0 {
			continue
		}
		s, ok := scores[metric]
		if !ok {
			missing = append(missing, metric)
			continue
		}
		total += w
		weighted += s * w
	}
	if total == 0 {
		return CountryScore{}, &models.InsufficientDataError{Model: "country_valuation", Need: 1, Got: 0}
	}
	composite := weighted / total
	return CountryScore{
		Country:      c.Country,
		Composite:    composite,
		Verdict:      verdict(composite),
		MetricScores: scores,
		Missing:      missing,
	}, nil
}

// metricRanks ranks country idx's reported metrics among the countries that
// report each metric; rank 1 is the cheapest value for the metric.
func metricRanks(vals map[string]float64, all []map[string]float64, idx int) map[string]int {
	ranks := make(map[string]int, len(vals))
	for metric, v := range vals {
		rank := 1
		for j, other := range all {
			ov, ok := other[metric]
			if !ok || j == idx {
				continue
			}
			cheaper := ov < v
			if metric == MetricDividendYield {
				cheaper = ov > v
			}
			if cheaper || (ov == v && j < idx) {
				rank++
			}
		}
		ranks[metric] = rank
	}
	return ranks
}

func verdict(score float64) string {
	switch {
	case score <= 25:
		return "very cheap"
	case score <= 40:
		return "cheap"
	case score <= 60:
		return "fair value"
	case score <= 80:
		return "expensive"
	default:
		return "very expensive"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

var _ service.Model = (*CountryValuation)(nil)
