package engine

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
)

// ComboSpec describes the synthetic position: a call-put combo replicating
// forward exposure on the reference index. StrikeOffsetPct shifts the strike
// off the entry price; TenorMonths sets the roll cadence when positive.
type ComboSpec struct {
	Contracts       int     `json:"contracts"`
	Multiplier      int     `json:"multiplier"`
	StrikeOffsetPct float64 `json:"strike_offset_pct"`
	TenorMonths     int     `json:"tenor_months"`
}

// SyntheticSimInputs is the full history a simulation runs over. Financing is
// an annualized percent rate series; missing dates fall back to the
// configured default rate. Regimes optionally label periods for the
// survivability breakdown; unlabeled periods are grouped under "unlabeled".
type SyntheticSimInputs struct {
	Index       models.PriceSeries            `json:"index"`
	Comparators map[string]models.PriceSeries `json:"comparators,omitempty"`
	Combo       ComboSpec                     `json:"combo"`
	Financing   []models.RatePoint            `json:"financing,omitempty"`
	Regimes     []models.RegimeTag            `json:"regimes,omitempty"`
}

func (in SyntheticSimInputs) Digest() string { return models.DigestOf(in) }

func (in SyntheticSimInputs) Validate() error {
	if err := in.Index.Validate(); err != nil {
		return err
	}
	for _, s := range in.Comparators {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if in.Combo.Contracts < 1 {
		return &models.ValidationError{Field: "combo.contracts", Reason: "at least one contract is required"}
	}
	if in.Combo.Multiplier < 1 {
		return &models.ValidationError{Field: "combo.multiplier", Reason: "contract multiplier must be positive"}
	}
	return nil
}

// SyntheticSimParams are the resolved configuration parameters of the model.
type SyntheticSimParams struct {
	InitialCash        float64
	MarginPct          float64
	MaintenancePct     float64 // fraction of the initial margin requirement
	RollMonths         int
	DividendDragAnnual float64
	FinancingAnnualPct float64 // fallback when no financing series is given
	AltLeverage        float64 // leverage factor of the alternative vehicle
	MinPeriods         int
}

// SimPoint is one period on the simulated path.
type SimPoint struct {
	Date       time.Time `json:"date"`
	IndexClose float64   `json:"index_close"`
	Equity     float64   `json:"equity"`
	Notional   float64   `json:"notional"`
	MarginReq  float64   `json:"margin_req"`
	FreeCash   float64   `json:"free_cash"`
	Drawdown   float64   `json:"drawdown"`
	Wiped      bool      `json:"wiped"`
}

// RegimeStat summarizes survivability within one regime label.
type RegimeStat struct {
	Periods      int     `json:"periods"`
	WipedPeriods int     `json:"wiped_periods"`
	MeanReturn   float64 `json:"mean_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// ComparatorOutcome is the equal-cash benchmark line for one vehicle.
type ComparatorOutcome struct {
	FinalEquity float64   `json:"final_equity"`
	CAGR        float64   `json:"cagr"`
	MaxDrawdown float64   `json:"max_drawdown"`
	Curve       []float64 `json:"curve"`
}

// SimOutcome is the full simulation output.
type SimOutcome struct {
	Path        []SimPoint                   `json:"path"`
	Wiped       bool                         `json:"wiped"`
	WipeDate    time.Time                    `json:"wipe_date,omitempty"`
	Metrics     map[string]float64           `json:"metrics"`
	RegimeStats map[string]RegimeStat        `json:"regime_stats"`
	Comparators map[string]ComparatorOutcome `json:"comparators"`
}

// SyntheticSim walks a leveraged synthetic position through history: combo
// mark-to-market, financing accrual on free cash, dividend drag, periodic
// rolls realising P&L, and a maintenance-margin check. A margin call is
// terminal: once equity crosses below maintenance the path is wiped and
// stays wiped.
//
// The fold keeps all sequential state in an explicit accumulator passed
// period to period; the model value itself holds only parameters.
type SyntheticSim struct {
	params SyntheticSimParams
}

func NewSyntheticSim(p SyntheticSimParams) *SyntheticSim {
	if p.MinPeriods < 2 {
		p.MinPeriods = 2
	}
	if p.MaintenancePct <= 0 {
		p.MaintenancePct = 0.75
	}
	if p.AltLeverage <= 0 {
		p.AltLeverage = 2
	}
	return &SyntheticSim{params: p}
}

func (m *SyntheticSim) Name() string { return "synthetic_strategy_sim" }

func (m *SyntheticSim) Evaluate(in models.Inputs, sc models.Scenario) (models.ModelResult, error) {
	typed, ok := in.(SyntheticSimInputs)
	if !ok {
		return models.ModelResult{}, &models.ValidationError{Field: "inputs", Reason: "synthetic_strategy_sim expects SyntheticSimInputs"}
	}
	out, err := m.Simulate(typed, sc)
	if err != nil {
		return models.ModelResult{}, err
	}

	components := make(map[string]float64, len(out.Metrics))
	for k, v := range out.Metrics {
		components[k] = v
	}
	result := models.ModelResult{
		ModelName:    m.Name(),
		InputsDigest: typed.Digest(),
		Signal:       models.SignalNoArbitrage,
		Magnitude:    out.Metrics["total_return"],
		Confidence:   models.ConfidenceHigh,
		Components:   components,
	}
	if out.Wiped {
		result.Recommendation = "wiped out: margin call on " + out.WipeDate.Format("2006-01-02")
		result.Confidence = models.ConfidenceMedium
	}
	return result, nil
}

// accumulator is the explicit per-period fold state.
type accumulator struct {
	cash     float64
	entry    float64
	lastRoll time.Time
	peak     float64
	wiped    bool
	wipeDate time.Time
}

// Simulate runs the full path-dependent fold.
func (m *SyntheticSim) Simulate(in SyntheticSimInputs, sc models.Scenario) (SimOutcome, error) {
	if err := in.Validate(); err != nil {
		return SimOutcome{}, err
	}
	if len(in.Index) < m.params.MinPeriods {
		return SimOutcome{}, &models.InsufficientDataError{Model: m.Name(), Need: m.params.MinPeriods, Got: len(in.Index)}
	}

	marginPct := sc.FloatOr(models.KeyMarginRate, m.params.MarginPct)
	if marginPct <= 0 || marginPct > 1 {
		return SimOutcome{}, &models.ValidationError{Field: models.KeyMarginRate, Reason: "margin rate must be in (0, 1]"}
	}

	rollMonths := m.params.RollMonths
	if in.Combo.TenorMonths > 0 {
		rollMonths = in.Combo.TenorMonths
	}
	if rollMonths <= 0 {
		rollMonths = 6
	}

	units := float64(in.Combo.Contracts * in.Combo.Multiplier)
	dragDaily := dailyRate(m.params.DividendDragAnnual)
	financing := financingLookup(in.Financing, m.params.FinancingAnnualPct)
	regimeAt := regimeLookup(in.Regimes)

	first := in.Index[0]
	acc := accumulator{
		cash:     m.params.InitialCash,
		entry:    first.Close,
		lastRoll: first.Date,
		peak:     m.params.InitialCash,
	}
	initialStrike := first.Close * (1 + in.Combo.StrikeOffsetPct)

	path := make([]SimPoint, 0, len(in.Index))
	regimeReturns := map[string][]float64{}
	regimeStats := map[string]RegimeStat{}
	prevEquity := m.params.InitialCash
	peakMarginReq := 0.0

	for i, p := range in.Index {
		var pt SimPoint
		acc, pt = m.step(acc, p, i, units, marginPct, rollMonths, dragDaily, financing)
		if pt.MarginReq > peakMarginReq {
			peakMarginReq = pt.MarginReq
		}
		path = append(path, pt)

		label := regimeAt(p.Date)
		st := regimeStats[label]
		st.Periods++
		if pt.Wiped {
			st.WipedPeriods++
		}
		if pt.Drawdown < st.MaxDrawdown {
			st.MaxDrawdown = pt.Drawdown
		}
		if i > 0 && prevEquity > 0 {
			regimeReturns[label] = append(regimeReturns[label], pt.Equity/prevEquity-1)
		}
		regimeStats[label] = st
		prevEquity = pt.Equity
	}
	for label, rets := range regimeReturns {
		st := regimeStats[label]
		st.MeanReturn = stat.Mean(rets, nil)
		regimeStats[label] = st
	}

	equity := make([]float64, len(path))
	for i, pt := range path {
		equity[i] = pt.Equity
	}

	out := SimOutcome{
		Path:        path,
		Wiped:       acc.wiped,
		WipeDate:    acc.wipeDate,
		RegimeStats: regimeStats,
		Comparators: m.comparators(in),
		Metrics: map[string]float64{
			"initial_cash":    m.params.InitialCash,
			"final_equity":    equity[len(equity)-1],
			"total_return":    equity[len(equity)-1]/m.params.InitialCash - 1,
			"cagr":            cagr(equity, in.Index[0].Date, in.Index[len(in.Index)-1].Date),
			"max_drawdown":    maxDrawdown(equity),
			"peak_margin_req": peakMarginReq,
			"initial_strike":  initialStrike,
			"wiped":           boolToFloat(acc.wiped),
		},
	}
	return out, nil
}

// step advances the fold by one period and returns the new state plus the
// recorded path point.
func (m *SyntheticSim) step(acc accumulator, p models.PricePoint, i int, units, marginPct float64, rollMonths int, dragDaily float64, financing func(time.Time) float64) (accumulator, SimPoint) {
	px := p.Close

	if acc.wiped {
		// Terminal state: the path never recovers after a margin call.
		dd := drawdownFrom(acc.peak, acc.cash)
		return acc, SimPoint{Date: p.Date, IndexClose: px, Equity: acc.cash, Drawdown: dd, Wiped: true}
	}

	if i > 0 && monthsBetween(acc.lastRoll, p.Date) >= rollMonths {
		// Roll: realise combo P&L into cash and re-strike at the market.
		acc.cash += (px - acc.entry) * units
		acc.entry = px
		acc.lastRoll = p.Date
	}

	notional := px * units
	marginReq := marginPct * notional
	maintenance := m.params.MaintenancePct * marginReq
	pnl := (px - acc.entry) * units

	// Synthetic positions forgo the dividend stream of the underlying.
	acc.cash -= notional * dragDaily

	equity := acc.cash + pnl
	freeCash := math.Max(0, equity-marginReq)
	acc.cash += freeCash * dailyRate(financing(p.Date)/100)
	equity = acc.cash + pnl

	if equity > acc.peak {
		acc.peak = equity
	}

	if equity < maintenance {
		// Margin call: close out at the current mark and freeze.
		acc.cash = math.Max(equity, 0)
		acc.wiped = true
		acc.wipeDate = p.Date
		dd := drawdownFrom(acc.peak, acc.cash)
		return acc, SimPoint{Date: p.Date, IndexClose: px, Equity: acc.cash, Notional: notional, MarginReq: marginReq, Drawdown: dd, Wiped: true}
	}

	return acc, SimPoint{
		Date:       p.Date,
		IndexClose: px,
		Equity:     equity,
		Notional:   notional,
		MarginReq:  marginReq,
		FreeCash:   freeCash,
		Drawdown:   drawdownFrom(acc.peak, equity),
	}
}

// comparators builds equal-cash benchmark curves: the reference index held
// unleveraged, a constant-leverage alternative on the same index, and any
// caller-supplied vehicles.
func (m *SyntheticSim) comparators(in SyntheticSimInputs) map[string]ComparatorOutcome {
	out := map[string]ComparatorOutcome{}
	out["buy_hold"] = buyHoldCurve(in.Index, m.params.InitialCash, 1)
	out["leveraged_alt"] = buyHoldCurve(in.Index, m.params.InitialCash, m.params.AltLeverage)

	names := make([]string, 0, len(in.Comparators))
	for name := range in.Comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := in.Comparators[name]
		if len(s) < 2 {
			continue
		}
		out[name] = buyHoldCurve(s, m.params.InitialCash, 1)
	}
	return out
}

func buyHoldCurve(s models.PriceSeries, cash, leverage float64) ComparatorOutcome {
	curve := make([]float64, len(s))
	base := adjClose(s[0])
	for i, p := range s {
		ret := (adjClose(p)/base - 1) * leverage
		curve[i] = cash * (1 + ret)
	}
	return ComparatorOutcome{
		FinalEquity: curve[len(curve)-1],
		CAGR:        cagr(curve, s[0].Date, s[len(s)-1].Date),
		MaxDrawdown: maxDrawdown(curve),
		Curve:       curve,
	}
}

func adjClose(p models.PricePoint) float64 {
	if p.AdjClose > 0 {
		return p.AdjClose
	}
	return p.Close
}

func financingLookup(series []models.RatePoint, fallback float64) func(time.Time) float64 {
	if len(series) == 0 {
		return func(time.Time) float64 { return fallback }
	}
	sorted := append([]models.RatePoint(nil), series...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return func(t time.Time) float64 {
		v := sorted[0].AnnualPct
		for _, p := range sorted {
			if p.Date.After(t) {
				break
			}
			v = p.AnnualPct
		}
		return v
	}
}

func regimeLookup(tags []models.RegimeTag) func(time.Time) string {
	if len(tags) == 0 {
		return func(time.Time) string { return "unlabeled" }
	}
	sorted := append([]models.RegimeTag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return func(t time.Time) string {
		label := "unlabeled"
		for _, tag := range sorted {
			if tag.Date.After(t) {
				break
			}
			label = tag.Label
		}
		return label
	}
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()*12 + int(b.Month())) - (a.Year()*12 + int(a.Month()))
}

func dailyRate(annual float64) float64 {
	return math.Pow(1+annual, 1/365.25) - 1
}

func cagr(equity []float64, start, end time.Time) float64 {
	if len(equity) < 2 || equity[0] <= 0 {
		return 0
	}
	years := end.Sub(start).Hours() / 24 / 365.25
	if years <= 0 {
		return 0
	}
	last := equity[len(equity)-1]
	if last <= 0 {
		return -1
	}
	return math.Pow(last/equity[0], 1/years) - 1
}

func maxDrawdown(equity []float64) float64 {
	worst, peak := 0.0, math.Inf(-1)
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if dd := drawdownFrom(peak, v); dd < worst {
			worst = dd
		}
	}
	return worst
}

func drawdownFrom(peak, v float64) float64 {
	if peak <= 0 {
		return 0
	}
	dd := v/peak - 1
	if dd > 0 {
		return 0
	}
	return dd
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var _ service.Model = (*SyntheticSim)(nil)
