package models

import "sort"

// Scenario override keys shared by the models. Absence of a key means the
// model uses the value carried on the canonical input record.
const (
	KeyFXOverride    = "fx_override"
	KeyBorrowRate    = "borrow_rate"
	KeyForwardPoints = "forward_points"
	KeyMarginRate    = "margin_rate"

	FlagForcedScrip = "forced_scrip"
)

// Scenario is an immutable bag of named overrides for one evaluation call.
// Construct it with NewScenario or ScenarioFromMap; it never mutates after.
type Scenario struct {
	values map[string]float64
	flags  map[string]bool
	regime string
}

// ScenarioOption configures a Scenario during construction.
type ScenarioOption func(*Scenario)

// WithOverride sets a numeric override.
func WithOverride(key string, v float64) ScenarioOption {
	return func(s *Scenario) { s.values[key] = v }
}

// WithFlag sets a boolean override.
func WithFlag(key string, v bool) ScenarioOption {
	return func(s *Scenario) { s.flags[key] = v }
}

// WithRegime sets an assumed regime label.
func WithRegime(label string) ScenarioOption {
	return func(s *Scenario) { s.regime = label }
}

// NewScenario builds a scenario from options.
func NewScenario(opts ...ScenarioOption) Scenario {
	s := Scenario{values: map[string]float64{}, flags: map[string]bool{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ScenarioFromMap builds a scenario from caller-supplied maps, copying them
// so later mutation by the caller cannot leak in.
func ScenarioFromMap(values map[string]float64, flags map[string]bool, regime string) Scenario {
	s := Scenario{values: make(map[string]float64, len(values)), flags: make(map[string]bool, len(flags)), regime: regime}
	for k, v := range values {
		s.values[k] = v
	}
	for k, v := range flags {
		s.flags[k] = v
	}
	return s
}

// Float looks up a numeric override.
func (s Scenario) Float(key string) (float64, bool) {
	v, ok := s.values[key]
	return v, ok
}

// FloatOr returns the override for key, or def when absent.
func (s Scenario) FloatOr(key string, def float64) float64 {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Flag looks up a boolean override; absent flags are false.
func (s Scenario) Flag(key string) bool {
	return s.flags[key]
}

// Regime returns the assumed regime label, empty when not set.
func (s Scenario) Regime() string {
	return s.regime
}

// scenarioSnapshot is the canonical serialized form used for digests.
type scenarioSnapshot struct {
	Keys   []string  `json:"keys"`
	Values []float64 `json:"values"`
	Flags  []string  `json:"flags"`
	Regime string    `json:"regime,omitempty"`
}

// Digest returns a stable digest of the scenario contents.
func (s Scenario) Digest() string {
	snap := scenarioSnapshot{Regime: s.regime}
	for k := range s.values {
		snap.Keys = append(snap.Keys, k)
	}
	sort.Strings(snap.Keys)
	for _, k := range snap.Keys {
		snap.Values = append(snap.Values, s.values[k])
	}
	for k, v := range s.flags {
		if v {
			snap.Flags = append(snap.Flags, k)
		}
	}
	sort.Strings(snap.Flags)
	return DigestOf(snap)
}
