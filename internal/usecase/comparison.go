package usecase

import (
	"sort"

	engine "ArbLens/internal/services/engine"
)

// ComparisonRow is one vehicle in a strategy comparison.
type ComparisonRow struct {
	Vehicle     string  `json:"vehicle"`
	FinalEquity float64 `json:"final_equity"`
	CAGR        float64 `json:"cagr"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Wiped       bool    `json:"wiped"`
}

// ComparisonTable places the simulated synthetic position alongside its
// equal-cash comparators.
type ComparisonTable struct {
	Rows        []ComparisonRow              `json:"rows"`
	RegimeStats map[string]engine.RegimeStat `json:"regime_stats,omitempty"`
}

// BuildComparison flattens a simulation outcome into a comparison table,
// synthetic first, comparators in name order.
func BuildComparison(out engine.SimOutcome) ComparisonTable {
	rows := []ComparisonRow{{
		Vehicle:     "synthetic",
		FinalEquity: out.Metrics["final_equity"],
		CAGR:        out.Metrics["cagr"],
		MaxDrawdown: out.Metrics["max_drawdown"],
		Wiped:       out.Wiped,
	}}

	names := make([]string, 0, len(out.Comparators))
	for name := range out.Comparators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := out.Comparators[name]
		rows = append(rows, ComparisonRow{
			Vehicle:     name,
			FinalEquity: c.FinalEquity,
			CAGR:        c.CAGR,
			MaxDrawdown: c.MaxDrawdown,
		})
	}
	return ComparisonTable{Rows: rows, RegimeStats: out.RegimeStats}
}
