package usecase

import (
	"testing"

	"ArbLens/internal/services/engine"
)

func TestBuildComparisonOrder(t *testing.T) {
	out := engine.SimOutcome{
		Wiped:   true,
		Metrics: map[string]float64{"final_equity": 0, "cagr": -1, "max_drawdown": -1},
		Comparators: map[string]engine.ComparatorOutcome{
			"world_etf":     {FinalEquity: 41000},
			"buy_hold":      {FinalEquity: 39000},
			"leveraged_alt": {FinalEquity: 48000},
		},
	}
	table := BuildComparison(out)
	if len(table.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Vehicle != "synthetic" || !table.Rows[0].Wiped {
		t.Fatalf("synthetic row must lead and carry the wipe flag")
	}
	for i, want := range []string{"buy_hold", "leveraged_alt", "world_etf"} {
		if table.Rows[i+1].Vehicle != want {
			t.Fatalf("rows[%d] = %s, want %s", i+1, table.Rows[i+1].Vehicle, want)
		}
	}
}
