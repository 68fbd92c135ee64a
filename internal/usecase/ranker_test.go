package usecase

import (
	"errors"
	"reflect"
	"testing"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/services/engine"
)

func sampleScores() []engine.CountryScore {
	return []engine.CountryScore{
		{Country: "USA", Composite: 88, Verdict: "very expensive"},
		{Country: "Poland", Composite: 27, Verdict: "cheap"},
		{Country: "Japan", Composite: 53, Verdict: "fair value"},
	}
}

func TestRankCountryScoresOrdering(t *testing.T) {
	table := RankCountryScores(sampleScores(), nil)
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	for i, want := range []string{"Poland", "Japan", "USA"} {
		if table.Rows[i].Entity != want {
			t.Fatalf("rows[%d] = %s, want %s", i, table.Rows[i].Entity, want)
		}
		if table.Rows[i].Rank != i+1 {
			t.Fatalf("rows[%d].Rank = %d, want %d", i, table.Rows[i].Rank, i+1)
		}
	}
	if table.Rows[0].Band != BandCheap || table.Rows[2].Band != BandRich {
		t.Fatalf("band assignment wrong: %s .. %s", table.Rows[0].Band, table.Rows[2].Band)
	}
}

func TestRankCountryScoresTieBreak(t *testing.T) {
	scores := []engine.CountryScore{
		{Country: "BBB", Composite: 50},
		{Country: "AAA", Composite: 50},
	}
	table := RankCountryScores(scores, nil)
	if table.Rows[0].Entity != "AAA" {
		t.Fatalf("equal scores must break ties by name, got %s first", table.Rows[0].Entity)
	}
}

func TestRankCountryScoresDeterminism(t *testing.T) {
	a := RankCountryScores(sampleScores(), nil)
	b := RankCountryScores(sampleScores(), nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different tables")
	}
}

func TestRankResultsByAbsoluteMagnitude(t *testing.T) {
	batch := BatchResult{
		Model: "adr_parity",
		Results: []EntityResult{
			{Entity: "AAA", Result: models.ModelResult{Magnitude: 120}},
			{Entity: "BBB", Result: models.ModelResult{Magnitude: -480}},
			{Entity: "CCC", Result: models.ModelResult{Magnitude: 30}},
		},
	}
	table := RankResults(batch)
	for i, want := range []string{"BBB", "AAA", "CCC"} {
		if table.Rows[i].Entity != want {
			t.Fatalf("rows[%d] = %s, want %s", i, table.Rows[i].Entity, want)
		}
	}
}

func TestRankResultsCarriesSkips(t *testing.T) {
	batch := BatchResult{
		Model: "adr_parity",
		Results: []EntityResult{
			{Entity: "AAA", Result: models.ModelResult{Magnitude: 10}},
		},
		Failures: []models.EntityError{
			{Entity: "BAD", Err: errors.New("invalid price")},
		},
	}
	table := RankResults(batch)
	if len(table.Skipped) != 1 || table.Skipped[0].Entity != "BAD" {
		t.Fatalf("expected BAD in skipped, got %v", table.Skipped)
	}
	if table.Skipped[0].Reason != "invalid price" {
		t.Fatalf("reason = %q", table.Skipped[0].Reason)
	}
}

func TestAssignBandsFlatScores(t *testing.T) {
	rows := []RankedRow{{Entity: "A", Score: 50}, {Entity: "B", Score: 50}}
	assignRanksAndBands(rows)
	for _, r := range rows {
		if r.Band != BandCheap {
			t.Fatalf("flat scores should all land in the first band, got %s", r.Band)
		}
	}
}
