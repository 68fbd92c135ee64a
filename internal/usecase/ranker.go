package usecase

import (
	"math"
	"sort"

	"ArbLens/internal/domain/models"
	engine "ArbLens/internal/services/engine"
)

// Heat bands assigned to ranked rows.
const (
	BandCheap   = "cheap"
	BandNeutral = "neutral"
	BandRich    = "rich"
)

// RankedRow is one entity in a ranking table.
type RankedRow struct {
	Entity     string             `json:"entity"`
	Score      float64            `json:"score"`
	Rank       int                `json:"rank"`
	Band       string             `json:"band"`
	Verdict    string             `json:"verdict,omitempty"`
	Components map[string]float64 `json:"components,omitempty"`
}

// RankingTable is ordered, heat-banded output ready for presentation.
// Skipped entities ride alongside so partial batches stay visible.
type RankingTable struct {
	Model   string       `json:"model"`
	Rows    []RankedRow  `json:"rows"`
	Skipped []SkipReason `json:"skipped,omitempty"`
}

// SkipReason is the serializable form of an entity failure.
type SkipReason struct {
	Entity string `json:"entity"`
	Reason string `json:"reason"`
}

// RankCountryScores orders country valuation scores cheapest first and
// assigns tercile heat bands.
func RankCountryScores(scores []engine.CountryScore, skipped []models.EntityError) RankingTable {
	rows := make([]RankedRow, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, RankedRow{
			Entity:     s.Country,
			Score:      s.Composite,
			Verdict:    s.Verdict,
			Components: s.MetricScores,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score < rows[j].Score
		}
		return rows[i].Entity < rows[j].Entity
	})
	assignRanksAndBands(rows)
	return RankingTable{Model: "country_valuation", Rows: rows, Skipped: skipReasons(skipped)}
}

// RankResults orders batch evaluation results by magnitude, strongest signal
// first, with a stable name tie-break.
func RankResults(batch BatchResult) RankingTable {
	rows := make([]RankedRow, 0, len(batch.Results))
	for _, r := range batch.Results {
		rows = append(rows, RankedRow{
			Entity:     r.Entity,
			Score:      r.Result.Magnitude,
			Components: r.Result.Components,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := math.Abs(rows[i].Score), math.Abs(rows[j].Score)
		if ai != aj {
			return ai > aj
		}
		return rows[i].Entity < rows[j].Entity
	})
	assignRanksAndBands(rows)
	return RankingTable{Model: batch.Model, Rows: rows, Skipped: skipReasons(batch.Failures)}
}

// assignRanksAndBands numbers rows 1..n and colors them by score terciles
// within the observed range.
func assignRanksAndBands(rows []RankedRow) {
	if len(rows) == 0 {
		return
	}
	lo, hi := rows[0].Score, rows[0].Score
	for _, r := range rows {
		lo = math.Min(lo, r.Score)
		hi = math.Max(hi, r.Score)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i := range rows {
		rows[i].Rank = i + 1
		t := (rows[i].Score - lo) / span
		switch {
		case t < 1.0/3:
			rows[i].Band = BandCheap
		case t < 2.0/3:
			rows[i].Band = BandNeutral
		default:
			rows[i].Band = BandRich
		}
	}
}

func skipReasons(errs []models.EntityError) []SkipReason {
	if len(errs) == 0 {
		return nil
	}
	out := make([]SkipReason, 0, len(errs))
	for _, e := range errs {
		out = append(out, SkipReason{Entity: e.Entity, Reason: e.Reason()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out
}
