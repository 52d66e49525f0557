package domain

import "time"

// DateLayout est le format des jours stockés (recorded_on).
const DateLayout = "2006-01-02"

type WeightEntry struct {
	ID         string
	UserID     string
	WeightKg   float64
	RecordedOn time.Time
	Note       string
	CreatedAt  time.Time
}

type WeightSummary struct {
	Entries      int
	First        *WeightEntry
	Latest       *WeightEntry
	DeltaKg      float64
	GoalWeightKg float64
	// RemainingKg vaut latest - goal (0 sans objectif).
	RemainingKg float64
}

// SummarizeWeights attend des entrées triées de la plus récente à la plus ancienne.
func SummarizeWeights(entries []WeightEntry, goal float64) WeightSummary {
	s := WeightSummary{Entries: len(entries), GoalWeightKg: goal}
	if len(entries) == 0 {
		return s
	}
	latest := entries[0]
	first := entries[len(entries)-1]
	s.Latest = &latest
	s.First = &first
	s.DeltaKg = roundKg(latest.WeightKg - first.WeightKg)
	if goal > 0 {
		s.RemainingKg = roundKg(latest.WeightKg - goal)
	}
	return s
}

func roundKg(v float64) float64 {
	if v < 0 {
		return -roundKg(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
