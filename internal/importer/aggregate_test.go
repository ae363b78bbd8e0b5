package importer

import (
	"testing"
	"time"

	"healthvault/internal/domain"
)

func candidate(metricType string, value float64, measuredAt time.Time) domain.MetricCandidate {
	return domain.MetricCandidate{
		Owner:      "u",
		MetricType: metricType,
		Value:      value,
		Unit:       canonicalUnit(metricType),
		MeasuredAt: measuredAt,
		Source:     domain.SourceImport,
	}
}

func TestAggregateOlderMeansPerDay(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	in := []domain.MetricCandidate{
		candidate("heart_rate", 60, day.Add(8*time.Hour)),
		candidate("heart_rate", 70, day.Add(9*time.Hour)),
		candidate("heart_rate", 81, day.Add(10*time.Hour)),
	}

	out := aggregateOlder(in, cutoff)
	if len(out) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(out))
	}
	if out[0].Value != 70.33 {
		t.Errorf("value = %v; want 70.33", out[0].Value)
	}
	if out[0].Unit != "bpm" {
		t.Errorf("unit = %q; want bpm", out[0].Unit)
	}
	if out[0].Source != domain.SourceImport {
		t.Errorf("source = %q; want %q", out[0].Source, domain.SourceImport)
	}
	want := day.Add(12 * time.Hour)
	if !out[0].MeasuredAt.Equal(want) {
		t.Errorf("measured at = %v; want %v", out[0].MeasuredAt, want)
	}
}

func TestAggregateOlderSumsSteps(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	in := []domain.MetricCandidate{
		candidate("steps", 2000, day.Add(8*time.Hour)),
		candidate("steps", 3000, day.Add(12*time.Hour)),
		candidate("steps", 500, day.Add(20*time.Hour)),
	}

	out := aggregateOlder(in, cutoff)
	if len(out) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(out))
	}
	if out[0].Value != 5500 {
		t.Errorf("value = %v; want 5500", out[0].Value)
	}
}

func TestAggregateOlderSplitsByDayAndType(t *testing.T) {
	day1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	in := []domain.MetricCandidate{
		candidate("heart_rate", 60, day1.Add(time.Hour)),
		candidate("heart_rate", 62, day2.Add(time.Hour)),
		candidate("steps", 4000, day1.Add(time.Hour)),
	}

	out := aggregateOlder(in, cutoff)
	if len(out) != 3 {
		t.Fatalf("expected 3 aggregates, got %d", len(out))
	}
}

func TestAggregateOlderPassesThroughRecentAndIneligible(t *testing.T) {
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	recent := candidate("heart_rate", 72, cutoff.Add(time.Hour))
	atCutoff := candidate("heart_rate", 73, cutoff)
	weight := candidate("weight", 80, cutoff.AddDate(0, -2, 0))

	out := aggregateOlder([]domain.MetricCandidate{recent, atCutoff, weight}, cutoff)
	if len(out) != 3 {
		t.Fatalf("expected 3 pass-through candidates, got %d", len(out))
	}
	for _, c := range out {
		if c.MetricType == "weight" && !c.MeasuredAt.Equal(weight.MeasuredAt) {
			t.Errorf("weight candidate was aggregated: %+v", c)
		}
	}
}

func TestAggregateOlderDeterministic(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	in := []domain.MetricCandidate{
		candidate("steps", 2000, day.Add(8*time.Hour)),
		candidate("heart_rate", 60, day.Add(8*time.Hour)),
		candidate("heart_rate", 70, day.Add(9*time.Hour)),
	}

	first := aggregateOlder(in, cutoff)
	second := aggregateOlder(in, cutoff)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("output %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
