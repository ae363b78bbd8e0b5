package importer

import (
	"math"
	"sort"
	"time"

	"healthvault/internal/domain"
)

type dayKey struct {
	metricType string
	day        string
}

// aggregateOlder collapses high-frequency samples measured before cutoff
// into one candidate per (metric type, calendar day). Recent samples and
// non-aggregated types pass through unchanged. The daily value is the sum
// for summed types and the arithmetic mean otherwise, rounded to 2
// decimals; the synthetic timestamp is pinned to noon UTC of the day so
// repeated imports of the same export collapse onto the same
// deduplication key.
func aggregateOlder(candidates []domain.MetricCandidate, cutoff time.Time) []domain.MetricCandidate {
	var out []domain.MetricCandidate
	groups := make(map[dayKey][]float64)
	var owner string

	for _, c := range candidates {
		if !aggregateTypes[c.MetricType] || !c.MeasuredAt.Before(cutoff) {
			out = append(out, c)
			continue
		}
		owner = c.Owner
		key := dayKey{c.MetricType, c.MeasuredAt.UTC().Format("2006-01-02")}
		groups[key] = append(groups[key], c.Value)
	}

	// Deterministic output order for the synthesized records.
	keys := make([]dayKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].metricType != keys[j].metricType {
			return keys[i].metricType < keys[j].metricType
		}
		return keys[i].day < keys[j].day
	})

	for _, k := range keys {
		values := groups[k]
		var value float64
		for _, v := range values {
			value += v
		}
		if !sumTypes[k.metricType] {
			value /= float64(len(values))
		}
		value = math.Round(value*100) / 100

		day, err := time.Parse("2006-01-02", k.day)
		if err != nil {
			continue
		}

		out = append(out, domain.MetricCandidate{
			Owner:      owner,
			MetricType: k.metricType,
			Value:      value,
			Unit:       canonicalUnit(k.metricType),
			MeasuredAt: day.Add(12 * time.Hour),
			Source:     domain.SourceImport,
		})
	}
	return out
}
