// Package stats computes descriptive statistics, feature-adoption rates, and
// side-by-side comparisons over cohort member sets.
package stats

import (
	"sort"

	"github.com/klejdi94/strata/core"
)

// MetricStats summarizes one numeric metric over a sample. An empty sample
// yields the zero value, never NaN.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Total  float64 `json:"total"`
}

// CohortMetrics is the full statistical snapshot of one cohort: per-metric
// stats plus the percentage of members with each feature flag set. Derived,
// never persisted; recompute from current data on demand.
type CohortMetrics struct {
	UserCount       int                            `json:"userCount"`
	Metrics         map[core.MetricKey]MetricStats `json:"metrics"`
	FeatureAdoption map[core.FlagKey]float64       `json:"featureAdoption"`
}

// Aggregate computes CohortMetrics over the given member set.
//
// Each metric's sample excludes members with no recorded value for that
// metric, so different metrics may be computed over different-sized subsets
// of the cohort. UserCount is always the size of the input set.
func Aggregate(users []core.UserRecord) CohortMetrics {
	out := CohortMetrics{
		UserCount:       len(users),
		Metrics:         make(map[core.MetricKey]MetricStats, len(core.MetricKeys())),
		FeatureAdoption: make(map[core.FlagKey]float64, len(core.FlagKeys())),
	}

	for _, key := range core.MetricKeys() {
		sample := make([]float64, 0, len(users))
		for i := range users {
			if v, ok := users[i].Metric(key); ok {
				sample = append(sample, v)
			}
		}
		out.Metrics[key] = summarize(sample)
	}

	for _, key := range core.FlagKeys() {
		if len(users) == 0 {
			out.FeatureAdoption[key] = 0
			continue
		}
		adopters := 0
		for i := range users {
			if v, ok := users[i].Flag(key); ok && v {
				adopters++
			}
		}
		out.FeatureAdoption[key] = 100 * float64(adopters) / float64(len(users))
	}

	return out
}

// summarize sorts the sample ascending and computes nearest-rank-by-
// truncation percentiles: the p-th percentile is the element at index
// floor(n*p). For n=10, p90 is the element at index 9 (the maximum).
func summarize(sample []float64) MetricStats {
	n := len(sample)
	if n == 0 {
		return MetricStats{}
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return MetricStats{
		Mean:   total / float64(n),
		Median: sorted[int(float64(n)*0.5)],
		P75:    sorted[int(float64(n)*0.75)],
		P90:    sorted[int(float64(n)*0.9)],
		Min:    sorted[0],
		Max:    sorted[n-1],
		Total:  total,
	}
}
