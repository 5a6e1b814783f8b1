package stats

import (
	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
)

// CohortStats pairs a cohort definition with its computed metrics.
type CohortStats struct {
	Cohort  cohort.Cohort `json:"cohort"`
	Metrics CohortMetrics `json:"metrics"`
}

// Range is the min/max of a metric's per-cohort means.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComparisonRow compares one metric across all supplied cohorts: each
// cohort's mean keyed by cohort id, the range of those means, and the spread
// (max minus min).
type ComparisonRow struct {
	MetricName string             `json:"metricName"`
	MetricKey  core.MetricKey     `json:"metricKey"`
	Values     map[string]float64 `json:"values"`
	Range      Range              `json:"range"`
	Spread     float64            `json:"spread"`
}

// MultiCohortStats is the side-by-side comparison of several cohorts: one
// CohortStats per cohort in input order, plus one ComparisonRow per tracked
// metric.
type MultiCohortStats struct {
	Cohorts           []CohortStats   `json:"cohorts"`
	ComparisonMetrics []ComparisonRow `json:"comparisonMetrics"`
}

// Compare resolves membership and metrics for every cohort, then derives the
// per-metric comparison rows. Degenerate inputs (no cohorts, no users)
// produce well-formed zero-valued output.
func Compare(allUsers []core.UserRecord, cohorts []cohort.Cohort) MultiCohortStats {
	out := MultiCohortStats{
		Cohorts:           make([]CohortStats, 0, len(cohorts)),
		ComparisonMetrics: make([]ComparisonRow, 0, len(core.MetricKeys())),
	}
	for _, c := range cohorts {
		out.Cohorts = append(out.Cohorts, CohortStats{
			Cohort:  c,
			Metrics: Aggregate(cohort.MembersFor(allUsers, c)),
		})
	}

	for _, key := range core.MetricKeys() {
		row := ComparisonRow{
			MetricName: key.DisplayName(),
			MetricKey:  key,
			Values:     make(map[string]float64, len(cohorts)),
		}
		// Seed extremes from the first cohort so an empty comparison stays
		// at finite zeros instead of leaking +-Inf sentinels.
		for i, cs := range out.Cohorts {
			mean := cs.Metrics.Metrics[key].Mean
			row.Values[cs.Cohort.ID] = mean
			if i == 0 {
				row.Range.Min, row.Range.Max = mean, mean
				continue
			}
			if mean < row.Range.Min {
				row.Range.Min = mean
			}
			if mean > row.Range.Max {
				row.Range.Max = mean
			}
		}
		row.Spread = row.Range.Max - row.Range.Min
		out.ComparisonMetrics = append(out.ComparisonMetrics, row)
	}
	return out
}
