package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_SpreadAcrossCohorts(t *testing.T) {
	users := []core.UserRecord{
		{Email: "low@x.com", EngagementScore: core.Float(30)},
		{Email: "mid@x.com", EngagementScore: core.Float(60)},
		{Email: "high@x.com", EngagementScore: core.Float(100)},
	}
	cohorts := []cohort.Cohort{
		{ID: "c-low", Name: "Low", FilterCriteria: filter.Criteria{EngagementScoreMax: "50"}},
		{ID: "c-high", Name: "High", FilterCriteria: filter.Criteria{EngagementScoreMin: "50"}},
	}

	out := Compare(users, cohorts)
	require.Len(t, out.Cohorts, 2)
	assert.Equal(t, "c-low", out.Cohorts[0].Cohort.ID)

	var row ComparisonRow
	for _, r := range out.ComparisonMetrics {
		if r.MetricKey == core.MetricEngagementScore {
			row = r
		}
	}
	require.NotNil(t, row.Values)
	assert.Equal(t, 30.0, row.Values["c-low"])
	assert.Equal(t, 80.0, row.Values["c-high"]) // mean of 60 and 100
	assert.Equal(t, 30.0, row.Range.Min)
	assert.Equal(t, 80.0, row.Range.Max)
	assert.Equal(t, 50.0, row.Spread)
}

func TestCompare_NoCohortsHasFiniteRanges(t *testing.T) {
	out := Compare([]core.UserRecord{{Email: "a@x.com"}}, nil)
	assert.Empty(t, out.Cohorts)
	require.Len(t, out.ComparisonMetrics, 9)
	for _, row := range out.ComparisonMetrics {
		assert.Equal(t, 0.0, row.Range.Min, row.MetricName)
		assert.Equal(t, 0.0, row.Range.Max, row.MetricName)
		assert.Equal(t, 0.0, row.Spread, row.MetricName)
		assert.Empty(t, row.Values)
	}
}

func TestCompare_DisplayNames(t *testing.T) {
	out := Compare(nil, nil)
	names := make([]string, 0, len(out.ComparisonMetrics))
	for _, row := range out.ComparisonMetrics {
		names = append(names, row.MetricName)
	}
	assert.Equal(t, []string{
		"Total Lines of Code",
		"AI-Assisted Lines",
		"Commit Count",
		"AI Code Percentage",
		"Agent Sessions",
		"Agent Requests",
		"Products Used",
		"Membership Days",
		"Engagement Score",
	}, names)
}

func TestCompare_EmptyCohortsYieldZeroStats(t *testing.T) {
	cohorts := []cohort.Cohort{
		{ID: "c1", Name: "nobody", FilterCriteria: filter.Criteria{SessionsMin: "1000000"}},
	}
	out := Compare([]core.UserRecord{{Email: "a@x.com", TotalSessions: core.Float(1)}}, cohorts)
	require.Len(t, out.Cohorts, 1)
	assert.Equal(t, 0, out.Cohorts[0].Metrics.UserCount)
	for _, row := range out.ComparisonMetrics {
		assert.Equal(t, 0.0, row.Values["c1"])
	}
}

func TestCompare_ThousandUsersSixCohortsUnderASecond(t *testing.T) {
	users := make([]core.UserRecord, 1000)
	for i := range users {
		users[i] = core.UserRecord{
			Email:           fmt.Sprintf("u%d@x.com", i),
			TotalSessions:   core.Float(float64(i)),
			EngagementScore: core.Float(float64(i % 100)),
			CommitCount:     core.Float(float64(i % 40)),
		}
	}
	cohorts := make([]cohort.Cohort, cohort.MaxCompare)
	for i := range cohorts {
		cohorts[i] = cohort.Cohort{
			ID:             fmt.Sprintf("c%d", i),
			FilterCriteria: filter.Criteria{SessionsMin: fmt.Sprintf("%d", i*100)},
		}
	}
	start := time.Now()
	out := Compare(users, cohorts)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, out.Cohorts, 6)
}
