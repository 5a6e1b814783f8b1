package stats

import (
	"testing"
	"time"

	"github.com/klejdi94/strata/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EmptyInput(t *testing.T) {
	m := Aggregate(nil)
	assert.Equal(t, 0, m.UserCount)
	require.Len(t, m.Metrics, 9)
	for _, key := range core.MetricKeys() {
		assert.Equal(t, MetricStats{}, m.Metrics[key], string(key))
	}
	require.Len(t, m.FeatureAdoption, 5)
	for _, key := range core.FlagKeys() {
		assert.Zero(t, m.FeatureAdoption[key], string(key))
	}
}

func TestAggregate_PercentileTruncation(t *testing.T) {
	users := make([]core.UserRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		users = append(users, core.UserRecord{CommitCount: core.Float(float64(i * 10))})
	}
	m := Aggregate(users)
	cc := m.Metrics[core.MetricCommitCount]
	// floor(10*0.9) = 9, the last sorted element.
	assert.Equal(t, 100.0, cc.P90)
	assert.Equal(t, 60.0, cc.Median) // floor(10*0.5) = 5 -> value 60
	assert.Equal(t, 80.0, cc.P75)    // floor(10*0.75) = 7 -> value 80
	assert.Equal(t, 10.0, cc.Min)
	assert.Equal(t, 100.0, cc.Max)
	assert.Equal(t, 550.0, cc.Total)
	assert.Equal(t, 55.0, cc.Mean)

	four := []core.UserRecord{
		{AILinesChanged: core.Float(100)},
		{AILinesChanged: core.Float(200)},
		{AILinesChanged: core.Float(300)},
		{AILinesChanged: core.Float(400)},
	}
	ai := Aggregate(four).Metrics[core.MetricAILinesChanged]
	// floor(4*0.75) = 3, the last element.
	assert.Equal(t, 400.0, ai.P75)
	assert.Equal(t, 300.0, ai.Median)
}

func TestAggregate_MissingValuesExcluded(t *testing.T) {
	users := []core.UserRecord{
		{TotalSessions: core.Float(100)},
		{},
		{TotalSessions: core.Float(200)},
	}
	m := Aggregate(users)
	ts := m.Metrics[core.MetricTotalSessions]
	assert.Equal(t, 150.0, ts.Mean)
	assert.Equal(t, 100.0, ts.Min)
	assert.Equal(t, 200.0, ts.Max)
	assert.Equal(t, 300.0, ts.Total)
	// The cohort size is still 3 even though the sample had 2 values.
	assert.Equal(t, 3, m.UserCount)
}

func TestAggregate_FeatureAdoption(t *testing.T) {
	users := []core.UserRecord{
		{IsMcpUser: core.Bool(true)},
		{IsMcpUser: core.Bool(false)},
		{}, // unknown counts as not adopted
		{IsMcpUser: core.Bool(true)},
	}
	m := Aggregate(users)
	assert.Equal(t, 50.0, m.FeatureAdoption[core.FlagMcpUser])
	assert.Equal(t, 0.0, m.FeatureAdoption[core.FlagRuleUser])
}

func TestAggregate_PerMetricSamplesAreIndependent(t *testing.T) {
	users := []core.UserRecord{
		{CommitCount: core.Float(10)},
		{TotalSessions: core.Float(50)},
	}
	m := Aggregate(users)
	assert.Equal(t, 10.0, m.Metrics[core.MetricCommitCount].Mean)
	assert.Equal(t, 50.0, m.Metrics[core.MetricTotalSessions].Mean)
	assert.Equal(t, MetricStats{}, m.Metrics[core.MetricEngagementScore])
}

func TestAggregate_ThousandUsersUnder100ms(t *testing.T) {
	users := make([]core.UserRecord, 1000)
	for i := range users {
		users[i] = core.UserRecord{
			TotalLinesChanged:  core.Float(float64(i * 7)),
			AILinesChanged:     core.Float(float64(i * 3)),
			CommitCount:        core.Float(float64(i % 50)),
			PctAICode:          core.Float(float64(i % 100)),
			TotalSessions:      core.Float(float64(i)),
			TotalAgentRequests: core.Float(float64(i * 2)),
			NumProductsUsed:    core.Float(float64(i % 5)),
			MembershipDays:     core.Float(float64(i % 365)),
			EngagementScore:    core.Float(float64(i % 100)),
			IsMcpUser:          core.Bool(i%2 == 0),
		}
	}
	start := time.Now()
	m := Aggregate(users)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 1000, m.UserCount)
}
