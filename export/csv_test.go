package export

import (
	"strings"
	"testing"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
	"github.com/klejdi94/strata/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparisonFixture() stats.MultiCohortStats {
	users := []core.UserRecord{
		{Email: "a@x.com", EngagementScore: core.Float(30), IsMcpUser: core.Bool(true)},
		{Email: "b@x.com", EngagementScore: core.Float(80), IsMcpUser: core.Bool(false)},
	}
	cohorts := []cohort.Cohort{
		{ID: "c1", Name: "Low", FilterCriteria: filter.Criteria{EngagementScoreMax: "50"}},
		{ID: "c2", Name: "High", FilterCriteria: filter.Criteria{EngagementScoreMin: "50"}},
	}
	return stats.Compare(users, cohorts)
}

func TestComparison_Layout(t *testing.T) {
	out := Comparison(comparisonFixture())
	lines := strings.Split(out, "\n")

	assert.Equal(t, `"Metric","Spread","Low","High"`, lines[0])
	// 9 metric rows follow the header.
	assert.True(t, strings.HasPrefix(lines[1], `"Total Lines of Code"`))
	assert.True(t, strings.HasPrefix(lines[9], `"Engagement Score"`))
	assert.Equal(t, `"Engagement Score","50.00","30.00","80.00"`, lines[9])

	// Blank separator, section marker, feature header, 5 feature rows.
	assert.Equal(t, "", lines[10])
	assert.Equal(t, `"Feature Adoption"`, lines[11])
	assert.Equal(t, `"Feature","Spread","Low","High"`, lines[12])
	assert.Equal(t, `"MCP","100.0%","100.0%","0.0%"`, lines[13])
	assert.True(t, strings.HasPrefix(lines[17], `"Commands (User)"`))
}

func TestComparison_QuotesEscaped(t *testing.T) {
	s := stats.Compare(nil, []cohort.Cohort{{ID: "c1", Name: `The "A" Team`}})
	out := Comparison(s)
	assert.Contains(t, out, `"The ""A"" Team"`)
}

func TestMemberList_SchemaAndFormatting(t *testing.T) {
	users := []core.UserRecord{
		{
			Email:              "ada@x.com",
			FirstName:          "Ada",
			LastName:           "Lovelace",
			LinkedinURL:        "https://linkedin.com/in/ada",
			AILinesChanged:     core.Float(120),
			TotalLinesChanged:  core.Float(400),
			PctAICode:          core.Float(30),
			CommitCount:        core.Float(12),
			TotalSessions:      core.Float(99),
			TotalAgentRequests: core.Float(250),
			IsMcpUser:          core.Bool(true),
			IsPowerUser:        core.Bool(true),
			NumProductsUsed:    core.Float(3),
			MembershipDays:     core.Float(180),
			EngagementScore:    core.Float(77.5),
		},
		{Email: "sparse@x.com"},
		{Email: "filtered@x.com", TotalSessions: core.Float(1000)},
	}
	c := cohort.Cohort{ID: "c1", Name: "test", FilterCriteria: filter.Criteria{SessionsMax: "500"}}

	out := MemberList(c, users)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3) // header + 2 members; filtered@x.com exceeds the bound

	assert.Equal(t, strings.Count(lines[0], ","), 18) // 19 columns
	assert.True(t, strings.HasPrefix(lines[0], `"Email","First Name"`))
	assert.True(t, strings.HasSuffix(lines[0], `"Power User"`))

	assert.Equal(t,
		`"ada@x.com","Ada","Lovelace","https://linkedin.com/in/ada","120","400","30.0%","12","99","250","Yes","No","No","No","No","3","180","77.5","Yes"`,
		lines[1])
	// Sparse record: empty numerics, No flags, Unmarked power user.
	assert.Equal(t,
		`"sparse@x.com","","","","","","","","","","No","No","No","No","No","","","","Unmarked"`,
		lines[2])
}

func TestMemberList_ReappliesFilterToCurrentData(t *testing.T) {
	c := cohort.Cohort{
		ID:             "c1",
		Name:           "mcp",
		UserCount:      intPtr(99), // stale cached count is ignored
		FilterCriteria: filter.Criteria{IsMcpUser: core.Bool(true)},
	}
	users := []core.UserRecord{{Email: "only@x.com", IsMcpUser: core.Bool(true)}}
	out := MemberList(c, users)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, `"only@x.com"`)
}

func intPtr(v int) *int { return &v }
