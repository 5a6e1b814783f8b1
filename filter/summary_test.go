package filter

import (
	"testing"

	"github.com/klejdi94/strata/core"
	"github.com/stretchr/testify/assert"
)

func TestSummary_Empty(t *testing.T) {
	assert.Empty(t, Summary(Criteria{}))
}

func TestSummary_ActivePredicates(t *testing.T) {
	lines := Summary(Criteria{
		SearchText:  "ada",
		IsMcpUser:   core.Bool(true),
		IsRuleUser:  core.Bool(false),
		SessionsMin: "10",
		AILinesMin:  "100",
		AILinesMax:  "500",
	})
	assert.Equal(t, []string{
		`Search: "ada"`,
		"MCP User: Yes",
		"Rule User: No",
		"AI Lines: 100 - 500",
		"Sessions: >= 10",
	}, lines)
}

func TestSummary_PowerUserFilter(t *testing.T) {
	lines := Summary(Criteria{IsPowerUserFilter: []string{"true", "unmarked"}})
	assert.Equal(t, []string{"Power User: Yes, Unmarked"}, lines)

	// Empty and full sets both constrain nothing and are not reported.
	assert.Empty(t, Summary(Criteria{IsPowerUserFilter: nil}))
	assert.Empty(t, Summary(Criteria{IsPowerUserFilter: []string{"true", "false", "unmarked"}}))
}

func TestSummary_EngagementRange(t *testing.T) {
	lines := Summary(Criteria{EngagementScoreMax: "80"})
	assert.Equal(t, []string{"Engagement Score: <= 80"}, lines)
}
