// Package strata provides a Go library for segmenting engineering-analytics
// user records into cohorts and comparing their metrics.
//
// Quick start:
//
//	store := cohort.NewStore(cohort.NewMemoryKV())
//	crit := strata.NewCriteria().
//		MCPUser(true).
//		SessionsBetween("100", "").
//		PowerUser("true").
//		Build()
//	c, _ := store.Create(ctx, "Heavy MCP users", crit)
//	_ = store.Save(ctx, c)
//
//	result := stats.Compare(users, []cohort.Cohort{c})
//	fmt.Print(export.Comparison(result))
package strata

import (
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
)

// CriteriaBuilder constructs filter criteria via a fluent API.
type CriteriaBuilder struct {
	c filter.Criteria
}

// NewCriteria starts an empty criteria builder. An empty criteria matches
// every user.
func NewCriteria() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// Search sets the case-insensitive name/email substring filter.
func (b *CriteriaBuilder) Search(text string) *CriteriaBuilder {
	b.c.SearchText = text
	return b
}

// MCPUser requires the MCP-user flag to match.
func (b *CriteriaBuilder) MCPUser(v bool) *CriteriaBuilder {
	b.c.IsMcpUser = core.Bool(v)
	return b
}

// RuleCreator requires the rule-creator flag to match.
func (b *CriteriaBuilder) RuleCreator(v bool) *CriteriaBuilder {
	b.c.IsRuleCreator = core.Bool(v)
	return b
}

// RuleUser requires the rule-user flag to match.
func (b *CriteriaBuilder) RuleUser(v bool) *CriteriaBuilder {
	b.c.IsRuleUser = core.Bool(v)
	return b
}

// CommandCreator requires the command-creator flag to match.
func (b *CriteriaBuilder) CommandCreator(v bool) *CriteriaBuilder {
	b.c.IsCommandCreator = core.Bool(v)
	return b
}

// CommandUser requires the command-user flag to match.
func (b *CriteriaBuilder) CommandUser(v bool) *CriteriaBuilder {
	b.c.IsCommandUser = core.Bool(v)
	return b
}

// PowerUser adds accepted power-user states. Valid tokens are "true",
// "false", and "unmarked"; passing none leaves the filter inactive.
func (b *CriteriaBuilder) PowerUser(states ...string) *CriteriaBuilder {
	b.c.IsPowerUserFilter = append(b.c.IsPowerUserFilter, states...)
	return b
}

// AILinesBetween bounds the AI-assisted line count. Empty strings leave a
// side unbounded.
func (b *CriteriaBuilder) AILinesBetween(min, max string) *CriteriaBuilder {
	b.c.AILinesMin, b.c.AILinesMax = min, max
	return b
}

// SessionsBetween bounds the agent session count.
func (b *CriteriaBuilder) SessionsBetween(min, max string) *CriteriaBuilder {
	b.c.SessionsMin, b.c.SessionsMax = min, max
	return b
}

// RequestsBetween bounds the agent request count.
func (b *CriteriaBuilder) RequestsBetween(min, max string) *CriteriaBuilder {
	b.c.RequestsMin, b.c.RequestsMax = min, max
	return b
}

// EngagementBetween bounds the engagement score. Users without a score never
// match a bounded side.
func (b *CriteriaBuilder) EngagementBetween(min, max string) *CriteriaBuilder {
	b.c.EngagementScoreMin, b.c.EngagementScoreMax = min, max
	return b
}

// Build returns the assembled criteria.
func (b *CriteriaBuilder) Build() filter.Criteria {
	c := b.c
	c.IsPowerUserFilter = append([]string(nil), b.c.IsPowerUserFilter...)
	return c
}

// Re-export core types for convenience.
type (
	// UserRecord is one analytics row merged across the source datasets.
	UserRecord = core.UserRecord
	// MetricKey names a numeric metric on a user record.
	MetricKey = core.MetricKey
	// FlagKey names a boolean feature flag on a user record.
	FlagKey = core.FlagKey
	// Criteria is a cohort's filter definition.
	Criteria = filter.Criteria
)

// Optional-field constructors (re-export from core).
var (
	Float = core.Float
	Bool  = core.Bool
)
