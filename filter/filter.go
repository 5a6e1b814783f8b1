// Package filter evaluates cohort membership criteria against user records.
package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/klejdi94/strata/core"
)

// Criteria is the flat, serializable predicate set defining cohort
// membership. Every active predicate must match for a record to pass (AND
// semantics). Zero values mean "no filter": empty search text, nil booleans,
// empty bound strings, empty power-user token set.
type Criteria struct {
	// SearchText matches case-insensitively as a substring of email, first
	// name, or last name.
	SearchText string `json:"searchText"`

	// Tri-state feature-flag filters: nil = don't filter, otherwise the
	// record's flag must be known and strictly equal.
	IsMcpUser        *bool `json:"isMcpUser"`
	IsRuleCreator    *bool `json:"isRuleCreator"`
	IsRuleUser       *bool `json:"isRuleUser"`
	IsCommandCreator *bool `json:"isCommandCreator"`
	IsCommandUser    *bool `json:"isCommandUser"`

	// IsPowerUserFilter holds zero to three tokens from
	// {"true","false","unmarked"}. Empty means no filter.
	IsPowerUserFilter []string `json:"isPowerUserFilter"`

	// Numeric bounds as strings; empty means unbounded. A non-numeric string
	// parses to NaN and rejects every record (fail closed).
	AILinesMin         string `json:"aiLinesMin"`
	AILinesMax         string `json:"aiLinesMax"`
	SessionsMin        string `json:"sessionsMin"`
	SessionsMax        string `json:"sessionsMax"`
	RequestsMin        string `json:"requestsMin"`
	RequestsMax        string `json:"requestsMax"`
	EngagementScoreMin string `json:"engagementScoreMin"`
	EngagementScoreMax string `json:"engagementScoreMax"`
}

// Apply returns the records matching every active predicate in c, preserving
// input order. Pure: the input slice is never mutated.
func Apply(users []core.UserRecord, c Criteria) []core.UserRecord {
	out := make([]core.UserRecord, 0, len(users))
	for i := range users {
		if c.Matches(&users[i]) {
			out = append(out, users[i])
		}
	}
	return out
}

// Matches reports whether the record satisfies every active predicate.
func (c Criteria) Matches(u *core.UserRecord) bool {
	if c.SearchText != "" {
		needle := strings.ToLower(c.SearchText)
		if !strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.FirstName), needle) &&
			!strings.Contains(strings.ToLower(u.LastName), needle) {
			return false
		}
	}

	if !matchFlag(c.IsMcpUser, u.IsMcpUser) ||
		!matchFlag(c.IsRuleCreator, u.IsRuleCreator) ||
		!matchFlag(c.IsRuleUser, u.IsRuleUser) ||
		!matchFlag(c.IsCommandCreator, u.IsCommandCreator) ||
		!matchFlag(c.IsCommandUser, u.IsCommandUser) {
		return false
	}

	if len(c.IsPowerUserFilter) > 0 {
		state := string(u.PowerUser())
		found := false
		for _, token := range c.IsPowerUserFilter {
			if token == state {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Missing volume metrics compare as zero.
	if !inRange(orZero(u.AILinesChanged), c.AILinesMin, c.AILinesMax) ||
		!inRange(orZero(u.TotalSessions), c.SessionsMin, c.SessionsMax) ||
		!inRange(orZero(u.TotalAgentRequests), c.RequestsMin, c.RequestsMax) {
		return false
	}

	// Engagement score is different: a bounded filter excludes records with
	// no recorded score rather than coercing absence to zero.
	if c.EngagementScoreMin != "" || c.EngagementScoreMax != "" {
		if u.EngagementScore == nil {
			return false
		}
		if !inRange(*u.EngagementScore, c.EngagementScoreMin, c.EngagementScoreMax) {
			return false
		}
	}

	return true
}

func matchFlag(want, have *bool) bool {
	if want == nil {
		return true
	}
	if have == nil {
		return false
	}
	return *have == *want
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// parseBound returns the parsed bound and whether a bound is set at all.
// Non-numeric input yields NaN, whose comparisons always fail.
func parseBound(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), true
	}
	return v, true
}

func inRange(value float64, minStr, maxStr string) bool {
	if min, ok := parseBound(minStr); ok && !(value >= min) {
		return false
	}
	if max, ok := parseBound(maxStr); ok && !(value <= max) {
		return false
	}
	return true
}
