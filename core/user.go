package core

import "math"

// MetricKey identifies one of the numeric usage metrics tracked per user.
type MetricKey string

const (
	MetricTotalLinesChanged  MetricKey = "totalLinesChanged"
	MetricAILinesChanged     MetricKey = "aiLinesChanged"
	MetricCommitCount        MetricKey = "commitCount"
	MetricPctAICode          MetricKey = "pctAiCode"
	MetricTotalSessions      MetricKey = "totalSessions"
	MetricTotalAgentRequests MetricKey = "totalAgentRequests"
	MetricNumProductsUsed    MetricKey = "numProductsUsed"
	MetricMembershipDays     MetricKey = "membershipDays"
	MetricEngagementScore    MetricKey = "engagementScore"
)

// MetricKeys returns all tracked metric keys in canonical report order.
func MetricKeys() []MetricKey {
	return []MetricKey{
		MetricTotalLinesChanged,
		MetricAILinesChanged,
		MetricCommitCount,
		MetricPctAICode,
		MetricTotalSessions,
		MetricTotalAgentRequests,
		MetricNumProductsUsed,
		MetricMembershipDays,
		MetricEngagementScore,
	}
}

var metricDisplayNames = map[MetricKey]string{
	MetricTotalLinesChanged:  "Total Lines of Code",
	MetricAILinesChanged:     "AI-Assisted Lines",
	MetricCommitCount:        "Commit Count",
	MetricPctAICode:          "AI Code Percentage",
	MetricTotalSessions:      "Agent Sessions",
	MetricTotalAgentRequests: "Agent Requests",
	MetricNumProductsUsed:    "Products Used",
	MetricMembershipDays:     "Membership Days",
	MetricEngagementScore:    "Engagement Score",
}

// DisplayName returns the human-readable name for the metric.
func (k MetricKey) DisplayName() string {
	if name, ok := metricDisplayNames[k]; ok {
		return name
	}
	return string(k)
}

// FlagKey identifies one of the boolean feature-adoption flags tracked per user.
type FlagKey string

const (
	FlagMcpUser        FlagKey = "isMcpUser"
	FlagRuleCreator    FlagKey = "isRuleCreator"
	FlagRuleUser       FlagKey = "isRuleUser"
	FlagCommandCreator FlagKey = "isCommandCreator"
	FlagCommandUser    FlagKey = "isCommandUser"
)

// FlagKeys returns all feature-flag keys in canonical report order.
func FlagKeys() []FlagKey {
	return []FlagKey{
		FlagMcpUser,
		FlagRuleCreator,
		FlagRuleUser,
		FlagCommandCreator,
		FlagCommandUser,
	}
}

var flagDisplayNames = map[FlagKey]string{
	FlagMcpUser:        "MCP",
	FlagRuleCreator:    "Rules (Creator)",
	FlagRuleUser:       "Rules (User)",
	FlagCommandCreator: "Commands (Creator)",
	FlagCommandUser:    "Commands (User)",
}

// DisplayName returns the human-readable name for the feature flag.
func (k FlagKey) DisplayName() string {
	if name, ok := flagDisplayNames[k]; ok {
		return name
	}
	return string(k)
}

// PowerUserState is the tri-state power-user classification: "true", "false",
// or "unmarked" when no classification has been recorded.
type PowerUserState string

const (
	PowerUserTrue     PowerUserState = "true"
	PowerUserFalse    PowerUserState = "false"
	PowerUserUnmarked PowerUserState = "unmarked"
)

// SourceFlags records which of the three source datasets contributed fields
// to a merged user record. Bookkeeping only; never filtered on.
type SourceFlags struct {
	AICode   bool `json:"aiCode"`
	Features bool `json:"features"`
	Agents   bool `json:"agents"`
}

// UserRecord is one row per unique user, merged by email from up to three
// independently uploaded source datasets. All fields except Email are
// optional: a nil pointer means the contributing dataset was not uploaded
// (unknown), which is distinct from a recorded zero or false.
type UserRecord struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`

	TotalLinesChanged  *float64 `json:"totalLinesChanged,omitempty"`
	AILinesChanged     *float64 `json:"aiLinesChanged,omitempty"`
	PctAICode          *float64 `json:"pctAiCode,omitempty"`
	CommitCount        *float64 `json:"commitCount,omitempty"`
	TotalSessions      *float64 `json:"totalSessions,omitempty"`
	TotalAgentRequests *float64 `json:"totalAgentRequests,omitempty"`
	NumProductsUsed    *float64 `json:"numProductsUsed,omitempty"`
	MembershipDays     *float64 `json:"membershipDays,omitempty"`
	EngagementScore    *float64 `json:"engagementScore,omitempty"`

	IsMcpUser        *bool `json:"isMcpUser,omitempty"`
	IsRuleCreator    *bool `json:"isRuleCreator,omitempty"`
	IsRuleUser       *bool `json:"isRuleUser,omitempty"`
	IsCommandCreator *bool `json:"isCommandCreator,omitempty"`
	IsCommandUser    *bool `json:"isCommandUser,omitempty"`

	IsPowerUser *bool `json:"isPowerUser,omitempty"`

	SourceFlags SourceFlags `json:"sourceFlags"`
}

// Metric returns the value for the given metric key. The second return is
// false when the value is absent or NaN; such values do not contribute to
// aggregate samples.
func (u *UserRecord) Metric(key MetricKey) (float64, bool) {
	var p *float64
	switch key {
	case MetricTotalLinesChanged:
		p = u.TotalLinesChanged
	case MetricAILinesChanged:
		p = u.AILinesChanged
	case MetricCommitCount:
		p = u.CommitCount
	case MetricPctAICode:
		p = u.PctAICode
	case MetricTotalSessions:
		p = u.TotalSessions
	case MetricTotalAgentRequests:
		p = u.TotalAgentRequests
	case MetricNumProductsUsed:
		p = u.NumProductsUsed
	case MetricMembershipDays:
		p = u.MembershipDays
	case MetricEngagementScore:
		p = u.EngagementScore
	}
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

// Flag returns the value for the given feature flag. The second return is
// false when the flag is unknown (never recorded), which is distinct from a
// recorded false.
func (u *UserRecord) Flag(key FlagKey) (bool, bool) {
	var p *bool
	switch key {
	case FlagMcpUser:
		p = u.IsMcpUser
	case FlagRuleCreator:
		p = u.IsRuleCreator
	case FlagRuleUser:
		p = u.IsRuleUser
	case FlagCommandCreator:
		p = u.IsCommandCreator
	case FlagCommandUser:
		p = u.IsCommandUser
	}
	if p == nil {
		return false, false
	}
	return *p, true
}

// PowerUser maps the tri-state classification to its token form
// (nil -> unmarked).
func (u *UserRecord) PowerUser() PowerUserState {
	if u.IsPowerUser == nil {
		return PowerUserUnmarked
	}
	if *u.IsPowerUser {
		return PowerUserTrue
	}
	return PowerUserFalse
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v. Convenience for building optional fields.
func Bool(v bool) *bool { return &v }
