package filter

import "fmt"

var flagSummaryLabels = []struct {
	label string
	get   func(Criteria) *bool
}{
	{"MCP User", func(c Criteria) *bool { return c.IsMcpUser }},
	{"Rule Creator", func(c Criteria) *bool { return c.IsRuleCreator }},
	{"Rule User", func(c Criteria) *bool { return c.IsRuleUser }},
	{"Command Creator", func(c Criteria) *bool { return c.IsCommandCreator }},
	{"Command User", func(c Criteria) *bool { return c.IsCommandUser }},
}

var rangeSummaryLabels = []struct {
	label    string
	min, max func(Criteria) string
}{
	{"AI Lines", func(c Criteria) string { return c.AILinesMin }, func(c Criteria) string { return c.AILinesMax }},
	{"Sessions", func(c Criteria) string { return c.SessionsMin }, func(c Criteria) string { return c.SessionsMax }},
	{"Requests", func(c Criteria) string { return c.RequestsMin }, func(c Criteria) string { return c.RequestsMax }},
	{"Engagement Score", func(c Criteria) string { return c.EngagementScoreMin }, func(c Criteria) string { return c.EngagementScoreMax }},
}

// Summary returns one human-readable line per active predicate, for display
// alongside a cohort. A power-user filter holding all three tokens constrains
// nothing and is not reported, same as an empty one.
func Summary(c Criteria) []string {
	var lines []string

	if c.SearchText != "" {
		lines = append(lines, fmt.Sprintf("Search: %q", c.SearchText))
	}

	for _, f := range flagSummaryLabels {
		if v := f.get(c); v != nil {
			lines = append(lines, f.label+": "+yesNo(*v))
		}
	}

	if n := len(c.IsPowerUserFilter); n > 0 && n < 3 {
		line := "Power User: "
		for i, token := range c.IsPowerUserFilter {
			if i > 0 {
				line += ", "
			}
			line += powerLabel(token)
		}
		lines = append(lines, line)
	}

	for _, r := range rangeSummaryLabels {
		min, max := r.min(c), r.max(c)
		switch {
		case min != "" && max != "":
			lines = append(lines, fmt.Sprintf("%s: %s - %s", r.label, min, max))
		case min != "":
			lines = append(lines, fmt.Sprintf("%s: >= %s", r.label, min))
		case max != "":
			lines = append(lines, fmt.Sprintf("%s: <= %s", r.label, max))
		}
	}

	return lines
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func powerLabel(token string) string {
	switch token {
	case "true":
		return "Yes"
	case "false":
		return "No"
	case "unmarked":
		return "Unmarked"
	}
	return token
}
