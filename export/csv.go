// Package export renders cohort comparisons and member lists as CSV and
// serializes cohort definitions to a JSON interchange format.
package export

import (
	"strconv"
	"strings"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/stats"
)

// Comparison renders a multi-cohort comparison as CSV: one row per metric
// (mean per cohort plus spread), a blank separator, then a feature-adoption
// section. Every field is double-quoted with internal quotes doubled.
func Comparison(s stats.MultiCohortStats) string {
	var b strings.Builder

	header := []string{"Metric", "Spread"}
	for _, cs := range s.Cohorts {
		header = append(header, cs.Cohort.Name)
	}
	writeRow(&b, header)

	for _, row := range s.ComparisonMetrics {
		fields := []string{row.MetricName, formatNumber(row.Spread)}
		for _, cs := range s.Cohorts {
			fields = append(fields, formatNumber(row.Values[cs.Cohort.ID]))
		}
		writeRow(&b, fields)
	}

	b.WriteString("\n")
	writeRow(&b, []string{"Feature Adoption"})

	featureHeader := []string{"Feature", "Spread"}
	for _, cs := range s.Cohorts {
		featureHeader = append(featureHeader, cs.Cohort.Name)
	}
	writeRow(&b, featureHeader)

	for _, key := range core.FlagKeys() {
		min, max := 0.0, 0.0
		for i, cs := range s.Cohorts {
			pct := cs.Metrics.FeatureAdoption[key]
			if i == 0 {
				min, max = pct, pct
				continue
			}
			if pct < min {
				min = pct
			}
			if pct > max {
				max = pct
			}
		}
		fields := []string{key.DisplayName(), formatPercent(max - min)}
		for _, cs := range s.Cohorts {
			fields = append(fields, formatPercent(cs.Metrics.FeatureAdoption[key]))
		}
		writeRow(&b, fields)
	}

	return b.String()
}

// memberColumns is the fixed member-list export schema.
var memberColumns = []string{
	"Email",
	"First Name",
	"Last Name",
	"LinkedIn URL",
	"AI Lines Changed",
	"Total Lines Changed",
	"AI Code %",
	"Commits",
	"Total Sessions",
	"Total Agent Requests",
	"MCP User",
	"Rule Creator",
	"Rule User",
	"Command Creator",
	"Command User",
	"Products Used",
	"Membership Days",
	"Engagement Score",
	"Power User",
}

// MemberList renders the cohort's current members as CSV. The cohort's
// filter is re-applied to the given population so the export reflects
// current data, not a cached membership.
func MemberList(c cohort.Cohort, allUsers []core.UserRecord) string {
	var b strings.Builder
	writeRow(&b, memberColumns)

	for _, u := range cohort.MembersFor(allUsers, c) {
		writeRow(&b, []string{
			u.Email,
			u.FirstName,
			u.LastName,
			u.LinkedinURL,
			optionalNumber(u.AILinesChanged),
			optionalNumber(u.TotalLinesChanged),
			optionalPercent(u.PctAICode),
			optionalNumber(u.CommitCount),
			optionalNumber(u.TotalSessions),
			optionalNumber(u.TotalAgentRequests),
			yesNo(u.IsMcpUser),
			yesNo(u.IsRuleCreator),
			yesNo(u.IsRuleUser),
			yesNo(u.IsCommandCreator),
			yesNo(u.IsCommandUser),
			optionalNumber(u.NumProductsUsed),
			optionalNumber(u.MembershipDays),
			optionalNumber(u.EngagementScore),
			powerUserLabel(u.PowerUser()),
		})
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func optionalNumber(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func optionalPercent(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 1, 64) + "%"
}

func yesNo(p *bool) string {
	if p != nil && *p {
		return "Yes"
	}
	return "No"
}

func powerUserLabel(s core.PowerUserState) string {
	switch s {
	case core.PowerUserTrue:
		return "Yes"
	case core.PowerUserFalse:
		return "No"
	}
	return "Unmarked"
}
