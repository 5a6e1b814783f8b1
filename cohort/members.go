package cohort

import (
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
)

// MembersFor returns the users currently matching the cohort's criteria,
// preserving input order.
func MembersFor(allUsers []core.UserRecord, c Cohort) []core.UserRecord {
	return filter.Apply(allUsers, c.FilterCriteria)
}

// MembersForAll resolves membership independently for each cohort, keyed by
// cohort id. Cohorts may overlap; members are not deduplicated across
// cohorts.
func MembersForAll(allUsers []core.UserRecord, cohorts []Cohort) map[string][]core.UserRecord {
	out := make(map[string][]core.UserRecord, len(cohorts))
	for _, c := range cohorts {
		out[c.ID] = MembersFor(allUsers, c)
	}
	return out
}
