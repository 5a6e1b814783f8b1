package ingest

import (
	"strings"

	"github.com/klejdi94/strata/core"
)

// Source identifies which of the three uploads a dataset came from.
type Source int

const (
	SourceAICode Source = iota
	SourceFeatures
	SourceAgents
)

// Dataset is one uploaded batch of user records tagged with its source.
type Dataset struct {
	Source Source
	Users  []core.UserRecord
}

// Merge unions the datasets by email: one record per unique email (first-seen
// order) holding every field any dataset contributed, with SourceFlags
// recording the contributing uploads. Fields set by a later dataset overwrite
// the same field from an earlier one; absent fields never erase known ones.
func Merge(datasets ...Dataset) []core.UserRecord {
	var out []core.UserRecord
	for _, ds := range datasets {
		out = Extend(out, ds)
	}
	return out
}

// Extend merges one newly uploaded dataset into already merged records. The
// existing records keep their source flags; only the new dataset's flag is
// added to the users it contributes to.
func Extend(existing []core.UserRecord, ds Dataset) []core.UserRecord {
	var order []string
	byEmail := make(map[string]*core.UserRecord, len(existing))
	for i := range existing {
		key := strings.ToLower(existing[i].Email)
		if key == "" {
			continue
		}
		rec := existing[i]
		byEmail[key] = &rec
		order = append(order, key)
	}

	for i := range ds.Users {
		src := &ds.Users[i]
		key := strings.ToLower(src.Email)
		if key == "" {
			continue
		}
		dst, ok := byEmail[key]
		if !ok {
			merged := core.UserRecord{Email: src.Email}
			byEmail[key] = &merged
			order = append(order, key)
			dst = &merged
		}
		mergeInto(dst, src)
		switch ds.Source {
		case SourceAICode:
			dst.SourceFlags.AICode = true
		case SourceFeatures:
			dst.SourceFlags.Features = true
		case SourceAgents:
			dst.SourceFlags.Agents = true
		}
	}

	out := make([]core.UserRecord, 0, len(order))
	for _, key := range order {
		out = append(out, *byEmail[key])
	}
	return out
}

func mergeInto(dst, src *core.UserRecord) {
	if src.FirstName != "" {
		dst.FirstName = src.FirstName
	}
	if src.LastName != "" {
		dst.LastName = src.LastName
	}
	if src.LinkedinURL != "" {
		dst.LinkedinURL = src.LinkedinURL
	}

	copyFloat(&dst.TotalLinesChanged, src.TotalLinesChanged)
	copyFloat(&dst.AILinesChanged, src.AILinesChanged)
	copyFloat(&dst.PctAICode, src.PctAICode)
	copyFloat(&dst.CommitCount, src.CommitCount)
	copyFloat(&dst.TotalSessions, src.TotalSessions)
	copyFloat(&dst.TotalAgentRequests, src.TotalAgentRequests)
	copyFloat(&dst.NumProductsUsed, src.NumProductsUsed)
	copyFloat(&dst.MembershipDays, src.MembershipDays)
	copyFloat(&dst.EngagementScore, src.EngagementScore)

	copyBool(&dst.IsMcpUser, src.IsMcpUser)
	copyBool(&dst.IsRuleCreator, src.IsRuleCreator)
	copyBool(&dst.IsRuleUser, src.IsRuleUser)
	copyBool(&dst.IsCommandCreator, src.IsCommandCreator)
	copyBool(&dst.IsCommandUser, src.IsCommandUser)
	copyBool(&dst.IsPowerUser, src.IsPowerUser)
}

func copyFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func copyBool(dst **bool, src *bool) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
