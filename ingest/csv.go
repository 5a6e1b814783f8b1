// Package ingest loads user records from CSV exports and merges the
// independently uploaded source datasets by email.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klejdi94/strata/core"
)

// ReadUsers parses a user-record CSV with camelCase column headers (email,
// firstName, totalSessions, isMcpUser, ...). Blank cells stay absent rather
// than becoming zero or false; rows without an email are skipped. Column
// order is free; unknown columns are ignored.
func ReadUsers(r io.Reader) ([]core.UserRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["email"]; !ok {
		return nil, fmt.Errorf("ingest: missing email column")
	}

	var users []core.UserRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read row: %w", err)
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		email := cell("email")
		if email == "" {
			continue
		}
		users = append(users, core.UserRecord{
			Email:              email,
			FirstName:          cell("firstname"),
			LastName:           cell("lastname"),
			LinkedinURL:        cell("linkedinurl"),
			TotalLinesChanged:  parseNumber(cell("totallineschanged")),
			AILinesChanged:     parseNumber(cell("ailineschanged")),
			PctAICode:          parseNumber(cell("pctaicode")),
			CommitCount:        parseNumber(cell("commitcount")),
			TotalSessions:      parseNumber(cell("totalsessions")),
			TotalAgentRequests: parseNumber(cell("totalagentrequests")),
			NumProductsUsed:    parseNumber(cell("numproductsused")),
			MembershipDays:     parseNumber(cell("membershipdays")),
			EngagementScore:    parseNumber(cell("engagementscore")),
			IsMcpUser:          parseFlag(cell("ismcpuser")),
			IsRuleCreator:      parseFlag(cell("isrulecreator")),
			IsRuleUser:         parseFlag(cell("isruleuser")),
			IsCommandCreator:   parseFlag(cell("iscommandcreator")),
			IsCommandUser:      parseFlag(cell("iscommanduser")),
			IsPowerUser:        parseFlag(cell("ispoweruser")),
		})
	}
	return users, nil
}

func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFlag(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return core.Bool(true)
	case "false", "no", "0":
		return core.Bool(false)
	}
	return nil
}
