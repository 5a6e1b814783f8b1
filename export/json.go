package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/filter"
)

// FormatVersion is the cohort definitions interchange format version.
const FormatVersion = "1.0"

// DefinitionsFile is the JSON interchange envelope for cohort definitions.
type DefinitionsFile struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Cohorts    []cohort.Cohort `json:"cohorts"`
}

// Definitions serializes the cohorts to the interchange JSON format. Cached
// member counts are stripped; only the definition travels.
func Definitions(cohorts []cohort.Cohort) ([]byte, error) {
	file := DefinitionsFile{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Cohorts:    make([]cohort.Cohort, 0, len(cohorts)),
	}
	for _, c := range cohorts {
		c.UserCount = nil
		file.Cohorts = append(file.Cohorts, c)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export definitions: %w", err)
	}
	return data, nil
}

// ImportResult holds the cohorts recovered from an import plus one error
// string per rejected entry. Valid entries import even when others fail.
type ImportResult struct {
	Cohorts []cohort.Cohort `json:"cohorts"`
	Errors  []string        `json:"errors"`
}

type importedCohort struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Color          string           `json:"color"`
	CreatedAt      *time.Time       `json:"createdAt"`
	FilterCriteria *filter.Criteria `json:"filterCriteria"`
}

// ImportDefinitions parses an interchange file. Each entry is validated
// independently: missing id, name, or filterCriteria rejects the entry with
// a descriptive error; missing color or createdAt are defaulted. A
// structurally invalid file yields zero cohorts and a single error. Never
// panics or returns a Go error; data-quality problems surface as strings.
func ImportDefinitions(data []byte) ImportResult {
	var envelope struct {
		Cohorts []json.RawMessage `json:"cohorts"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("invalid cohort file: %v", err)}}
	}
	if envelope.Cohorts == nil {
		return ImportResult{Errors: []string{"invalid cohort file: missing cohorts array"}}
	}

	var out ImportResult
	for i, raw := range envelope.Cohorts {
		var entry importedCohort
		if err := json.Unmarshal(raw, &entry); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("cohort %d: %v", i+1, err))
			continue
		}
		name := entry.Name
		if name == "" {
			name = "unnamed"
		}
		switch {
		case entry.ID == "":
			out.Errors = append(out.Errors, fmt.Sprintf("cohort %q: missing id", name))
			continue
		case entry.Name == "":
			out.Errors = append(out.Errors, fmt.Sprintf("cohort %q: missing name", name))
			continue
		case entry.FilterCriteria == nil:
			out.Errors = append(out.Errors, fmt.Sprintf("cohort %q: missing filterCriteria", name))
			continue
		}

		c := cohort.Cohort{
			ID:             entry.ID,
			Name:           entry.Name,
			Color:          entry.Color,
			FilterCriteria: *entry.FilterCriteria,
		}
		if c.Color == "" {
			c.Color = cohort.DefaultColor
		}
		if entry.CreatedAt != nil {
			c.CreatedAt = *entry.CreatedAt
		} else {
			c.CreatedAt = time.Now().UTC()
		}
		out.Cohorts = append(out.Cohorts, c)
	}
	return out
}
