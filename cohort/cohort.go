// Package cohort provides named cohort definitions over a user population,
// durable storage backends for them, and membership resolution.
package cohort

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/klejdi94/strata/filter"
)

// MaxCompare is the largest number of cohorts compared side by side.
const MaxCompare = 6

// DefaultColor is assigned to imported cohorts that carry no color.
const DefaultColor = "#9CA3AF"

// palette is the fixed round-robin color cycle for newly created cohorts.
// The Nth cohort ever created gets palette[N % len(palette)].
var palette = []string{
	"#3B82F6",
	"#EF4444",
	"#10B981",
	"#F59E0B",
	"#8B5CF6",
	"#EC4899",
	"#06B6D4",
	"#84CC16",
}

// Palette returns a copy of the cohort color cycle.
func Palette() []string {
	return append([]string(nil), palette...)
}

// Cohort is a named, persisted filter definition used for comparative
// analytics. UserCount is an optional cached member count; membership is
// always recomputed from current data, never from this field.
type Cohort struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Color          string          `json:"color"`
	CreatedAt      time.Time       `json:"createdAt"`
	FilterCriteria filter.Criteria `json:"filterCriteria"`
	UserCount      *int            `json:"userCount,omitempty"`
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID generates a cohort id of the form cohort_<millis>_<7 random chars>.
// The millisecond prefix keeps ids sortable by creation order.
func NewID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("cohort_%d_%s", time.Now().UnixMilli(), suffix)
}
