package cohort

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/filter"
)

// StorageKey is the single key under which the whole cohort list is stored
// as a JSON array.
const StorageKey = "power-users-cohorts/v1"

// Store provides CRUD over an ordered collection of cohorts held under one
// key in a KV backend. Last write wins; there is no cross-process locking.
type Store struct {
	kv   KV
	key  string
	logf func(format string, args ...interface{})
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the storage key (default StorageKey).
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogf sets the logger used when persisted content cannot be decoded.
func WithLogf(logf func(format string, args ...interface{})) StoreOption {
	return func(s *Store) {
		s.logf = logf
	}
}

// NewStore creates a store over the given KV backend.
func NewStore(kv KV, opts ...StoreOption) *Store {
	s := &Store{kv: kv, key: StorageKey, logf: log.Printf}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create builds a new cohort: trimmed name, generated id, creation timestamp,
// and a color taken round-robin from the palette based on how many cohorts
// are currently stored. The cohort is NOT persisted; call Save explicitly.
func (s *Store) Create(ctx context.Context, name string, criteria filter.Criteria) (Cohort, error) {
	existing, err := s.LoadAll(ctx)
	if err != nil {
		return Cohort{}, err
	}
	return Cohort{
		ID:             NewID(),
		Name:           strings.TrimSpace(name),
		Color:          palette[len(existing)%len(palette)],
		CreatedAt:      time.Now().UTC(),
		FilterCriteria: criteria,
	}, nil
}

// LoadAll reads the full cohort list. A missing key yields an empty list.
// Undecodable or non-array content is logged and recovered as an empty list,
// never surfaced as an error; only backend I/O failures are returned.
func (s *Store) LoadAll(ctx context.Context) ([]Cohort, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("cohort store: read %s: %w", s.key, err)
	}
	if !ok {
		return nil, nil
	}
	var cohorts []Cohort
	if err := json.Unmarshal([]byte(raw), &cohorts); err != nil {
		s.logf("cohort store: discarding undecodable content under %s: %v", s.key, err)
		return nil, nil
	}
	return cohorts, nil
}

// Save upserts the cohort by id: an existing entry is replaced in place,
// preserving its position; otherwise the cohort is appended.
func (s *Store) Save(ctx context.Context, c Cohort) error {
	cohorts, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range cohorts {
		if cohorts[i].ID == c.ID {
			cohorts[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		cohorts = append(cohorts, c)
	}
	return s.write(ctx, cohorts)
}

// Delete removes the cohort with the given id. Absent ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	cohorts, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	kept := cohorts[:0]
	for _, c := range cohorts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cohorts) {
		return nil
	}
	return s.write(ctx, kept)
}

// Patch carries optional cohort field updates for Update. Nil fields are
// left untouched.
type Patch struct {
	Name           *string
	Color          *string
	FilterCriteria *filter.Criteria
	UserCount      *int
}

// Update shallow-merges the patch into the stored cohort with the given id.
// Absent ids are a no-op.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	cohorts, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range cohorts {
		if cohorts[i].ID != id {
			continue
		}
		if patch.Name != nil {
			cohorts[i].Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Color != nil {
			cohorts[i].Color = *patch.Color
		}
		if patch.FilterCriteria != nil {
			cohorts[i].FilterCriteria = *patch.FilterCriteria
		}
		if patch.UserCount != nil {
			cohorts[i].UserCount = patch.UserCount
		}
		return s.write(ctx, cohorts)
	}
	return nil
}

// GetByID returns the stored cohort with the given id, or
// core.ErrCohortNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (Cohort, error) {
	cohorts, err := s.LoadAll(ctx)
	if err != nil {
		return Cohort{}, err
	}
	for _, c := range cohorts {
		if c.ID == id {
			return c, nil
		}
	}
	return Cohort{}, core.ErrCohortNotFound
}

func (s *Store) write(ctx context.Context, cohorts []Cohort) error {
	if cohorts == nil {
		cohorts = []Cohort{}
	}
	data, err := json.Marshal(cohorts)
	if err != nil {
		return fmt.Errorf("cohort store: encode: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("cohort store: write %s: %w", s.key, err)
	}
	return nil
}
