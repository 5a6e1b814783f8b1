// Package api HTTP API for cohort management, comparison, and export.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klejdi94/strata/cohort"
	"github.com/klejdi94/strata/core"
	"github.com/klejdi94/strata/export"
	"github.com/klejdi94/strata/filter"
	"github.com/klejdi94/strata/ingest"
	"github.com/klejdi94/strata/stats"
)

// Server exposes the cohort store and the loaded user records over HTTP.
type Server struct {
	Store *cohort.Store
	Addr  string

	mu    sync.RWMutex
	users []core.UserRecord
}

// NewServer creates a server over the given store, pre-loaded with users.
func NewServer(store *cohort.Store, users []core.UserRecord, addr string) *Server {
	if addr == "" {
		addr = ":8080"
	}
	return &Server{Store: store, Addr: addr, users: users}
}

// createRequest is the JSON body for POST /cohorts.
type createRequest struct {
	Name           string          `json:"name"`
	FilterCriteria filter.Criteria `json:"filterCriteria"`
}

// updateRequest is the JSON body for PUT /cohorts/{id}.
type updateRequest struct {
	Name           *string          `json:"name,omitempty"`
	Color          *string          `json:"color,omitempty"`
	FilterCriteria *filter.Criteria `json:"filterCriteria,omitempty"`
}

// cohortsResponse is the JSON response for GET /cohorts.
type cohortsResponse struct {
	Cohorts []cohort.Cohort `json:"cohorts"`
}

// membersResponse is the JSON response for GET /cohorts/{id}/members.
type membersResponse struct {
	Cohort  cohort.Cohort     `json:"cohort"`
	Members []core.UserRecord `json:"members"`
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cohorts", s.handleList)
	mux.HandleFunc("POST /cohorts", s.handleCreate)
	mux.HandleFunc("PUT /cohorts/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /cohorts/{id}", s.handleDelete)
	mux.HandleFunc("GET /cohorts/{id}/members", s.handleMembers)
	mux.HandleFunc("GET /cohorts/{id}/members.csv", s.handleMembersCSV)
	mux.HandleFunc("GET /compare", s.handleCompare)
	mux.HandleFunc("GET /compare.csv", s.handleCompareCSV)
	mux.HandleFunc("GET /cohorts/export", s.handleExport)
	mux.HandleFunc("POST /cohorts/import", s.handleImport)
	mux.HandleFunc("POST /users", s.handleUpload)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe starts the HTTP server. Use go s.ListenAndServe() to run in background.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.Addr, s.Handler())
}

func (s *Server) allUsers() []core.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.Store.LoadAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	users := s.allUsers()
	for i := range cohorts {
		n := len(cohort.MembersFor(users, cohorts[i]))
		cohorts[i].UserCount = &n
	}
	writeJSON(w, cohortsResponse{Cohorts: cohorts})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	c, err := s.Store.Create(r.Context(), req.Name, req.FilterCriteria)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.Store.Save(r.Context(), c); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	patch := cohort.Patch{Name: req.Name, Color: req.Color, FilterCriteria: req.FilterCriteria}
	if err := s.Store.Update(r.Context(), id, patch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c, err := s.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrCohortNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	members := cohort.MembersFor(s.allUsers(), c)
	writeJSON(w, membersResponse{Cohort: c, Members: members})
}

func (s *Server) handleMembersCSV(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	csv := export.MemberList(c, s.allUsers())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.Name+"-members.csv"))
	_, _ = w.Write([]byte(csv))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	cohorts, ok := s.selected(w, r)
	if !ok {
		return
	}
	writeJSON(w, stats.Compare(s.allUsers(), cohorts))
}

func (s *Server) handleCompareCSV(w http.ResponseWriter, r *http.Request) {
	cohorts, ok := s.selected(w, r)
	if !ok {
		return
	}
	csv := export.Comparison(stats.Compare(s.allUsers(), cohorts))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cohort-comparison.csv"`)
	_, _ = w.Write([]byte(csv))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.Store.LoadAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := export.Definitions(cohorts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="cohorts.json"`)
	_, _ = w.Write(data)
}

// importResponse is the JSON response for POST /cohorts/import.
type importResponse struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := export.ImportDefinitions(data)
	for _, c := range res.Cohorts {
		if err := s.Store.Save(r.Context(), c); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, importResponse{Imported: len(res.Cohorts), Errors: res.Errors})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	source, ok := parseSource(r.URL.Query().Get("source"))
	if !ok {
		http.Error(w, "source must be aiCode, features, or agents", http.StatusBadRequest)
		return
	}
	users, err := ingest.ReadUsers(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.users = ingest.Extend(s.users, ingest.Dataset{Source: source, Users: users})
	total := len(s.users)
	s.mu.Unlock()

	writeJSON(w, map[string]int{"loaded": len(users), "total": total})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// lookup resolves the {id} path value to a cohort, writing the error response
// on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (cohort.Cohort, bool) {
	c, err := s.Store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, core.ErrCohortNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return cohort.Cohort{}, false
	}
	return c, true
}

// selected resolves the ids query parameter (comma separated) to cohorts,
// enforcing the comparison cap.
func (s *Server) selected(w http.ResponseWriter, r *http.Request) ([]cohort.Cohort, bool) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		http.Error(w, "ids required", http.StatusBadRequest)
		return nil, false
	}
	ids := strings.Split(raw, ",")
	if len(ids) > cohort.MaxCompare {
		http.Error(w, fmt.Sprintf("at most %d cohorts can be compared", cohort.MaxCompare), http.StatusBadRequest)
		return nil, false
	}
	cohorts := make([]cohort.Cohort, 0, len(ids))
	for _, id := range ids {
		c, err := s.Store.GetByID(r.Context(), strings.TrimSpace(id))
		if err != nil {
			if errors.Is(err, core.ErrCohortNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return nil, false
		}
		cohorts = append(cohorts, c)
	}
	return cohorts, true
}

func parseSource(s string) (ingest.Source, bool) {
	switch s {
	case "aiCode":
		return ingest.SourceAICode, true
	case "features":
		return ingest.SourceFeatures, true
	case "agents":
		return ingest.SourceAgents, true
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
