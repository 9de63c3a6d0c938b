package incident

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const incidentsFileName = "incidents.json"

// Incident is one logged incident record. Records are append-only.
type Incident struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Severity         string   `json:"severity"`
	Description      string   `json:"description"`
	AffectedServices []string `json:"affected_services"`
	ActionsTaken     string   `json:"actions_taken"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// Store persists incidents as a single JSON file under dataDir. The file is
// rewritten whole on every append; volumes here are tiny.
type Store struct {
	mu      sync.Mutex
	dataDir string
}

// NewStore returns a store rooted at dataDir. The directory is created
// lazily on first write.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, incidentsFileName)
}

// Load reads all incidents. A missing file is an empty store.
func (s *Store) Load() ([]Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() ([]Incident, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read incidents file: %w", err)
	}

	var incidents []Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		return nil, fmt.Errorf("parse incidents file: %w", err)
	}
	return incidents, nil
}

// Append adds one incident and persists the file.
func (s *Store) Append(inc Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents, err := s.loadLocked()
	if err != nil {
		return err
	}
	incidents = append(incidents, inc)

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(incidents, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal incidents: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o644); err != nil {
		return fmt.Errorf("write incidents file: %w", err)
	}
	return nil
}

// Find returns the incident with the given ID, or nil.
func (s *Store) Find(id string) (*Incident, error) {
	incidents, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range incidents {
		if incidents[i].ID == id {
			return &incidents[i], nil
		}
	}
	return nil, nil
}

// Recent returns up to limit incidents, newest first, optionally filtered by
// status ("all" disables the filter).
func (s *Store) Recent(status string, limit int) ([]Incident, error) {
	incidents, err := s.Load()
	if err != nil {
		return nil, err
	}

	if status != "all" {
		filtered := incidents[:0:0]
		for _, inc := range incidents {
			if inc.Status == status {
				filtered = append(filtered, inc)
			}
		}
		incidents = filtered
	}

	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].CreatedAt > incidents[j].CreatedAt
	})
	if len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}

// NewIncidentID produces an ID like INC-20260214-A1B2C3: the UTC date plus
// six hex characters of a random UUID.
func NewIncidentID(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("INC-%s-%X", now.UTC().Format("20060102"), id[:3])
}
