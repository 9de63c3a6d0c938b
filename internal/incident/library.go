package incident

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"infrawhisperer/pkg/logging"
)

// Library holds the searchable runbook set: the built-in runbooks plus any
// loaded from an overlay directory of YAML files.
type Library struct {
	dir string

	mu      sync.RWMutex
	overlay []Runbook
}

// NewLibrary creates a library with the given overlay directory. An empty
// dir means built-in runbooks only. The initial load happens here; Watch
// keeps the overlay current afterwards.
func NewLibrary(dir string) *Library {
	l := &Library{dir: dir}
	if dir != "" {
		if err := l.Reload(); err != nil {
			logging.Warn(subsystem, "Failed to load runbook overlay from %s: %v", dir, err)
		}
	}
	return l
}

// Reload re-reads every .yaml/.yml file in the overlay directory. A file may
// contain a single runbook or a list of them. Parse failures skip the file
// and keep the rest.
func (l *Library) Reload() error {
	if l.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read runbook dir: %w", err)
	}

	var loaded []Runbook
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		books, err := parseRunbookFile(path)
		if err != nil {
			logging.Warn(subsystem, "Skipping runbook file %s: %v", path, err)
			continue
		}
		loaded = append(loaded, books...)
	}

	l.mu.Lock()
	l.overlay = loaded
	l.mu.Unlock()

	logging.Info(subsystem, "Loaded %d overlay runbook(s) from %s", len(loaded), l.dir)
	return nil
}

func parseRunbookFile(path string) ([]Runbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var many []Runbook
	if err := yaml.Unmarshal(data, &many); err == nil && len(many) > 0 {
		return many, nil
	}

	var one Runbook
	if err := yaml.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	if one.ID == "" {
		return nil, fmt.Errorf("runbook missing id")
	}
	return []Runbook{one}, nil
}

// Watch hot-reloads the overlay directory until ctx is done. Blocks; run it
// in its own goroutine.
func (l *Library) Watch(ctx context.Context) error {
	if l.dir == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create runbook watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch runbook dir %s: %w", l.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug(subsystem, "Runbook dir changed (%s), reloading", event.Name)
			if err := l.Reload(); err != nil {
				logging.Warn(subsystem, "Runbook reload failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn(subsystem, "Runbook watcher error: %v", err)
		}
	}
}

// All returns the built-in runbooks followed by the overlay.
func (l *Library) All() []Runbook {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Runbook, 0, len(builtinRunbooks)+len(l.overlay))
	out = append(out, builtinRunbooks...)
	out = append(out, l.overlay...)
	return out
}

type scoredRunbook struct {
	score   int
	runbook Runbook
}

// Search ranks runbooks against a free-text query. Title hits weigh most,
// then tags (matched in both directions so "postgresql" finds the
// "postgres" tag), then symptoms, then any full-text hit.
func (l *Library) Search(query string) []Runbook {
	q := strings.ToLower(query)

	var matches []scoredRunbook
	for _, rb := range l.All() {
		score := 0
		if strings.Contains(strings.ToLower(rb.Title), q) {
			score += 10
		}
		for _, tag := range rb.Tags {
			if strings.Contains(tag, q) || strings.Contains(q, tag) {
				score += 5
			}
		}
		for _, symptom := range rb.Symptoms {
			if strings.Contains(strings.ToLower(symptom), q) {
				score += 3
			}
		}
		if fullText, err := json.Marshal(rb); err == nil {
			if strings.Contains(strings.ToLower(string(fullText)), q) {
				score++
			}
		}

		if score > 0 {
			matches = append(matches, scoredRunbook{score: score, runbook: rb})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]Runbook, len(matches))
	for i, m := range matches {
		out[i] = m.runbook
	}
	return out
}
