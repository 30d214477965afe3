// file: internal/registry/registry.go
// version: 1.1.0
// guid: 6b2d8f40-5e9a-47c3-a1f8-0d4c7b3e9a62

// Package registry loads the entity registry from its YAML file and runs
// fuzzy searches over it.
package registry

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sfalken/quickbar/internal/fuzzy"
	"github.com/sfalken/quickbar/internal/models"
)

// registryFile is the on-disk shape of the registry YAML.
type registryFile struct {
	Entities []models.Entity `yaml:"entities"`
}

// Registry holds the entity registry in memory. All methods are safe for
// concurrent use; Search never mutates shared state (every pass builds its
// own scorable items).
type Registry struct {
	mu         sync.RWMutex
	path       string
	entities   []models.Entity
	byID       map[string]int
	lastReload time.Time
}

// Load reads and validates the registry file at path.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}
	if _, err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the registry file and swaps the entity set atomically.
// It returns the number of entities now loaded.
func (r *Registry) Reload() (int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("failed to parse registry file %s: %w", r.path, err)
	}

	entities, byID, err := validate(file.Entities)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	previous := len(r.entities)
	r.entities = entities
	r.byID = byID
	r.lastReload = time.Now()
	r.mu.Unlock()

	log.Printf("[INFO] Registry loaded from %s: %d entities (was %d)", r.path, len(entities), previous)
	return len(entities), nil
}

// validate checks entity IDs and fills derived fields. IDs must be unique
// and of the domain.object_id form.
func validate(entities []models.Entity) ([]models.Entity, map[string]int, error) {
	byID := make(map[string]int, len(entities))
	for i := range entities {
		e := &entities[i]
		if e.ID == "" {
			return nil, nil, fmt.Errorf("entity %d has an empty id", i)
		}
		domain, _, found := strings.Cut(e.ID, ".")
		if !found || domain == "" {
			return nil, nil, fmt.Errorf("entity id %q is not of the form domain.object_id", e.ID)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}
		if e.Domain == "" {
			e.Domain = domain
		}
		byID[e.ID] = i
	}
	return entities, byID, nil
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Count returns the number of loaded entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// LastReload returns the time of the last successful reload.
func (r *Registry) LastReload() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastReload
}

// ByID returns the entity with the given id.
func (r *Registry) ByID(id string) (models.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return models.Entity{}, false
	}
	return r.entities[idx], true
}

// List returns a page of entities, optionally restricted to one domain.
func (r *Registry) List(domain string, limit, offset int) ([]models.Entity, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]models.Entity, 0, len(r.entities))
	for _, e := range r.entities {
		if domain == "" || e.Domain == domain {
			filtered = append(filtered, e)
		}
	}
	total := len(filtered)
	if offset >= total {
		return []models.Entity{}, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return filtered[offset:end], total
}

// Names returns every friendly name, for suggestion fallbacks.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entities))
	for _, e := range r.entities {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}

// Domains returns the distinct entity domains, sorted.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	for _, e := range r.entities {
		seen[e.Domain] = true
	}
	domains := make([]string, 0, len(seen))
	for d := range seen {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// Search runs a fuzzy filter-rank pass over the registry and returns up to
// limit ranked results. A nil decorator skips highlighting.
func (r *Registry) Search(query string, limit int, dec fuzzy.Decorator) []models.SearchResult {
	r.mu.RLock()
	items := make([]*fuzzy.Item, len(r.entities))
	for i := range r.entities {
		e := &r.entities[i]
		items[i] = &fuzzy.Item{Strings: e.ScorableStrings(), Payload: e}
	}
	r.mu.RUnlock()

	ranked := fuzzy.FilterAndRank(query, items, dec)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]models.SearchResult, len(ranked))
	for i, item := range ranked {
		results[i] = models.SearchResult{
			Entity:    *item.Payload.(*models.Entity),
			Score:     *item.Score,
			Decorated: item.DecoratedStrings,
		}
	}
	return results
}
