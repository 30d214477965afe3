// file: internal/models/entity.go
// version: 1.0.0
// guid: 4a8c2e6f-9b1d-43a7-8e50-2f6d9a3c7b15

package models

import "time"

// Entity represents one controllable thing in the home-automation registry:
// a light, a sensor, a switch, an add-on. Entities are matched by their ID,
// friendly name, and declared aliases.
type Entity struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Domain      string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Area        string   `json:"area,omitempty" yaml:"area,omitempty"`
	DeviceClass string   `json:"device_class,omitempty" yaml:"device_class,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// ScorableStrings returns the alias list an entity is filtered by, in
// display order: ID first, then friendly name, then declared aliases.
func (e *Entity) ScorableStrings() []string {
	strings := make([]string, 0, len(e.Aliases)+2)
	strings = append(strings, e.ID)
	if e.Name != "" {
		strings = append(strings, e.Name)
	}
	return append(strings, e.Aliases...)
}

// SearchResult is one ranked entity returned by a search pass.
type SearchResult struct {
	Entity    Entity     `json:"entity"`
	Score     int        `json:"score"`
	Decorated [][]string `json:"decorated,omitempty"`
}

// SearchRequest represents the query parameters of a search call.
type SearchRequest struct {
	Query    string `json:"query" form:"q"`
	Limit    int    `json:"limit" form:"limit"`
	Decorate bool   `json:"decorate" form:"decorate"`
}

// SearchResponse is the payload of a completed search.
type SearchResponse struct {
	Query       string         `json:"query"`
	Results     []SearchResult `json:"results"`
	Total       int            `json:"total"`
	TookMicros  int64          `json:"took_micros"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

// EntityListRequest represents pagination and filtering for the entity list.
type EntityListRequest struct {
	Limit  int    `json:"limit" form:"limit"`
	Offset int    `json:"offset" form:"offset"`
	Domain string `json:"domain" form:"domain"`
}

// HistoryEntry records one executed search.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Results    int       `json:"results"`
	TookMicros int64     `json:"took_micros"`
	When       time.Time `json:"when"`
}

// SystemStatus represents current system status.
type SystemStatus struct {
	Version       string    `json:"version"`
	Uptime        string    `json:"uptime"`
	RegistryPath  string    `json:"registry_path"`
	TotalEntities int       `json:"total_entities"`
	Domains       int       `json:"domains"`
	LastReload    time.Time `json:"last_reload"`
	SSEClients    int       `json:"sse_clients"`
}
