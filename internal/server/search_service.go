// file: internal/server/search_service.go
// version: 1.1.0
// guid: d9b5f3a7-2e0c-48d1-b6a4-8f2c5e9d0b37

package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sfalken/quickbar/internal/config"
	"github.com/sfalken/quickbar/internal/fuzzy"
	"github.com/sfalken/quickbar/internal/metrics"
	"github.com/sfalken/quickbar/internal/models"
	"github.com/sfalken/quickbar/internal/suggest"
)

// search runs a fuzzy filter-rank pass over the registry.
func (s *Server) search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondWithBadRequest(c, "invalid search parameters")
		return
	}
	if req.Limit <= 0 {
		req.Limit = config.AppConfig.DefaultLimit
	}

	var dec fuzzy.Decorator
	if req.Decorate {
		dec = fuzzy.MakeDecorator(config.AppConfig.Markers.Left, config.AppConfig.Markers.Right)
	}

	start := time.Now()
	results := s.registry.Search(req.Query, req.Limit, dec)
	took := time.Since(start)
	metrics.ObserveSearchDuration(took)

	resp := models.SearchResponse{
		Query:      req.Query,
		Results:    results,
		Total:      len(results),
		TookMicros: took.Microseconds(),
	}

	outcome := metrics.OutcomeMatched
	if len(results) == 0 {
		outcome = metrics.OutcomeEmpty
		if names := suggest.Names(req.Query, s.registry.Names(), suggest.DefaultMax); len(names) > 0 {
			resp.Suggestions = names
			outcome = metrics.OutcomeSuggested
		}
	}
	metrics.IncSearch(outcome)

	s.hub.SendSearchExecuted(req.Query, len(results), took)
	if s.history != nil {
		if _, err := s.history.Record(req.Query, len(results), took); err != nil {
			log.Printf("[WARN] Failed to record search history: %v", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// listEntities returns a page of registry entities.
func (s *Server) listEntities(c *gin.Context) {
	var req models.EntityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondWithBadRequest(c, "invalid list parameters")
		return
	}
	if req.Limit <= 0 {
		req.Limit = config.AppConfig.DefaultLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	entities, total := s.registry.List(req.Domain, req.Limit, req.Offset)
	c.JSON(http.StatusOK, ListResponse{
		Items:  entities,
		Count:  len(entities),
		Limit:  req.Limit,
		Offset: req.Offset,
		Total:  total,
	})
}

// getEntity returns a single entity by id.
func (s *Server) getEntity(c *gin.Context) {
	id := c.Param("id")
	entity, ok := s.registry.ByID(id)
	if !ok {
		RespondWithNotFound(c, "entity", id)
		return
	}
	c.JSON(http.StatusOK, ItemResponse{Data: entity})
}

// listDomains returns the distinct entity domains.
func (s *Server) listDomains(c *gin.Context) {
	domains := s.registry.Domains()
	c.JSON(http.StatusOK, ListResponse{Items: domains, Count: len(domains)})
}

// listHistory returns recent searches, newest first.
func (s *Server) listHistory(c *gin.Context) {
	if s.history == nil {
		RespondWithError(c, http.StatusServiceUnavailable, "search history is disabled", "HISTORY_DISABLED")
		return
	}
	limit := 50
	if v, ok := c.GetQuery("limit"); ok {
		if parsed, err := parsePositiveInt(v); err == nil {
			limit = parsed
		}
	}
	entries, err := s.history.Recent(limit)
	if err != nil {
		RespondWithInternalError(c, "failed to read search history")
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: entries, Count: len(entries), Limit: limit})
}

// reloadRegistry re-reads the registry file on demand.
func (s *Server) reloadRegistry(c *gin.Context) {
	count, err := s.registry.Reload()
	if err != nil {
		RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), "RELOAD_FAILED")
		return
	}
	metrics.IncRegistryReload()
	metrics.SetEntities(count)
	s.hub.SendRegistryUpdated(count, s.registry.Path())
	c.JSON(http.StatusOK, MessageResponse{Message: "registry reloaded", Code: "RELOADED"})
}

// systemStatus reports service health details.
func (s *Server) systemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ItemResponse{Data: models.SystemStatus{
		Version:       Version,
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		RegistryPath:  s.registry.Path(),
		TotalEntities: s.registry.Count(),
		Domains:       len(s.registry.Domains()),
		LastReload:    s.registry.LastReload(),
		SSEClients:    s.hub.GetClientCount(),
	}})
}

// healthCheck reports liveness.
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  Version,
		"entities": s.registry.Count(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}
