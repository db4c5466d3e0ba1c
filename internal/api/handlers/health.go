package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/search"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// HealthChecker is an optional dependency probed by the readiness check
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	searchIndex search.Index
	checks      map[string]HealthChecker
	logger      *logger.Logger
}

// NewHealthHandler creates a new health handler. Extra checks are reported
// but do not affect readiness.
func NewHealthHandler(searchIndex search.Index, checks map[string]HealthChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		searchIndex: searchIndex,
		checks:      checks,
		logger:      logger.WithComponent("health-handler"),
	}
}

// Health returns basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Readiness checks if the service is ready to handle requests
func (h *HealthHandler) Readiness(c *gin.Context) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]interface{}, len(h.checks)+1)
	)

	count, err := h.searchIndex.Count()
	searchHealthy := err == nil
	checks["search"] = map[string]interface{}{
		"healthy":        searchHealthy,
		"required":       true,
		"document_count": count,
	}

	var warnings []string
	for name, checker := range h.checks {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			err := checker.HealthCheck()

			mu.Lock()
			defer mu.Unlock()
			checks[name] = map[string]interface{}{
				"healthy":  err == nil,
				"required": false,
			}
			if err != nil {
				warnings = append(warnings, name+" unavailable: "+err.Error())
			}
		}(name, checker)
	}
	wg.Wait()

	status := "ready"
	code := http.StatusOK
	if !searchHealthy {
		status = "not ready"
		code = http.StatusServiceUnavailable
		h.logger.Warn("Readiness check failed", "error", err)
	}

	body := gin.H{
		"status": status,
		"checks": checks,
	}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}

	c.JSON(code, body)
}

// Liveness checks if the service is alive
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
