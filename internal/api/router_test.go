package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/api/handlers"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/search"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/service"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type unhealthy struct{}

func (unhealthy) HealthCheck() error { return assert.AnError }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	log := logger.NewNop()

	idx := search.NewBleveIndex(log)
	require.NoError(t, idx.OpenInMemory())
	t.Cleanup(func() { idx.Close() })

	svc := service.NewSearchService(idx, log)
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 1000, Burst: 10},
	}
	router := NewRouter(
		handlers.NewSearchHandler(svc, log),
		handlers.NewArticleHandler(svc, log),
		handlers.NewHealthHandler(idx, map[string]handlers.HealthChecker{"storage": unhealthy{}}, log),
		cfg,
		log,
	)
	return router.Setup()
}

func do(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func seed(t *testing.T, engine *gin.Engine) {
	t.Helper()
	articles := []domain.Article{
		{ID: "1", Title: "AI regulation passes", Content: "New AI rules", Source: "BBC", Category: "technology", Language: "en", RelevanceScore: 80},
		{ID: "2", Title: "AI in medicine", Content: "Hospitals adopt AI", Source: "Reuters", Category: "health", Language: "en", RelevanceScore: 30},
		{ID: "3", Title: "Local elections", Content: "Turnout was high", Source: "BBC", Category: "politics", Language: "en", RelevanceScore: 50},
	}
	w := do(t, engine, http.MethodPost, "/api/v1/articles", articles)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestSearchEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query":   "ai",
		"filters": map[string]interface{}{"sources": []string{"BBC"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decode[domain.SearchResponse](t, w)
	assert.True(t, env.Success)
	require.Len(t, env.Data.Results, 1)
	assert.Equal(t, "1", env.Data.Results[0].ID)
	assert.Equal(t, 1, env.Data.TotalResults)
	assert.False(t, env.Data.HasMore)
}

func TestSearchEndpoint_OmittedFiltersKeepDefaults(t *testing.T) {
	engine := newTestEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodPost, "/api/v1/search", `{"query":"ai"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[domain.SearchResponse](t, w)
	assert.Equal(t, 2, env.Data.TotalResults)
}

func TestSearchEndpoint_QueryString(t *testing.T) {
	engine := newTestEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodGet, "/api/v1/search?q=ai&min_score=50&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[domain.SearchResponse](t, w)
	require.Len(t, env.Data.Results, 1)
	assert.Equal(t, "1", env.Data.Results[0].ID)

	w = do(t, engine, http.MethodGet, "/api/v1/search?q=ai&page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/search?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_MalformedBody(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodPost, "/api/v1/search", `{"query":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode[json.RawMessage](t, w)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestSuggestionsEndpoint(t *testing.T) {
	engine := newTestEngine(t)
	seed(t, engine)

	w := do(t, engine, http.MethodGet, "/api/v1/suggestions?q=bb&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[[]domain.SuggestionItem](t, w)
	require.NotEmpty(t, env.Data)
	assert.Equal(t, "BBC", env.Data[0].Text)
	assert.Equal(t, domain.SuggestionSource, env.Data[0].Type)
	assert.Equal(t, 2, env.Data[0].Count)
}

func TestArticlesEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodPost, "/api/v1/articles", domain.Article{ID: "x", Source: "BBC"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing title")

	w = do(t, engine, http.MethodPost, "/api/v1/articles", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/articles", domain.Article{ID: "x", Title: "One", Source: "BBC"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/search/stats", nil)
	env := decode[map[string]float64](t, w)
	assert.Equal(t, float64(1), env.Data["total_documents"])

	w = do(t, engine, http.MethodDelete, "/api/v1/articles/x", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/search/stats", nil)
	env = decode[map[string]float64](t, w)
	assert.Equal(t, float64(0), env.Data["total_documents"])
}

func TestHealthEndpoints(t *testing.T) {
	engine := newTestEngine(t)

	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/health/live", nil).Code)

	w := do(t, engine, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, w.Code, "optional checks do not affect readiness")

	var body struct {
		Status   string                            `json:"status"`
		Checks   map[string]map[string]interface{} `json:"checks"`
		Warnings []string                          `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, true, body.Checks["search"]["healthy"])
	assert.Equal(t, false, body.Checks["storage"]["healthy"])
	assert.Len(t, body.Warnings, 1)
}
