package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/service"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/response"
)

const defaultPageSize = 20

// SearchHandler handles search-related requests
type SearchHandler struct {
	searchService *service.SearchService
	logger        *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger.WithComponent("search-handler"),
	}
}

// Search runs a search described by a JSON body. Omitted filter fields keep
// their defaults.
func (h *SearchHandler) Search(c *gin.Context) {
	req := domain.SearchRequest{
		Filters:  domain.DefaultFilters(),
		Page:     1,
		PageSize: defaultPageSize,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.run(c, &req)
}

// SearchQuery is the query-string form of Search
func (h *SearchHandler) SearchQuery(c *gin.Context) {
	params := NewQueryParamParser(c)
	pagination := params.Pagination(defaultPageSize)
	req := domain.SearchRequest{
		Query:    params.String("q", ""),
		Filters:  params.Filters(),
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if err := params.Error(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.run(c, &req)
}

func (h *SearchHandler) run(c *gin.Context, req *domain.SearchRequest) {
	results, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("Search failed", "error", err)
		response.InternalServerError(c, "Search failed")
		return
	}
	response.Success(c, results)
}

// Suggestions returns autocomplete suggestions for a partial query
func (h *SearchHandler) Suggestions(c *gin.Context) {
	params := NewQueryParamParser(c)
	partial := params.String("q", "")
	limit := params.Int("limit", 0)
	if err := params.Error(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, err := h.searchService.Suggest(c.Request.Context(), partial, limit)
	if err != nil {
		h.logger.Error("Suggest failed", "error", err)
		response.InternalServerError(c, "Suggest failed")
		return
	}
	response.Success(c, items)
}

// Stats returns index statistics
func (h *SearchHandler) Stats(c *gin.Context) {
	stats, err := h.searchService.GetIndexStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get index stats", "error", err)
		response.InternalServerError(c, "Failed to get index stats")
		return
	}
	response.Success(c, stats)
}
