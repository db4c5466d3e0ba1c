package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/service"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/response"
)

// ArticleHandler handles article indexing requests
type ArticleHandler struct {
	searchService *service.SearchService
	logger        *logger.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(searchService *service.SearchService, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		searchService: searchService,
		logger:        logger.WithComponent("article-handler"),
	}
}

// Index indexes one article or a JSON array of articles
func (h *ArticleHandler) Index(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	articles, err := decodeArticles(body)
	if err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(articles) == 0 {
		response.BadRequest(c, "no articles given")
		return
	}

	if err := h.searchService.IndexArticles(c.Request.Context(), articles); err != nil {
		h.logger.Warn("Failed to index articles", "count", len(articles), "error", err)
		response.FromError(c, err)
		return
	}

	response.Created(c, gin.H{"indexed": len(articles)})
}

// Delete removes an article from the index
func (h *ArticleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.searchService.DeleteArticle(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete article", "article_id", id, "error", err)
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Article removed from index", gin.H{"id": id})
}

func decodeArticles(body []byte) ([]*domain.Article, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return domain.ArticlesFromJSON(trimmed)
	}
	var article domain.Article
	if err := json.Unmarshal(trimmed, &article); err != nil {
		return nil, err
	}
	return []*domain.Article{&article}, nil
}
