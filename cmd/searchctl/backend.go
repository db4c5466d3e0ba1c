package main

import (
	"context"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/client"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/controller"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/search"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/service"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/suggest"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// backend is a search backend that also serves remote suggestions
type backend interface {
	controller.Backend
	suggest.Source
}

// localBackend searches an index opened in-process
type localBackend struct {
	svc   *service.SearchService
	limit int
}

func (l *localBackend) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	return l.svc.Search(ctx, req)
}

func (l *localBackend) Suggest(ctx context.Context, partial string) ([]domain.SuggestionItem, error) {
	return l.svc.Suggest(ctx, partial, l.limit)
}

// openBackend returns the HTTP client, or an in-process index when local is
// set. The returned func releases the backend.
func openBackend(cfg *config.Config, local bool, log *logger.Logger) (backend, func() error, error) {
	if !local {
		c := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log,
			client.WithSuggestionLimit(cfg.Controller.SuggestionLimit))
		return c, func() error { return nil }, nil
	}

	idx := search.NewBleveIndex(log)
	var err error
	if cfg.Index.Path == "" {
		err = idx.OpenInMemory()
	} else {
		err = idx.Open(cfg.Index.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	return &localBackend{svc: service.NewSearchService(idx, log), limit: cfg.Controller.SuggestionLimit}, idx.Close, nil
}
