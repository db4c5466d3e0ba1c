package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/api"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/api/handlers"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/config"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/search"
	"github.com/delarge95/ai-news-aggregator-sub000/internal/service"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	seedPath := flag.String("seed", "", "JSON file of articles to index at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting news search server",
		"version", "1.0.0",
		"mode", cfg.Server.Mode,
	)

	searchIndex := search.NewBleveIndex(log)
	if cfg.Index.Path == "" {
		err = searchIndex.OpenInMemory()
	} else {
		err = searchIndex.Open(cfg.Index.Path)
	}
	if err != nil {
		log.Error("Failed to open search index", "error", err)
		os.Exit(1)
	}
	defer searchIndex.Close()

	count, _ := searchIndex.Count()
	log.Info("Search index opened", "path", cfg.Index.Path, "document_count", count)

	searchService := service.NewSearchService(searchIndex, log)

	if *seedPath != "" {
		if err := seed(context.Background(), searchService, *seedPath, cfg.Index.BatchSize); err != nil {
			log.Error("Failed to seed index", "path", *seedPath, "error", err)
			os.Exit(1)
		}
	}

	router := api.NewRouter(
		handlers.NewSearchHandler(searchService, log),
		handlers.NewArticleHandler(searchService, log),
		handlers.NewHealthHandler(searchIndex, nil, log),
		cfg,
		log,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server stopped gracefully")
}

// seed indexes the articles of a JSON file in batches
func seed(ctx context.Context, svc *service.SearchService, path string, batchSize int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	articles, err := domain.ArticlesFromJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse articles: %w", err)
	}
	if batchSize <= 0 {
		batchSize = len(articles)
	}
	for start := 0; start < len(articles); start += batchSize {
		end := min(start+batchSize, len(articles))
		if err := svc.IndexArticles(ctx, articles[start:end]); err != nil {
			return err
		}
	}
	return nil
}
