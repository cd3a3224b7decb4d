// ABOUTME: Wires configuration into stores, adapters and the search service
// ABOUTME: Shared by the serve, query and stats commands

package main

import (
	"errors"
	"io"
	"net/http"

	"ai-search-api/api/middleware"
	"ai-search-api/core/interfaces"
	"ai-search-api/core/ranking"
	"ai-search-api/core/routing"
	"ai-search-api/core/search"
	"ai-search-api/infrastructure/analyzer"
	"ai-search-api/infrastructure/cache/memory"
	"ai-search-api/infrastructure/cache/redis"
	"ai-search-api/infrastructure/cache/sqlite"
	stdhttp "ai-search-api/infrastructure/http/standard"
	logruslogger "ai-search-api/infrastructure/logger/logrus"
	"ai-search-api/infrastructure/relevance"
	"ai-search-api/infrastructure/searxng"
	"ai-search-api/pkg/config"
	"ai-search-api/pkg/featureflags"
)

// app holds everything a command needs, plus what must be closed on exit
type app struct {
	cfg     *config.Config
	logger  *logruslogger.Logger
	store   interfaces.Store
	router  *routing.Router
	flags   featureflags.Manager
	service *search.SearchService
	closers []io.Closer
}

// closerFunc adapts a shutdown function to io.Closer
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// newLogger builds the process logger. CLI commands log to stderr so
// stdout stays machine-readable.
func newLogger(cfg *config.Config, out io.Writer) *logruslogger.Logger {
	return logruslogger.New(logruslogger.Options{
		Level:  cfg.Server.LogLevel,
		JSON:   cfg.IsProduction(),
		Output: out,
		File:   cfg.Server.LogFile,
	})
}

// newApp builds the search service from cfg
func newApp(cfg *config.Config, logger *logruslogger.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		flags:   featureflags.NewEnvManager(""),
		closers: []io.Closer{logger},
	}

	store, closer := openStore(cfg.Cache, logger)
	a.store = store
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	transport := &middleware.LoggingRoundTripper{Transport: http.DefaultTransport, Logger: logger}

	searchHTTP := stdhttp.NewStandardHTTPClient(cfg.Search.Timeout, stdhttp.WithTransport(transport))
	aggregator := searxng.NewClient(cfg.Search.SearXNGURL, searchHTTP, logger)

	queryAnalyzer, err := analyzer.New(cfg.Analyzer, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var model interfaces.RelevanceModel
	if cfg.Reranker.Enabled {
		rerankHTTP := stdhttp.NewStandardHTTPClient(cfg.Reranker.Timeout, stdhttp.WithTransport(transport))
		model = relevance.NewClient(cfg.Reranker.URL, rerankHTTP)
		logger.Info("Cross-encoder enabled", map[string]interface{}{
			"url": cfg.Reranker.URL,
		})
	}

	table, err := loadRoutingTable(cfg.Search.EnginesConfig, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.router = routing.NewRouter(table, logger)

	rankingOpts := ranking.DefaultOptions()
	reranker := ranking.NewReranker(model, logger,
		ranking.WithRerankTimeout(cfg.Reranker.Timeout),
		ranking.WithRerankConcurrency(int64(cfg.Reranker.Concurrency)),
		ranking.WithRankingOptions(rankingOpts),
	)

	deps := interfaces.Dependencies{
		Store:      store,
		Logger:     logger,
		Analyzer:   queryAnalyzer,
		Aggregator: aggregator,
		Relevance:  model,
	}

	a.service = search.NewSearchService(deps, a.router, reranker, search.Config{
		CacheTTL:     cfg.CacheTTL(),
		DefaultLimit: cfg.Search.MaxResults,
		Ranking:      rankingOpts,
		Flags:        a.flags,
	})
	return a, nil
}

// Close releases the store and the log file, newest first
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openStore opens the configured backend. Redis and SQLite failures fall
// back to the in-memory store. The returned closer may be nil.
func openStore(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Store, io.Closer) {
	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis store, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using Redis store", map[string]interface{}{
			"address": redisAddress(cfg.Redis),
		})
		return redisCache, redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path)
		if err != nil {
			logger.Error("Failed to open SQLite store, falling back to memory", map[string]interface{}{
				"path":  cfg.SQLite.Path,
				"error": err.Error(),
			})
			break
		}
		logger.Info("Using SQLite store", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache, sqliteCache
	}

	logger.Info("Using memory store", nil)
	return memory.NewMemoryCache(cfg.Memory.CleanupInterval), nil
}

// redisAddress avoids logging credentials embedded in REDIS_URL
func redisAddress(cfg config.RedisConfig) string {
	if cfg.URL != "" {
		return "(from REDIS_URL)"
	}
	return cfg.Address
}

// loadRoutingTable reads the YAML table when configured, else the built-in routes
func loadRoutingTable(path string, logger interfaces.Logger) (*routing.Table, error) {
	if path == "" {
		return routing.DefaultTable(), nil
	}
	table, err := routing.LoadTable(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded routing table", map[string]interface{}{
		"path":    path,
		"intents": len(table.Intents()),
	})
	return table, nil
}
