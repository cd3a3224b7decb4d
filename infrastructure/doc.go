// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as storage, HTTP communication, query analysis and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-process store backed by patrickmn/go-cache
// - cache/redis: Shared store backed by Redis
// - cache/sqlite: Persistent single-node store backed by SQLite
// - http/standard: net/http client, single attempt per call
// - searxng: SearXNG JSON aggregator client
// - relevance: Cross-encoder /rerank client
// - analyzer: LLM, rules-based and tiered query analyzers
// - logger/logrus: Structured logger backed by logrus
//
// # Store Implementations
//
// Memory Store Example:
//
//	store := memory.NewMemoryCache(10 * time.Minute)
//	err := store.Set(ctx, "key", []byte("value"), 24*time.Hour)
//	value, err := store.Get(ctx, "key")
//
// Redis Store Example:
//
//	store, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(15 * time.Second)
//	resp, err := client.Get(ctx, "http://localhost:8888/search?q=go&format=json")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "info", JSON: true})
//	logger.Info("Processing request", map[string]interface{}{
//	    "intent":  "code",
//	    "results": 8,
//	})
package infrastructure
