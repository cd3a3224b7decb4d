// ABOUTME: Intent to engine routing over an immutable routing table
// ABOUTME: Tables are loaded from YAML and swapped atomically on Reload

package routing

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// FallbackConfig is used when neither the intent nor general is routed
var FallbackConfig = domain.EngineConfig{
	Engines:    []string{"ddg", "brave"},
	Categories: []string{"general"},
}

// Table maps intents to engine configurations. A Table is never modified after construction.
type Table struct {
	routes map[domain.Intent]domain.EngineConfig
}

// fileFormat is the on-disk shape of the routing table
type fileFormat struct {
	Intents map[string]struct {
		Engines    []string `yaml:"engines"`
		Categories []string `yaml:"categories"`
	} `yaml:"intents"`
}

// NewTable builds a table from a route map, copying every entry
func NewTable(routes map[domain.Intent]domain.EngineConfig) *Table {
	t := &Table{routes: make(map[domain.Intent]domain.EngineConfig, len(routes))}
	for intent, cfg := range routes {
		t.routes[intent] = cfg.Clone()
	}
	return t
}

// DefaultTable returns the built-in routes
func DefaultTable() *Table {
	return NewTable(map[domain.Intent]domain.EngineConfig{
		domain.IntentResearch: {
			Engines:    []string{"arxiv", "semantic_scholar", "ddg"},
			Categories: []string{"science"},
		},
		domain.IntentBiomedical: {
			Engines:    []string{"pubmed", "semantic_scholar", "ddg"},
			Categories: []string{"science"},
		},
		domain.IntentCode: {
			Engines:    []string{"github", "ddg", "brave"},
			Categories: []string{"it"},
		},
		domain.IntentNews: {
			Engines:    []string{"ddg", "brave"},
			Categories: []string{"news"},
		},
		domain.IntentGeneral: {
			Engines:    []string{"ddg", "brave"},
			Categories: []string{"general"},
		},
	})
}

// ParseTable decodes a YAML routing table. Intents missing engines default
// to ddg and intents missing categories default to general.
func ParseTable(data []byte) (*Table, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse routing table: %w", err)
	}

	routes := make(map[domain.Intent]domain.EngineConfig, len(raw.Intents))
	for name, entry := range raw.Intents {
		cfg := domain.EngineConfig{Engines: entry.Engines, Categories: entry.Categories}
		if len(cfg.Engines) == 0 {
			cfg.Engines = []string{"ddg"}
		}
		if len(cfg.Categories) == 0 {
			cfg.Categories = []string{"general"}
		}
		routes[domain.Intent(name)] = cfg
	}
	return NewTable(routes), nil
}

// LoadTable reads and parses a YAML routing table file
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing table: %w", err)
	}
	return ParseTable(data)
}

// Lookup returns a copy of the route for intent. It falls back to the general
// route and then to FallbackConfig.
func (t *Table) Lookup(intent domain.Intent) domain.EngineConfig {
	if t != nil {
		if cfg, ok := t.routes[intent]; ok {
			return cfg.Clone()
		}
		if cfg, ok := t.routes[domain.IntentGeneral]; ok {
			return cfg.Clone()
		}
	}
	return FallbackConfig.Clone()
}

// Intents lists the intents the table routes explicitly
func (t *Table) Intents() []domain.Intent {
	out := make([]domain.Intent, 0, len(t.routes))
	for _, intent := range domain.Intents {
		if _, ok := t.routes[intent]; ok {
			out = append(out, intent)
		}
	}
	return out
}

// Router resolves intents against the current routing table
type Router struct {
	table  atomic.Pointer[Table]
	logger interfaces.Logger
}

// NewRouter creates a router over table. A nil table routes everything to FallbackConfig.
func NewRouter(table *Table, logger interfaces.Logger) *Router {
	r := &Router{logger: logger}
	r.table.Store(table)
	return r
}

// Route returns the engines and categories for intent. It never fails.
func (r *Router) Route(intent domain.Intent) domain.EngineConfig {
	cfg := r.table.Load().Lookup(intent)
	if r.logger != nil {
		r.logger.Debug("Routed query", map[string]interface{}{
			"intent":  string(intent),
			"engines": cfg.Engines,
		})
	}
	return cfg
}

// Reload swaps in a new table. Routes already returned are unaffected.
func (r *Router) Reload(table *Table) {
	r.table.Store(table)
	if r.logger != nil && table != nil {
		r.logger.Info("Routing table reloaded", map[string]interface{}{
			"intents": len(table.routes),
		})
	}
}

// ReloadFile loads a routing table from path and swaps it in. On error the
// current table stays active.
func (r *Router) ReloadFile(path string) error {
	table, err := LoadTable(path)
	if err != nil {
		return err
	}
	r.Reload(table)
	return nil
}
