// ABOUTME: cache command inspects and clears the configured response store
// ABOUTME: Usage counters survive a clear; only cached responses are dropped

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"ai-search-api/core/interfaces"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print response cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMaintainer(func(m interfaces.CacheMaintainer) error {
			stats, err := m.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read cache stats: %w", err)
			}
			printCacheStats(cmd.OutOrStdout(), stats)
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMaintainer(func(m interfaces.CacheMaintainer) error {
			return clearCache(cmd.Context(), cmd.OutOrStdout(), m)
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// withMaintainer opens the configured store and runs fn against it
func withMaintainer(fn func(interfaces.CacheMaintainer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stderr)
	defer logger.Close()

	store, closer := openStore(cfg.Cache, logger)
	if closer != nil {
		defer closer.Close()
	}

	m, err := maintainerFor(store)
	if err != nil {
		return err
	}
	return fn(m)
}

func maintainerFor(store interfaces.Store) (interfaces.CacheMaintainer, error) {
	m, ok := store.(interfaces.CacheMaintainer)
	if !ok {
		return nil, fmt.Errorf("cache backend %T does not support maintenance", store)
	}
	return m, nil
}

func clearCache(ctx context.Context, w io.Writer, m interfaces.CacheMaintainer) error {
	before, err := m.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}
	if err := m.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "Cleared %s cached responses\n", humanize.Comma(cast.ToInt64(before["total_entries"])))
	return nil
}

func printCacheStats(w io.Writer, stats map[string]interface{}) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var value string
		switch name {
		case "db_size_bytes":
			value = humanize.Bytes(cast.ToUint64(stats[name]))
		case "total_entries", "expired_entries":
			value = humanize.Comma(cast.ToInt64(stats[name]))
		default:
			value = cast.ToString(stats[name])
		}
		fmt.Fprintf(w, "%-16s %s\n", name+":", value)
	}
}
