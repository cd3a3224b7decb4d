// ABOUTME: stats command prints the usage counters from the shared store
// ABOUTME: Human-readable by default, JSON with --json

package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ai-search-api/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print usage statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&statsJSON, "json", "j", false, "print the summary as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.service.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if statsJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	printStats(cmd.OutOrStdout(), summary)
	return nil
}

func printStats(w io.Writer, s *domain.StatsSummary) {
	fmt.Fprintf(w, "Queries:        %s\n", humanize.Comma(s.QueriesTotal))
	fmt.Fprintf(w, "Cache hit rate: %s%%\n", humanize.FtoaWithDigits(s.CacheHitRate*100, 2))
	fmt.Fprintf(w, "Avg latency:    %s ms\n", humanize.FtoaWithDigits(s.AvgLatencyMS, 1))

	if len(s.QueriesByIntent) == 0 {
		return
	}

	fmt.Fprintln(w, "By intent:")
	for _, intent := range intentOrder(s.QueriesByIntent) {
		fmt.Fprintf(w, "  %-12s %s\n", intent, humanize.Comma(s.QueriesByIntent[intent]))
	}
}

// intentOrder lists known intents first in their canonical order, then any
// other counters alphabetically
func intentOrder(counts map[string]int64) []string {
	out := make([]string, 0, len(counts))
	known := make(map[string]bool, len(domain.Intents))
	for _, intent := range domain.Intents {
		known[string(intent)] = true
		if _, ok := counts[string(intent)]; ok {
			out = append(out, string(intent))
		}
	}

	var extra []string
	for name := range counts {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
