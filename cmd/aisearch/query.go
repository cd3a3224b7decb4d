// ABOUTME: query command runs one search through the full pipeline
// ABOUTME: Prints the ranked response as JSON or a short text listing

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ai-search-api/core/domain"
	"ai-search-api/core/search"
)

var (
	queryLimit      int
	queryDomainHint string
	queryText       bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run a single search and print the ranked results",
	Long: `Run a single search against the configured SearXNG instance and print the
ranked response. The store is shared with the server, so cached responses and
usage counters are reused.

Examples:
  aisearch query "transformer attention mechanism"
  aisearch query "golang context cancellation" --limit 5 --text`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "number of results (1-20, default MAX_RESULTS)")
	queryCmd.Flags().StringVar(&queryDomainHint, "domain-hint", "", "reserved domain hint, only logged")
	queryCmd.Flags().BoolVar(&queryText, "text", false, "print a text listing instead of JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	resp, err := a.service.Search(ctx, search.SearchRequest{
		Query:      strings.Join(args, " "),
		Limit:      queryLimit,
		DomainHint: queryDomainHint,
	})
	if err != nil {
		return err
	}

	if queryText {
		printResults(cmd.OutOrStdout(), resp)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResults(w io.Writer, resp *domain.SearchResponse) {
	fmt.Fprintf(w, "Query: %s\n", resp.Query)
	if resp.ExpandedQuery != resp.Query {
		fmt.Fprintf(w, "Expanded: %s\n", resp.ExpandedQuery)
	}
	fmt.Fprintf(w, "Intent: %s | cache hit: %t | %.1f ms\n", resp.Intent, resp.CacheHit, resp.QueryTimeMS)

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "\nNo results.")
		return
	}

	for i, r := range resp.Results {
		fmt.Fprintf(w, "\n%d. %s [%.3f]\n", i+1, r.Title, r.FinalScore)
		fmt.Fprintf(w, "   %s\n", r.URL)
		meta := r.Domain + " via " + r.SourceEngine
		if r.PublishedDate != "" {
			meta += ", " + r.PublishedDate
		}
		fmt.Fprintf(w, "   %s\n", meta)
		if r.Snippet != "" {
			fmt.Fprintf(w, "   %s\n", r.Snippet)
		}
	}
}
