// ABOUTME: Root cobra command and shared flags
// ABOUTME: Loads .env files and environment configuration for every subcommand

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ai-search-api/pkg/config"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "aisearch",
	Short: "AI Search API - search aggregation and relevance ranking",
	Long: `aisearch runs the search aggregation service: it analyzes a query, routes it
to the matching SearXNG engines, scores and reranks the candidates and caches
the ranked response.`,
	SilenceUsage: true,
}

// Execute runs the command tree
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadConfig reads dotenv files, then the environment, then validates
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
