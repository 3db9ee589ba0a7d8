// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperlink/internal/ingest"
	"github.com/pdiddy/paperlink/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [reference]",
	Short: "Fetch and normalize paper metadata without exporting",
	Long: `Parse fetches metadata for one reference and prints the normalized
record as YAML (or JSON with --json). The feed source is tried first and
the rendered abstract page second, unless --source or --no-fallback
narrows the choice.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("source", "", "source to try first: feed or rendered")
	parseCmd.Flags().Bool("no-fallback", false, "try only the first source")
	parseCmd.Flags().String("user", "", "acting user recorded as addedBy")
	parseCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Ingest
	sources, err := sourceOrder(cmd, cfg.Sources)
	if err != nil {
		return err
	}
	cfg.Sources = sources

	in, err := newIngester(cfg, nil)
	if err != nil {
		return err
	}

	paper, source, err := in.Parse(context.Background(), args[0], actingUser(cmd, cfg))
	if err != nil {
		return err
	}
	log.Info("parsed paper", "id", paper.ID, "source", source)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeRecord(paper, jsonOutput)
}

// sourceOrder applies --source and --no-fallback to the configured order.
func sourceOrder(cmd *cobra.Command, configured []types.Source) ([]types.Source, error) {
	order := configured
	if len(order) == 0 {
		order = ingest.DefaultSources
	}

	if first, _ := cmd.Flags().GetString("source"); first != "" {
		s := types.Source(first)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown source %q (want feed or rendered)", first)
		}
		reordered := []types.Source{s}
		for _, o := range order {
			if o != s {
				reordered = append(reordered, o)
			}
		}
		order = reordered
	}

	if noFallback, _ := cmd.Flags().GetBool("no-fallback"); noFallback {
		order = order[:1]
	}
	return order, nil
}

func writeRecord(v any, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}
