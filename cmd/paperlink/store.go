// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/docstore"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and seed the local document store",
	Long: `Store manages the SQLite document store that holds projects and
assignments. Use subcommands to seed documents from YAML, print one
document, or count documents per collection.`,
}

var storeSeedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Load documents from a YAML file keyed by collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreSeed,
}

var storeGetCmd = &cobra.Command{
	Use:   "get [collection] [id]",
	Short: "Print one document",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreGet,
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count documents per collection",
	Args:  cobra.NoArgs,
	RunE:  runStoreStats,
}

func init() {
	storeGetCmd.Flags().Bool("json", false, "output the document as JSON")

	storeCmd.AddCommand(storeSeedCmd, storeGetCmd, storeStatsCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	store, err := openStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := docstore.Seed(context.Background(), store, f)
	if err != nil {
		return err
	}
	printCounts(counts)
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	store, err := openStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Get(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeRecord(doc.Data, jsonOutput)
}

func runStoreStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Collections(context.Background())
	if err != nil {
		return err
	}
	printCounts(counts)
	return nil
}

func printCounts(counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	total := 0
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "%-24s %d\n", name, counts[name])
		total += counts[name]
	}
	fmt.Fprintf(os.Stdout, "%-24s %d\n", "total", total)
}
