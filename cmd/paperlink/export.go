// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [references...]",
	Short: "Parse papers and append them to a project's resources",
	Long: `Export parses each reference and appends the record to
resources.papers of the given project. A paper whose identifier the
project already holds is reported as a duplicate and left untouched.
The batch continues past failures.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("project", "", "target project id (required)")
	exportCmd.Flags().String("user", "", "acting user recorded as addedBy")
	_ = exportCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	projectID, _ := cmd.Flags().GetString("project")
	user := actingUser(cmd, cfg.Ingest)
	if user == "" {
		return fmt.Errorf("no acting user: pass --user, set PAPERLINK_USER, or add .secrets/default-user")
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	in, err := newIngester(cfg.Ingest, store)
	if err != nil {
		return err
	}

	result := in.IngestBatch(context.Background(), args, projectID, user, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed export", result.Failed)
	}
	return nil
}
