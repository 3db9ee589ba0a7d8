// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/export"
	"github.com/pdiddy/paperlink/internal/reference"
)

var existsCmd = &cobra.Command{
	Use:   "exists [references...]",
	Short: "Check whether papers are already attached to a project",
	Long: `Exists resolves each reference and reports whether the project's
resources.papers already holds that identifier. No metadata is fetched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExists,
}

func init() {
	existsCmd.Flags().String("project", "", "target project id (required)")
	_ = existsCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(existsCmd)
}

func runExists(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	projectID, _ := cmd.Flags().GetString("project")

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	return checkExists(context.Background(), export.New(store, log), projectID, args, os.Stdout)
}

// checkExists writes one "present:" or "absent:" line per reference.
// An invalid reference or missing project stops the run.
func checkExists(ctx context.Context, e *export.Exporter, projectID string, refs []string, w io.Writer) error {
	for _, arg := range refs {
		ref, err := reference.Resolve(arg)
		if err != nil {
			return err
		}
		found, err := e.Exists(ctx, projectID, ref.Identifier)
		if err != nil {
			return err
		}
		status := "absent: "
		if found {
			status = "present:"
		}
		fmt.Fprintf(w, "%s %s\n", status, ref.Identifier)
	}
	return nil
}
