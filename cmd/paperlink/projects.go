// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/assign"
	"github.com/pdiddy/paperlink/pkg/types"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects assigned to a student",
	Long: `Projects looks up the student's assignments and joins each with its
project document, in assignment order. Assignments whose project no
longer exists are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().String("user", "", "student uid (default: configured user)")
	projectsCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	user := actingUser(cmd, cfg.Ingest)
	if user == "" {
		return fmt.Errorf("no user: pass --user, set PAPERLINK_USER, or add .secrets/default-user")
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	j := assign.New(store, log)
	j.ChunkSize = cfg.Join.ChunkSize

	projects, err := j.ResolveAssignedProjects(context.Background(), user)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeRecord(projects, true)
	}
	printProjects(projects)
	return nil
}

func printProjects(projects []types.AssignedProject) {
	if len(projects) == 0 {
		fmt.Println("No assigned projects.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-40s  %-12s  %-12s  %s\n",
		"Assignment", "Title", "Difficulty", "Status", "Student")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, p := range projects {
		title := truncate(p.Title, 40)
		fmt.Fprintf(os.Stdout, "%-20s  %-40s  %-12s  %-12s  %s\n",
			p.AssignedProjectID, title, p.Difficulty, p.Status, p.StudentName)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
