// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperlink/internal/reference"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [references...]",
	Short: "Extract arXiv identifiers and derived URLs from references",
	Long: `Resolve validates each reference (an arxiv.org/abs URL, a bare identifier
such as 2506.14767, or an arXiv:-prefixed identifier) and prints the
identifier with its abstract and PDF URLs. No network access is made.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, arg := range args {
		ref, err := reference.Resolve(arg)
		if err != nil {
			fmt.Fprintf(os.Stdout, "invalid:  %s\n", arg)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", ref.Identifier, reference.AbsURL(ref.Identifier), reference.PDFURL(ref.Identifier))
	}
	if failed > 0 {
		return fmt.Errorf("%d reference(s) invalid", failed)
	}
	return nil
}
