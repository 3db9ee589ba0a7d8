//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Seed loads testdata/seed.yaml into the local document store.
func Seed() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "store", "seed", filepath.Join("testdata", "seed.yaml"))
}

// Export parses the references in $REFS into the project in $PROJECT.
func Export() error {
	mg.Deps(Build)
	project := os.Getenv("PROJECT")
	refs := os.Getenv("REFS")
	if project == "" || refs == "" {
		return fmt.Errorf("set PROJECT and REFS (space separated)")
	}
	args := append([]string{"export", "--project", project}, splitFields(refs)...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
