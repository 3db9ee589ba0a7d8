// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// SeedIDField names the key in a seed document that supplies its id.
const SeedIDField = "id"

// Seed reads a YAML file mapping collection names to lists of documents
// and writes each document to w. A document's "id" key becomes its
// document id and is removed from the body; documents without one get a
// random UUID. It returns the number of documents written per collection.
//
//	projects:
//	  - id: p1
//	    title: Graph Search
//	assignedProjects:
//	  - projectId: p1
//	    studentUid: u1
func Seed(ctx context.Context, w Writer, r io.Reader) (map[string]int, error) {
	var file map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	collections := make([]string, 0, len(file))
	for name := range file {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	counts := make(map[string]int, len(file))
	for _, name := range collections {
		for _, body := range file[name] {
			id, _ := body[SeedIDField].(string)
			if id == "" {
				id = uuid.NewString()
			}
			delete(body, SeedIDField)
			if err := w.Set(ctx, name, id, body); err != nil {
				return counts, err
			}
			counts[name]++
		}
	}
	return counts, nil
}
