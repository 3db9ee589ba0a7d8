// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export appends normalized paper records to a project's
// resources.papers array, rejecting identifiers the project already holds.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/paperlink/internal/docstore"
	"github.com/pdiddy/paperlink/internal/fetch"
	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/pkg/types"
)

const (
	// ProjectsCollection holds project documents.
	ProjectsCollection = "projects"

	// PapersField is the dotted path of the paper array on a project.
	PapersField = "resources.papers"
)

// Exporter writes papers into project documents.
type Exporter struct {
	Store docstore.Store

	// Now stamps addedAt. Defaults to time.Now.
	Now func() time.Time

	Log *logging.Logger
}

// New returns an Exporter over store.
func New(store docstore.Store, log *logging.Logger) *Exporter {
	return &Exporter{Store: store, Now: time.Now, Log: logging.OrNop(log)}
}

// Export appends paper to the project's resources.papers. It performs a
// single store mutation on success and none on failure. The existence
// check and the append are separate store calls, so two concurrent
// exports of the same identifier can both succeed.
func (e *Exporter) Export(ctx context.Context, projectID string, paper *types.Paper) error {
	log := logging.OrNop(e.Log).With("project", projectID, "paper", paper.ID)

	existing, err := e.papers(ctx, projectID, paper.ID)
	if err != nil {
		return err
	}
	for _, id := range existing {
		if id == paper.ID {
			log.Info("paper already in project")
			return &ExportError{Kind: KindDuplicate, ProjectID: projectID, PaperID: paper.ID}
		}
	}

	record := *paper
	record.AddedAt = e.now().UTC()
	value, err := docstore.Compact(record)
	if err != nil {
		return fmt.Errorf("compacting paper %s: %w", paper.ID, err)
	}

	if err := e.Store.AppendToArray(ctx, ProjectsCollection, projectID, PapersField, value); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &ExportError{Kind: KindNotFound, ProjectID: projectID, PaperID: paper.ID}
		}
		return &fetch.FetchError{Target: ProjectsCollection + "/" + projectID, Err: err}
	}
	log.Info("paper exported", "added_by", record.AddedBy)
	return nil
}

// Exists reports whether the project already holds paperID. A missing
// project is an ExportError of KindNotFound.
func (e *Exporter) Exists(ctx context.Context, projectID, paperID string) (bool, error) {
	existing, err := e.papers(ctx, projectID, paperID)
	if err != nil {
		return false, err
	}
	for _, id := range existing {
		if id == paperID {
			return true, nil
		}
	}
	return false, nil
}

// papers returns the ids of the papers currently stored on the project.
func (e *Exporter) papers(ctx context.Context, projectID, paperID string) ([]string, error) {
	doc, err := e.Store.Get(ctx, ProjectsCollection, projectID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, &ExportError{Kind: KindNotFound, ProjectID: projectID, PaperID: paperID}
	}
	if err != nil {
		return nil, &fetch.FetchError{Target: ProjectsCollection + "/" + projectID, Err: err}
	}

	raw, ok := docstore.Lookup(doc.Data, PapersField)
	if !ok {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := m["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
