// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs a reference through resolution, fetching,
// normalization and export. Sources are tried in order; a fetch or
// normalization failure on one source falls back to the next.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/paperlink/internal/export"
	"github.com/pdiddy/paperlink/internal/fetch"
	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/internal/normalize"
	"github.com/pdiddy/paperlink/internal/reference"
	"github.com/pdiddy/paperlink/pkg/types"
)

// DefaultSources is the source order used when none is configured.
var DefaultSources = []types.Source{types.SourceFeed, types.SourceRendered}

// Ingester parses references into paper records and exports them.
type Ingester struct {
	Fetcher  *fetch.Fetcher
	Exporter *export.Exporter

	// Sources is the fallback order. Empty means DefaultSources.
	Sources []types.Source

	Log *logging.Logger
}

// BatchResult holds the outcome of an IngestBatch run.
type BatchResult struct {
	Exported  int
	Duplicate int
	Failed    int
	Papers    []*types.Paper
}

// Total returns the number of references processed.
func (r BatchResult) Total() int {
	return r.Exported + r.Duplicate + r.Failed
}

// HasFailures reports whether any reference failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Parse resolves ref and builds a record from the first source that
// fetches and normalizes successfully. It returns the record and the
// source that produced it. An invalid reference fails immediately; when
// every source fails the last error is returned.
func (in *Ingester) Parse(ctx context.Context, ref, actingUser string) (*types.Paper, types.Source, error) {
	resolved, err := reference.Resolve(ref)
	if err != nil {
		return nil, "", err
	}
	log := logging.OrNop(in.Log).With("id", resolved.Identifier)

	var lastErr error
	for _, source := range in.sources() {
		paper, err := in.parseFrom(ctx, resolved, source, actingUser)
		if err == nil {
			log.Debug("parsed paper", "source", source)
			return paper, source, nil
		}
		if !recoverable(err) {
			return nil, "", err
		}
		log.Info("source failed, trying next", "source", source, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no sources configured")
	}
	return nil, "", lastErr
}

func (in *Ingester) parseFrom(ctx context.Context, ref reference.Reference, source types.Source, actingUser string) (*types.Paper, error) {
	strategy, err := normalize.For(source)
	if err != nil {
		return nil, err
	}
	raw, err := in.Fetcher.Fetch(ctx, ref, source)
	if err != nil {
		return nil, err
	}
	return strategy.Normalize(normalize.Input{
		Raw:        raw,
		Identifier: ref.Identifier,
		Reference:  ref.URL,
		ActingUser: actingUser,
	})
}

// Ingest parses ref and exports the record into projectID.
func (in *Ingester) Ingest(ctx context.Context, ref, projectID, actingUser string) (*types.Paper, error) {
	paper, _, err := in.Parse(ctx, ref, actingUser)
	if err != nil {
		return nil, err
	}
	if err := in.Exporter.Export(ctx, projectID, paper); err != nil {
		return paper, err
	}
	return paper, nil
}

// IngestBatch ingests each reference in turn, writing one status line per
// reference and a summary to w. Failures do not stop the batch.
func (in *Ingester) IngestBatch(ctx context.Context, refs []string, projectID, actingUser string, w io.Writer) BatchResult {
	var result BatchResult
	for _, ref := range refs {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", ref, ctx.Err())
			result.Failed++
			continue
		}
		paper, err := in.Ingest(ctx, ref, projectID, actingUser)
		switch {
		case err == nil:
			fmt.Fprintf(w, "exported:  %s %q\n", paper.ID, paper.Title)
			result.Exported++
			result.Papers = append(result.Papers, paper)
		case export.IsDuplicate(err):
			fmt.Fprintf(w, "duplicate: %s\n", paper.ID)
			result.Duplicate++
		default:
			fmt.Fprintf(w, "failed:    %s (%v)\n", ref, err)
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d exported, %d duplicate, %d failed (total: %d)\n",
		result.Exported, result.Duplicate, result.Failed, result.Total())
	return result
}

func (in *Ingester) sources() []types.Source {
	if len(in.Sources) == 0 {
		return DefaultSources
	}
	return in.Sources
}

// recoverable reports whether another source may succeed after err.
func recoverable(err error) bool {
	var fe *fetch.FetchError
	var ne *normalize.NormalizeError
	return errors.As(err, &fe) || errors.As(err, &ne)
}
