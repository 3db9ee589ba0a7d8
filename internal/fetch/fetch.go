// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves one raw arXiv document, either the Atom feed
// entry or the rendered abstract page, through an injected Transport.
// Nothing is cached; every call is a fresh request.
package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/internal/reference"
	"github.com/pdiddy/paperlink/pkg/types"
)

// feedEndpoint is the arXiv query API. Declared as a var so tests can
// substitute an httptest server.
var feedEndpoint = "https://export.arxiv.org/api/query"

// FeedURL returns the query URL for a single identifier.
func FeedURL(id string) string {
	return feedEndpoint + "?id_list=" + url.QueryEscape(id)
}

// Fetcher retrieves raw documents.
type Fetcher struct {
	Transport Transport
	Log       *logging.Logger
}

// Fetch returns the raw document for ref from the given source. The feed
// source requests the templated query URL; the rendered source requests
// the reference's own URL. A non-OK status or transport failure yields a
// *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, ref reference.Reference, source types.Source) ([]byte, error) {
	var target string
	switch source {
	case types.SourceFeed:
		target = FeedURL(ref.Identifier)
	case types.SourceRendered:
		target = ref.URL
		if target == "" {
			target = reference.AbsURL(ref.Identifier)
		}
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}

	log := logging.OrNop(f.Log)
	log.Debug("fetching document", "id", ref.Identifier, "source", source, "url", target)

	resp, err := f.Transport.Fetch(ctx, target)
	if err != nil {
		return nil, &FetchError{Target: target, Err: err}
	}
	if !resp.OK() {
		return nil, &FetchError{Target: target, Status: resp.Status}
	}
	return resp.Body, nil
}
