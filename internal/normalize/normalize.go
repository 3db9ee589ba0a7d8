// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a raw arXiv document into a canonical
// types.Paper. Each source has its own Strategy; callers select one by
// tag and may fall back to the other without changing downstream code.
package normalize

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paperlink/pkg/types"
)

// Failure reasons carried by NormalizeError.
const (
	ReasonNotFound  = "not found"
	ReasonMalformed = "malformed document"
)

// NormalizeError reports that the document arrived but its expected
// structure is missing. It is recoverable by trying the other source.
type NormalizeError struct {
	Source types.Source
	Reason string
	Err    error
}

func (e *NormalizeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalizing %s document: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalizing %s document: %s", e.Source, e.Reason)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// Input is one raw document plus the caller context needed to build a
// record from it.
type Input struct {
	// Raw is the fetched document body.
	Raw []byte

	// Identifier is the bare arXiv identifier the document was fetched for.
	Identifier string

	// Reference is the caller's original reference. The rendered strategy
	// records it as arxivUrl.
	Reference string

	// ActingUser is recorded as addedBy.
	ActingUser string
}

// Strategy normalizes documents of one source.
type Strategy interface {
	Source() types.Source
	Normalize(in Input) (*types.Paper, error)
}

// For returns the strategy registered for source.
func For(source types.Source) (Strategy, error) {
	switch source {
	case types.SourceFeed:
		return FeedStrategy{}, nil
	case types.SourceRendered:
		return PageStrategy{}, nil
	default:
		return nil, fmt.Errorf("no normalizer for source %q", source)
	}
}

// collapse trims s and reduces every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripLabel removes the first occurrence of label (e.g. "Title:") and
// collapses the remaining text.
func stripLabel(s, label string) string {
	return collapse(strings.Replace(s, label, "", 1))
}

// nonEmpty returns the non-empty elements of in, never nil.
func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
