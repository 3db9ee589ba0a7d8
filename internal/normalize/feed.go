// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/pdiddy/paperlink/internal/reference"
	"github.com/pdiddy/paperlink/pkg/types"
)

// arXiv Atom feed XML structures. Tags without a namespace match the
// element's local name in any namespace, so "doi" matches arxiv:doi.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Updated    *string         `xml:"updated"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
	DOI        *string         `xml:"doi"`
	Comment    *string         `xml:"comment"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term   string `xml:"term,attr"`
	Scheme string `xml:"scheme,attr"`
}

// FeedStrategy normalizes arXiv query API responses.
type FeedStrategy struct{}

var _ Strategy = FeedStrategy{}

// Source returns types.SourceFeed.
func (FeedStrategy) Source() types.Source { return types.SourceFeed }

// Normalize decodes the feed and builds a record from its first entry.
// Categories come from each category's term attribute and subjects from
// its scheme attribute, in document order.
func (FeedStrategy) Normalize(in Input) (*types.Paper, error) {
	var feed arxivFeed
	if err := xml.NewDecoder(bytes.NewReader(in.Raw)).Decode(&feed); err != nil {
		return nil, &NormalizeError{Source: types.SourceFeed, Reason: ReasonMalformed, Err: err}
	}
	if len(feed.Entries) == 0 {
		return nil, &NormalizeError{Source: types.SourceFeed, Reason: ReasonNotFound}
	}

	entry := feed.Entries[0]
	// The API reports bad ids as an entry whose id points at /api/errors.
	if strings.Contains(entry.ID, "/api/errors") {
		return nil, &NormalizeError{Source: types.SourceFeed, Reason: ReasonNotFound}
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, collapse(a.Name))
	}

	terms := make([]string, 0, len(entry.Categories))
	schemes := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		terms = append(terms, strings.TrimSpace(c.Term))
		schemes = append(schemes, strings.TrimSpace(c.Scheme))
	}

	published := strings.TrimSpace(entry.Published)

	return &types.Paper{
		ID:            in.Identifier,
		Title:         collapse(entry.Title),
		Authors:       authors,
		Abstract:      collapse(entry.Summary),
		Subjects:      nonEmpty(schemes),
		SubmittedDate: published,
		UpdatedDate:   revisedDate(entry.Updated, published),
		PDFURL:        reference.PDFURL(in.Identifier),
		ArxivURL:      reference.AbsURL(in.Identifier),
		DOI:           optionalText(entry.DOI),
		Categories:    nonEmpty(terms),
		Comments:      optionalText(entry.Comment),
		AddedBy:       in.ActingUser,
	}, nil
}

// revisedDate returns the updated timestamp only when it marks a later
// revision than the first submission.
func revisedDate(updated *string, published string) *string {
	if updated == nil {
		return nil
	}
	u := strings.TrimSpace(*updated)
	if u == "" || u == published {
		return nil
	}
	return &u
}

// optionalText returns the trimmed element text, or nil when the element
// is missing or blank.
func optionalText(p *string) *string {
	if p == nil {
		return nil
	}
	return types.StringPtr(collapse(*p))
}
