// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paperlink/internal/reference"
	"github.com/pdiddy/paperlink/pkg/types"
)

const doiResolverPrefix = "https://doi.org/"

var (
	firstVersionExpr = regexp.MustCompile(`\[v1\]\s+(.+?)\s+\(`)
	versionExpr      = regexp.MustCompile(`\[v\d+\]\s+(.+?)\s+\(`)
)

// PageStrategy scrapes the rendered abstract page. It is brittle by
// nature and is meant as the fallback when the feed cannot be reached.
type PageStrategy struct{}

var _ Strategy = PageStrategy{}

// Source returns types.SourceRendered.
func (PageStrategy) Source() types.Source { return types.SourceRendered }

// Normalize locates the title, authors, abstract, submission-history and
// subjects blocks by class. Categories hold a single entry: the first
// subject's name before its parenthesized code.
func (PageStrategy) Normalize(in Input) (*types.Paper, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in.Raw))
	if err != nil {
		return nil, &NormalizeError{Source: types.SourceRendered, Reason: ReasonMalformed, Err: err}
	}

	title := firstOf(doc, "h1.title", ".title")
	if title.Length() == 0 {
		return nil, &NormalizeError{Source: types.SourceRendered, Reason: ReasonNotFound}
	}

	authors := make([]string, 0)
	doc.Find(".authors a").Each(func(_ int, a *goquery.Selection) {
		if name := collapse(a.Text()); name != "" {
			authors = append(authors, name)
		}
	})

	subjects := splitSubjects(stripLabel(doc.Find(".subjects").First().Text(), "Subjects:"))
	categories := make([]string, 0, 1)
	if len(subjects) > 0 {
		primary, _, _ := strings.Cut(subjects[0], "(")
		categories = append(categories, strings.TrimSpace(primary))
	}

	submitted, updated := submissionDates(doc.Find(".submission-history").First().Text())

	var doi *string
	if href, ok := doc.Find(".doi a").First().Attr("href"); ok {
		doi = types.StringPtr(strings.TrimSpace(strings.Replace(href, doiResolverPrefix, "", 1)))
	}

	var comments *string
	if c := doc.Find(".comments").First(); c.Length() > 0 {
		comments = types.StringPtr(stripLabel(c.Text(), "Comments:"))
	}

	arxivURL := in.Reference
	if arxivURL == "" {
		arxivURL = reference.AbsURL(in.Identifier)
	}

	return &types.Paper{
		ID:            in.Identifier,
		Title:         stripLabel(title.Text(), "Title:"),
		Authors:       authors,
		Abstract:      stripLabel(firstOf(doc, "blockquote.abstract", ".abstract").Text(), "Abstract:"),
		Subjects:      subjects,
		SubmittedDate: submitted,
		UpdatedDate:   updated,
		PDFURL:        reference.PDFURL(in.Identifier),
		ArxivURL:      arxivURL,
		DOI:           doi,
		Categories:    categories,
		Comments:      comments,
		AddedBy:       in.ActingUser,
	}, nil
}

// firstOf returns the first match of the first selector that matches.
func firstOf(doc *goquery.Document, selectors ...string) *goquery.Selection {
	var sel *goquery.Selection
	for _, s := range selectors {
		sel = doc.Find(s).First()
		if sel.Length() > 0 {
			return sel
		}
	}
	return sel
}

// splitSubjects splits "Primary (code); Secondary (code)" into trimmed
// entries.
func splitSubjects(text string) []string {
	parts := strings.Split(text, ";")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return nonEmpty(parts)
}

// submissionDates returns the [v1] date text ("" when absent) and, when
// more than one revision marker exists, the last revision's date text.
func submissionDates(history string) (submitted string, updated *string) {
	if m := firstVersionExpr.FindStringSubmatch(history); m != nil {
		submitted = strings.TrimSpace(m[1])
	}
	all := versionExpr.FindAllStringSubmatch(history, -1)
	if len(all) > 1 {
		last := strings.TrimSpace(all[len(all)-1][1])
		updated = &last
	}
	return submitted, updated
}
