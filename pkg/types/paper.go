// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperlink engine:
// the canonical paper record, assignment and project documents, and the
// configuration structs consumed by each stage.
package types

import "time"

// Source selects which upstream document a paper record is built from.
type Source string

const (
	// SourceFeed is the arXiv Atom query API. It is authoritative and
	// complete but may be unreachable from restricted transports.
	SourceFeed Source = "feed"

	// SourceRendered is the HTML abstract page. It is reachable through an
	// ordinary content fetch but must be scraped structurally.
	SourceRendered Source = "rendered"
)

// Valid reports whether s names a known source.
func (s Source) Valid() bool {
	return s == SourceFeed || s == SourceRendered
}

// Paper is the canonical record produced by normalizing either source.
// Optional fields are pointers so that an absent value is omitted from the
// stored document instead of being written as an empty string.
type Paper struct {
	// ID is the bare arXiv identifier (e.g. "2506.14767"). It is the only
	// deduplication key inside a project.
	ID string `json:"id" yaml:"id"`

	// Title is whitespace-collapsed with any "Title:" label removed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in document order. Duplicates are kept.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is whitespace-collapsed with any "Abstract:" label removed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Subjects holds raw classification labels.
	Subjects []string `json:"subjects" yaml:"subjects"`

	// SubmittedDate is the first-submission timestamp text as captured.
	SubmittedDate string `json:"submittedDate" yaml:"submittedDate"`

	// UpdatedDate is the latest revision timestamp text, present only when
	// a later revision exists.
	UpdatedDate *string `json:"updatedDate,omitempty" yaml:"updatedDate,omitempty"`

	// PDFURL is derived from ID.
	PDFURL string `json:"pdfUrl" yaml:"pdfUrl"`

	// ArxivURL is the abstract page URL (or the input reference for the
	// rendered source).
	ArxivURL string `json:"arxivUrl" yaml:"arxivUrl"`

	DOI *string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Categories holds primary classification terms.
	Categories []string `json:"categories" yaml:"categories"`

	Comments *string `json:"comments,omitempty" yaml:"comments,omitempty"`

	// AddedAt is stamped at export time, never at parse time.
	AddedAt time.Time `json:"addedAt,omitzero" yaml:"addedAt,omitempty"`

	// AddedBy identifies the acting user supplied by the caller.
	AddedBy string `json:"addedBy" yaml:"addedBy"`
}

// ResourceLink is an external link attached to a project.
type ResourceLink struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	AddedAt     time.Time `json:"addedAt,omitzero" yaml:"addedAt,omitempty"`
}

// ResourceFile is an uploaded file attached to a project.
type ResourceFile struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	URL     string    `json:"url" yaml:"url"`
	Type    string    `json:"type" yaml:"type"`
	AddedAt time.Time `json:"addedAt,omitzero" yaml:"addedAt,omitempty"`
}

// ProjectResources groups the resource collections stored on a project
// document. Exported papers live under resources.papers.
type ProjectResources struct {
	Papers []Paper        `json:"papers,omitempty" yaml:"papers,omitempty"`
	Links  []ResourceLink `json:"links,omitempty" yaml:"links,omitempty"`
	Files  []ResourceFile `json:"files,omitempty" yaml:"files,omitempty"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
