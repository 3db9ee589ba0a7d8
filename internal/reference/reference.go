// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference validates arXiv references and extracts the bare
// identifier used as the paper dedup key. It performs no I/O.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned when no identifier can be extracted.
// Callers should not retry it automatically.
var ErrInvalidReference = errors.New("invalid arXiv reference")

// URL templates for derived links.
const (
	absBase = "https://arxiv.org/abs/"
	pdfBase = "https://arxiv.org/pdf/"
)

// absPattern matches an abstract-page reference anywhere in a string:
// "https://arxiv.org/abs/2506.14767", "arxiv.org/abs/2301.0704v2".
var absPattern = regexp.MustCompile(`arxiv\.org/abs/([0-9]{4}\.[0-9]{4,5})`)

// pagePattern matches the fetchable abstract URL inside a reference,
// version suffix included.
var pagePattern = regexp.MustCompile(`https?://(?:[a-z0-9-]+\.)*arxiv\.org/abs/[0-9]{4}\.[0-9]{4,5}(?:v[0-9]+)?`)

// idPattern is the wire format for identifiers.
var idPattern = regexp.MustCompile(`^[0-9]{4}\.[0-9]{4,5}$`)

// barePattern matches identifiers typed on the command line: "2301.07041",
// "arXiv:2301.07041", "2301.07041v2". The version suffix is dropped.
var barePattern = regexp.MustCompile(`^(?i:arxiv:)?([0-9]{4}\.[0-9]{4,5})(?:v[0-9]+)?$`)

// IsValidReference reports whether s contains an arXiv abstract reference.
func IsValidReference(s string) bool {
	return absPattern.MatchString(s)
}

// ExtractIdentifier returns the identifier captured from the first
// abstract reference in s. ok is false when s holds no reference.
func ExtractIdentifier(s string) (id string, ok bool) {
	m := absPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsIdentifier reports whether id matches the identifier wire format.
func IsIdentifier(id string) bool {
	return idPattern.MatchString(id)
}

// PDFURL returns the PDF download URL for id.
func PDFURL(id string) string {
	return pdfBase + id + ".pdf"
}

// AbsURL returns the abstract page URL for id.
func AbsURL(id string) string {
	return absBase + id
}

// Reference is a resolved caller input.
type Reference struct {
	// Identifier is the bare arXiv identifier.
	Identifier string

	// URL is the page to request for the rendered source: the abstract
	// URL found in the caller's input, or the canonical abstract page when
	// the input carries no scheme-qualified URL.
	URL string
}

// Resolve accepts an abstract URL, a bare identifier, or an
// "arXiv:"-prefixed identifier and returns the resolved Reference.
func Resolve(s string) (Reference, error) {
	s = strings.TrimSpace(s)

	if id, ok := ExtractIdentifier(s); ok {
		url := pagePattern.FindString(s)
		if url == "" {
			url = AbsURL(id)
		}
		return Reference{Identifier: id, URL: url}, nil
	}
	if m := barePattern.FindStringSubmatch(s); m != nil {
		return Reference{Identifier: m[1], URL: AbsURL(m[1])}, nil
	}
	return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
}
