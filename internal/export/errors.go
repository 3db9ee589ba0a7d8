// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the target project document is absent.
	ErrProjectNotFound = errors.New("project not found")

	// ErrDuplicatePaper indicates the project already holds a paper with
	// the same identifier.
	ErrDuplicatePaper = errors.New("paper already exists in project")
)

// Kind classifies an ExportError.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindDuplicate
)

// ExportError reports why a paper was not appended to a project.
type ExportError struct {
	Kind      Kind
	ProjectID string
	PaperID   string
}

func (e *ExportError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("exporting %s: project %s not found", e.PaperID, e.ProjectID)
	case KindDuplicate:
		return fmt.Sprintf("exporting %s: already exists in project %s", e.PaperID, e.ProjectID)
	}
	return fmt.Sprintf("exporting %s to project %s", e.PaperID, e.ProjectID)
}

// Is matches the package sentinels by kind.
func (e *ExportError) Is(target error) bool {
	switch target {
	case ErrProjectNotFound:
		return e.Kind == KindNotFound
	case ErrDuplicatePaper:
		return e.Kind == KindDuplicate
	}
	return false
}

// IsDuplicate reports whether err is a duplicate-paper rejection.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicatePaper)
}

// IsNotFound reports whether err is a missing-project rejection.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}
