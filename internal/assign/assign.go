// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assign joins a student's assignment documents with the project
// documents they reference. Project lookups are batched into in-queries
// of at most docstore.MaxInValues ids and issued concurrently.
package assign

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperlink/internal/docstore"
	"github.com/pdiddy/paperlink/internal/fetch"
	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/pkg/types"
)

const (
	AssignmentsCollection = "assignedProjects"
	ProjectsCollection    = "projects"

	studentField = "studentUid"

	// UnknownStudentName fills assignments that carry no student name.
	UnknownStudentName = "N/A"
)

// Joiner resolves the projects assigned to a user.
type Joiner struct {
	Store docstore.Store

	// ChunkSize bounds each in-query. Values outside 1..MaxInValues fall
	// back to MaxInValues.
	ChunkSize int

	Log *logging.Logger
}

// New returns a Joiner with the largest permitted chunk size.
func New(store docstore.Store, log *logging.Logger) *Joiner {
	return &Joiner{Store: store, ChunkSize: docstore.MaxInValues, Log: logging.OrNop(log)}
}

// ResolveAssignedProjects returns one joined record per assignment of
// userKey whose project exists, in assignment order. Assignments whose
// project is missing, and documents that do not decode, are logged and
// skipped. Only a failed store query fails the whole call, with a
// *fetch.FetchError.
func (j *Joiner) ResolveAssignedProjects(ctx context.Context, userKey string) ([]types.AssignedProject, error) {
	log := logging.OrNop(j.Log).With("user", userKey)

	docs, err := j.Store.QueryWhere(ctx, AssignmentsCollection, studentField, docstore.OpEq, userKey)
	if err != nil {
		return nil, &fetch.FetchError{Target: AssignmentsCollection, Err: err}
	}
	if len(docs) == 0 {
		return []types.AssignedProject{}, nil
	}

	assignments := make([]types.Assignment, 0, len(docs))
	for _, doc := range docs {
		var a types.Assignment
		if err := doc.Decode(&a); err != nil {
			log.Warn("skipping malformed assignment", "assignment", doc.ID, "error", err)
			continue
		}
		if a.Status != "" && !a.Status.Valid() {
			log.Warn("skipping assignment with unknown status", "assignment", doc.ID, "status", a.Status)
			continue
		}
		a.AssignedProjectID = doc.ID
		assignments = append(assignments, a)
	}

	ids := distinctProjectIDs(assignments)
	chunks := Chunk(ids, j.chunkSize())
	slots, err := j.fetchProjects(ctx, chunks, log)
	if err != nil {
		return nil, err
	}

	chunkOf := make(map[string]int, len(ids))
	for i, chunk := range chunks {
		for _, id := range chunk {
			chunkOf[id] = i
		}
	}

	out := make([]types.AssignedProject, 0, len(assignments))
	for _, a := range assignments {
		i, ok := chunkOf[a.ProjectID]
		if !ok {
			log.Warn("assignment has no project id", "assignment", a.AssignedProjectID)
			continue
		}
		p, ok := slots[i][a.ProjectID]
		if !ok {
			log.Warn("assigned project not found", "assignment", a.AssignedProjectID, "project", a.ProjectID)
			continue
		}
		out = append(out, join(a, p))
	}
	log.Debug("resolved assigned projects", "assignments", len(assignments), "joined", len(out), "chunks", len(chunks))
	return out, nil
}

// fetchProjects issues one in-query per chunk concurrently. Each query
// writes only its own slot. Project documents that do not decode are left
// out of the slot, so their assignments are skipped like dangling ones.
func (j *Joiner) fetchProjects(ctx context.Context, chunks [][]string, log *logging.Logger) ([]map[string]types.Project, error) {
	slots := make([]map[string]types.Project, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			docs, err := j.Store.QueryWhereIn(gctx, ProjectsCollection, docstore.DocumentID, chunk)
			if err != nil {
				return &fetch.FetchError{Target: ProjectsCollection, Err: err}
			}
			found := make(map[string]types.Project, len(docs))
			for _, doc := range docs {
				var p types.Project
				if err := doc.Decode(&p); err != nil {
					log.Warn("skipping malformed project", "project", doc.ID, "error", err)
					continue
				}
				if p.Difficulty != "" && !p.Difficulty.Valid() {
					log.Warn("skipping project with unknown difficulty", "project", doc.ID, "difficulty", p.Difficulty)
					continue
				}
				p.ID = doc.ID
				found[doc.ID] = p
			}
			slots[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (j *Joiner) chunkSize() int {
	if j.ChunkSize < 1 || j.ChunkSize > docstore.MaxInValues {
		return docstore.MaxInValues
	}
	return j.ChunkSize
}

// Chunk splits ids into consecutive groups of at most n, preserving order.
func Chunk(ids []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	chunks := make([][]string, 0, (len(ids)+n-1)/n)
	for start := 0; start < len(ids); start += n {
		end := min(start+n, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func distinctProjectIDs(assignments []types.Assignment) []string {
	seen := make(map[string]bool, len(assignments))
	var ids []string
	for _, a := range assignments {
		if a.ProjectID == "" || seen[a.ProjectID] {
			continue
		}
		seen[a.ProjectID] = true
		ids = append(ids, a.ProjectID)
	}
	return ids
}

func join(a types.Assignment, p types.Project) types.AssignedProject {
	name := a.StudentName
	if name == "" {
		name = UnknownStudentName
	}
	return types.AssignedProject{
		AssignedProjectID: a.AssignedProjectID,
		ProjectID:         a.ProjectID,
		StudentUID:        a.StudentUID,
		StudentName:       name,
		TeacherUID:        a.TeacherUID,
		AssignedAt:        a.AssignedAt,
		Status:            a.Status,
		Title:             p.Title,
		Description:       p.Description,
		Difficulty:        p.Difficulty,
		Duration:          p.Duration,
		Tasks:             p.Tasks,
	}
}
