// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AssignmentStatus tracks a student's progress on an assigned project.
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusInProgress AssignmentStatus = "in-progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusSubmitted  AssignmentStatus = "submitted"
)

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusSubmitted:
		return true
	}
	return false
}

// Difficulty grades a project.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Assignment links a student to a project. AssignedProjectID is the
// assignment document's own id; ProjectID is a foreign key into the
// projects collection with no enforced referential integrity.
type Assignment struct {
	AssignedProjectID string           `json:"assignedProjectId" yaml:"assignedProjectId"`
	ProjectID         string           `json:"projectId" yaml:"projectId"`
	StudentUID        string           `json:"studentUid" yaml:"studentUid"`
	StudentName       string           `json:"studentName,omitempty" yaml:"studentName,omitempty"`
	TeacherUID        string           `json:"teacherUid" yaml:"teacherUid"`
	AssignedAt        time.Time        `json:"assignedAt" yaml:"assignedAt"`
	Status            AssignmentStatus `json:"status" yaml:"status"`
}

// Task is one step of a project.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Project is a project document. Resources is optional; a project that
// never received an export has no resources field at all.
type Project struct {
	ID          string            `json:"-" yaml:"id,omitempty"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Difficulty  Difficulty        `json:"difficulty" yaml:"difficulty"`
	Duration    string            `json:"duration" yaml:"duration"`
	Tasks       []Task            `json:"tasks" yaml:"tasks"`
	Resources   *ProjectResources `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// AssignedProject is an Assignment merged with the Project it references.
// It is rebuilt from scratch on every join and never mutated in place.
type AssignedProject struct {
	AssignedProjectID string           `json:"assignedProjectId" yaml:"assignedProjectId"`
	ProjectID         string           `json:"projectId" yaml:"projectId"`
	StudentUID        string           `json:"studentUid" yaml:"studentUid"`
	StudentName       string           `json:"studentName" yaml:"studentName"`
	TeacherUID        string           `json:"teacherUid" yaml:"teacherUid"`
	AssignedAt        time.Time        `json:"assignedAt" yaml:"assignedAt"`
	Status            AssignmentStatus `json:"status" yaml:"status"`
	Title             string           `json:"title" yaml:"title"`
	Description       string           `json:"description" yaml:"description"`
	Difficulty        Difficulty       `json:"difficulty" yaml:"difficulty"`
	Duration          string           `json:"duration" yaml:"duration"`
	Tasks             []Task           `json:"tasks" yaml:"tasks"`
}
