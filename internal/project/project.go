package project

import (
	"errors"
)

// Common errors.
var (
	ErrProjectNotFound = errors.New("project does not exist, invalid id")
	ErrProjectExists   = errors.New("project already exists")
	ErrEmptyProjectID  = errors.New("project ID cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
)

// Project is a titled, ordered list of tasks.
type Project struct {
	// ID is caller-supplied and expected, but not required, to be unique.
	ID string `json:"id"`

	// Title is the mutable display title.
	Title string `json:"title"`

	// Tasks are task titles in insertion order. Never nil.
	Tasks []string `json:"tasks"`
}

// New returns a project with an empty task list.
func New(id, title string) (*Project, error) {
	p := &Project{ID: id, Title: title, Tasks: []string{}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the project has the required fields.
func (p *Project) Validate() error {
	if p.ID == "" {
		return ErrEmptyProjectID
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// clone returns a deep copy so callers cannot alias store state.
func (p *Project) clone() Project {
	tasks := make([]string, len(p.Tasks))
	copy(tasks, p.Tasks)
	return Project{ID: p.ID, Title: p.Title, Tasks: tasks}
}
