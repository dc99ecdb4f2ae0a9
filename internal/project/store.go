package project

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Manager provides the project operations served over HTTP.
type Manager interface {
	// List returns all projects in insertion order.
	List(ctx context.Context) ([]Project, error)

	// Create appends a new project and returns the updated list.
	Create(ctx context.Context, id, title string) ([]Project, error)

	// AddTask appends a task to the first project with the given ID.
	AddTask(ctx context.Context, projectID, title string) ([]Project, error)

	// Rename overwrites the title of the first project with the given ID.
	Rename(ctx context.Context, projectID, title string) ([]Project, error)

	// Delete removes the first project with the given ID.
	Delete(ctx context.Context, projectID string) error

	// Exists reports whether a project with the given ID exists.
	Exists(ctx context.Context, projectID string) bool
}

// Op names a store mutation.
type Op string

// Mutation kinds reported to observers.
const (
	OpCreate  Op = "project.created"
	OpAddTask Op = "task.added"
	OpRename  Op = "project.renamed"
	OpDelete  Op = "project.deleted"
)

// Change describes a successful mutation.
type Change struct {
	Op        Op
	ProjectID string
	// Title is the project title for create and rename, the task title for
	// add-task, and the removed project's title for delete.
	Title string
}

// Stats summarizes store contents.
type Stats struct {
	Projects int
	Tasks    int
}

// Observer is notified after every successful mutation, outside the store lock.
type Observer interface {
	Observe(ctx context.Context, change Change, stats Stats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, change Change, stats Stats)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, change Change, stats Stats) {
	f(ctx, change, stats)
}

// Option configures a Store.
type Option func(*Store)

// WithRejectDuplicates makes Create fail with ErrProjectExists when the ID is taken.
func WithRejectDuplicates(reject bool) Option {
	return func(s *Store) {
		s.rejectDuplicates = reject
	}
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// Store is an ordered in-memory project list. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	projects []*Project

	rejectDuplicates bool
	observers        []Observer
}

var _ Manager = (*Store)(nil)

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{projects: []*Project{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all projects.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked(), nil
}

// Create appends {id, title, tasks: []}.
func (s *Store) Create(ctx context.Context, id, title string) ([]Project, error) {
	p, err := New(id, title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.rejectDuplicates && s.indexLocked(id) >= 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, id)
	}
	s.projects = append(s.projects, p)
	list, stats := s.snapshotLocked(), s.statsLocked()
	s.mu.Unlock()

	s.notify(ctx, Change{Op: OpCreate, ProjectID: id, Title: title}, stats)
	return list, nil
}

// AddTask appends title to the first project matching projectID.
func (s *Store) AddTask(ctx context.Context, projectID, title string) ([]Project, error) {
	return s.mutate(ctx, OpAddTask, projectID, title, func(p *Project) {
		p.Tasks = append(p.Tasks, title)
	})
}

// Rename sets the title of the first project matching projectID.
func (s *Store) Rename(ctx context.Context, projectID, title string) ([]Project, error) {
	return s.mutate(ctx, OpRename, projectID, title, func(p *Project) {
		p.Title = title
	})
}

// Delete removes the first project matching projectID.
func (s *Store) Delete(ctx context.Context, projectID string) error {
	s.mu.Lock()
	i := s.indexLocked(projectID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	removed := s.projects[i]
	s.projects = slices.Delete(s.projects, i, i+1)
	stats := s.statsLocked()
	s.mu.Unlock()

	s.notify(ctx, Change{Op: OpDelete, ProjectID: projectID, Title: removed.Title}, stats)
	return nil
}

// Exists reports whether any project has the given ID.
func (s *Store) Exists(ctx context.Context, projectID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.indexLocked(projectID) >= 0
}

// Stats returns project and task counts.
func (s *Store) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.statsLocked()
}

// mutate applies fn to the first project matching projectID.
// Existence is checked before the title, matching the HTTP pipeline order.
func (s *Store) mutate(ctx context.Context, op Op, projectID, title string, fn func(*Project)) ([]Project, error) {
	s.mu.Lock()
	i := s.indexLocked(projectID)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if title == "" {
		s.mu.Unlock()
		return nil, ErrEmptyTitle
	}
	fn(s.projects[i])
	list, stats := s.snapshotLocked(), s.statsLocked()
	s.mu.Unlock()

	s.notify(ctx, Change{Op: op, ProjectID: projectID, Title: title}, stats)
	return list, nil
}

// indexLocked returns the index of the first project with id, or -1.
func (s *Store) indexLocked(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []Project {
	list := make([]Project, len(s.projects))
	for i, p := range s.projects {
		list[i] = p.clone()
	}
	return list
}

func (s *Store) statsLocked() Stats {
	stats := Stats{Projects: len(s.projects)}
	for _, p := range s.projects {
		stats.Tasks += len(p.Tasks)
	}
	return stats
}

func (s *Store) notify(ctx context.Context, change Change, stats Stats) {
	for _, o := range s.observers {
		o.Observe(ctx, change, stats)
	}
}
