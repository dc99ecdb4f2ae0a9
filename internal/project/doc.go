// Package project provides the in-memory project store for projectd.
//
// Store Model:
//
// The store is an ordered list of projects. Insertion order is list order and
// there is no secondary index:
//   - Lookups scan linearly and resolve to the first project whose ID matches
//   - Duplicate IDs are accepted unless WithRejectDuplicates is set
//   - Every mutating operation returns the full updated list
//
// Operations:
//   - List: all projects
//   - Create: append a project with an empty task list
//   - AddTask: append a task title to a project
//   - Rename: overwrite a project's title
//   - Delete: remove the first matching project
//
// Failed operations (ErrProjectNotFound, ErrEmptyProjectID, ErrEmptyTitle,
// ErrProjectExists) leave the store unchanged.
package project
