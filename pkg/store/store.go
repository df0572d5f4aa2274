// Package store persists generated layouts.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per layout, for the CLI
//   - [MongoStore]: a MongoDB collection, for the API server
//
// Layouts are keyed by their ID, which is derived from the generation
// options. Saving the same layout twice overwrites the first copy.
//
// # Usage
//
//	s, err := store.NewFileStore("") // ~/.config/ascent/layouts
//	if err != nil {
//	    return err
//	}
//	if err := s.Save(ctx, l); err != nil {
//	    return err
//	}
//	got, err := s.Get(ctx, l.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // never saved or deleted
//	}
package store

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

// ErrNotFound is returned when no layout has the requested ID.
var ErrNotFound = stderrors.New("layout not found")

// Store persists layouts by ID.
type Store interface {
	// Save stores l under l.ID, replacing any previous copy.
	Save(ctx context.Context, l *layout.Layout) error

	// Get retrieves a layout. A missing layout yields an error wrapping
	// ErrNotFound with code NOT_FOUND.
	Get(ctx context.Context, id string) (*layout.Layout, error)

	// List returns summaries ordered by ID. A limit of zero or less
	// returns every layout.
	List(ctx context.Context, limit int) ([]layout.Summary, error)

	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "layout %s", id)
}
