package store

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/ascent/pkg/core/grid"
	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

func sample(hash string, rooms int) *layout.Layout {
	l := &layout.Layout{
		ID:       layout.NewID(hash),
		Seed:     7,
		Bounds:   grid.Bounds{Length: 32, Width: 32},
		CellSize: 100,
		Links:    []layout.Link{},
	}
	for i := range rooms {
		c := grid.Cell{X: 4 + 6*i, Y: 4}
		l.Rooms = append(l.Rooms, layout.Room{
			ID:        i,
			Category:  rules.Normal,
			Center:    c,
			World:     layout.WorldPosition(c, 100),
			Length:    3,
			Width:     3,
			Box:       grid.BoxAround(c, 3, 3),
			Neighbors: []int{},
		})
	}
	return l
}

// storeSuite runs the behaviour every Store must share.
func storeSuite(t *testing.T, s Store) {
	ctx := context.Background()
	a, b := sample("a", 2), sample("b", 3)

	for _, l := range []*layout.Layout{a, b} {
		if err := s.Save(ctx, l); err != nil {
			t.Fatalf("Save(%s): %v", l.ID, err)
		}
	}

	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != a.ID || len(got.Rooms) != 2 || got.Rooms[1].Center != a.Rooms[1].Center {
		t.Errorf("Get returned %+v", got)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d summaries, want 2", len(list))
	}
	if list[0].ID > list[1].ID {
		t.Error("List should be ordered by ID")
	}
	if limited, _ := s.List(ctx, 1); len(limited) != 1 {
		t.Errorf("List(1) returned %d summaries", len(limited))
	}

	// Save replaces.
	a.Seed = 99
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, a.ID); got == nil || got.Seed != 99 {
		t.Error("Save should replace the stored copy")
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = s.Get(ctx, a.ID)
	if !stderrors.Is(err, ErrNotFound) || !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete: %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Errorf("Delete of missing layout: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(context.Background())
	storeSuite(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", "../etc/passwd", "not-a-uuid"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidID) {
			t.Errorf("Get(%q) = %v, want INVALID_ID", id, err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, errors.ErrCodeInvalidID) {
			t.Errorf("Delete(%q) = %v, want INVALID_ID", id, err)
		}
	}
	if err := s.Save(ctx, &layout.Layout{ID: "x"}); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("Save with bad ID = %v, want INVALID_ID", err)
	}
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sample("a", 1)); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d summaries, want 1", len(list))
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ASCENT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ASCENT_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "ascent_test")
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close(ctx)
	if _, err := s.coll.DeleteMany(ctx, map[string]any{}); err != nil {
		t.Fatal(err)
	}
	storeSuite(t, s)
}

func TestNewMongoStoreBadURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "http://localhost", "db")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
