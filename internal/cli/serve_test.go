package cli

import (
	"context"
	"io"
	"testing"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/store"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := openStore(ctx, serveOpts{storeDir: t.TempDir()})
	if err != nil {
		t.Fatalf("openStore(file): %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("openStore(file) = %T, want *store.FileStore", st)
	}

	_, err = openStore(ctx, serveOpts{mongoURI: "http://localhost:27017", mongoDB: appName})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("openStore(bad mongo uri) error = %v, want INVALID_INPUT", err)
	}
}

func TestOpenCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()
	c := New(io.Discard, LogInfo)

	tests := []struct {
		name    string
		opts    serveOpts
		want    string
		wantErr bool
	}{
		{"disabled", serveOpts{noCache: true}, "null", false},
		{"file by default", serveOpts{}, "file", false},
		{"bad redis url", serveOpts{redisURL: "not a url"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := c.openCache(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("openCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer ch.Close()
			var got string
			switch ch.(type) {
			case *cache.NullCache:
				got = "null"
			case *cache.FileCache:
				got = "file"
			}
			if got != tt.want {
				t.Errorf("openCache() = %T, want %s cache", ch, tt.want)
			}
		})
	}
}
