package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/api"
	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/pipeline"
	"github.com/matzehuels/ascent/pkg/store"
)

// Environment variables read by serve when the matching flag is not set.
const (
	envMongoURI = "ASCENT_MONGO_URI"
	envRedisURL = "ASCENT_REDIS_URL"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr        string
	storeDir    string
	mongoURI    string
	mongoDB     string
	redisURL    string
	cachePrefix string
	noCache     bool
	timeout     time.Duration
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: appName,
		timeout: 30 * time.Second,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout generation over HTTP",
		Long: `Serve the layout API.

Layouts are stored on disk unless a MongoDB URI is given (--mongo-uri or
ASCENT_MONGO_URI). Generated layouts and artifacts are cached on disk, or in
Redis with --redis-url (or ASCENT_REDIS_URL).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.mongoURI == "" {
				opts.mongoURI = os.Getenv(envMongoURI)
			}
			if opts.redisURL == "" {
				opts.redisURL = os.Getenv(envRedisURL)
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "layout store directory (default: ~/.config/ascent/layouts)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for the layout store")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the cache")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", "", "namespace for cache keys")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request generation timeout")

	return cmd
}

// runServe wires the store, cache and runner and serves until ctx is done.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	ch, err := c.openCache(ctx, opts)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if opts.cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.cachePrefix)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	defer runner.Close()

	srv := api.New(runner, st, c.Logger)
	srv.Timeout = opts.timeout

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	}
	return store.NewFileStore(opts.storeDir)
}

func (c *CLI) openCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	return newCache(false)
}
