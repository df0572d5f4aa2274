package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the local layout cache",
		Long: `Layouts and rendered artifacts are cached on disk so repeated runs with the
same options are instant. The directory honours XDG_CACHE_HOME.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the number and size of cached entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withFileCache(func(fc *cache.FileCache) error {
					u, err := fc.Usage()
					if err != nil {
						return fmt.Errorf("read cache: %w", err)
					}
					printKeyValue("Directory", fc.Dir())
					printKeyValue("Entries", fmt.Sprint(u.Entries))
					printKeyValue("Size", humanBytes(u.Bytes))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withFileCache(func(fc *cache.FileCache) error {
					n, err := fc.Prune()
					if err != nil {
						return fmt.Errorf("prune cache: %w", err)
					}
					printSuccess("Pruned %d expired %s", n, plural(n, "entry", "entries"))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached layout and artifact",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withFileCache(func(fc *cache.FileCache) error {
					n, err := fc.Clear()
					if err != nil {
						return fmt.Errorf("clear cache: %w", err)
					}
					printSuccess("Cleared %d %s", n, plural(n, "entry", "entries"))
					printDetail("Directory: %s", fc.Dir())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// withFileCache opens the CLI cache directory and passes it to fn.
func withFileCache(fn func(*cache.FileCache) error) error {
	dir, err := cacheDir()
	if err != nil {
		return fmt.Errorf("locate cache: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer fc.Close()
	return fn(fc)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

