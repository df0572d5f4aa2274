package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/pipeline"
	"github.com/matzehuels/ascent/pkg/store"
)

func TestGenerateSave(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "generate", "--seed", "21", "--save", "--store-dir", dir, "-q"); err != nil {
		t.Fatalf("generate --save: %v", err)
	}

	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	list, err := st.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Seed != 21 {
		t.Fatalf("store holds %+v, want one layout with seed 21", list)
	}
}

func TestOptionFlagsResolve(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, opts pipeline.Options)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, opts pipeline.Options) {
				if opts.Seed != pipeline.DefaultSeed || opts.Density != pipeline.DefaultDensity {
					t.Errorf("seed %d density %d", opts.Seed, opts.Density)
				}
			},
		},
		{
			name: "no extras",
			args: []string{"--no-extras", "--extra-chance", "0.9"},
			check: func(t *testing.T, opts pipeline.Options) {
				if opts.ExtraChance >= 0 {
					t.Errorf("ExtraChance = %v, want negative", opts.ExtraChance)
				}
			},
		},
		{
			name: "routing flags",
			args: []string{"--workers", "4", "--sqrt-diagonal", "--rules", "custom.toml"},
			check: func(t *testing.T, opts pipeline.Options) {
				if opts.Workers != 4 || !opts.SqrtDiagonalCost || opts.RulesFile != "custom.toml" {
					t.Errorf("workers %d sqrt %v rules %q", opts.Workers, opts.SqrtDiagonalCost, opts.RulesFile)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			var flags optionFlags
			bindOptionFlags(cmd, &flags)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			opts, err := flags.resolve(cmd)
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, opts)
		})
	}
}
