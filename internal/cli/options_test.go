package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/pipeline"
)

// resolveFlags parses args into a fresh command and resolves its options.
func resolveFlags(t *testing.T, args ...string) pipeline.Options {
	t.Helper()
	var flags optionFlags
	cmd := &cobra.Command{Use: "test"}
	bindOptionFlags(cmd, &flags)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	opts, err := flags.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return opts
}

func TestResolveExtraChance(t *testing.T) {
	tests := []struct {
		args []string
		want float64
	}{
		{nil, pipeline.DefaultExtraChance},
		{[]string{"--extra-chance", "0.4"}, 0.4},
		{[]string{"--extra-chance", "0"}, -1},
		{[]string{"--no-extras"}, -1},
	}
	for _, tt := range tests {
		if got := resolveFlags(t, tt.args...).ExtraChance; got != tt.want {
			t.Errorf("%v: ExtraChance = %g, want %g", tt.args, got, tt.want)
		}
	}
}

func TestResolveZeroExtraChanceKeepsNoExtras(t *testing.T) {
	opts := resolveFlags(t, "--extra-chance", "0", "--seed", "3")
	res, err := pipeline.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Graph.Extra) != 0 {
		t.Errorf("extra links = %d, want 0", len(res.Graph.Extra))
	}
}
