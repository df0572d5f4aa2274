package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/pipeline"
)

// optionFlags binds generation options to command flags. A TOML config
// file, when given, is loaded first; flags set on the command line win.
type optionFlags struct {
	opts       pipeline.Options
	configFile string
	noExtras   bool
}

func bindOptionFlags(cmd *cobra.Command, f *optionFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "TOML options file")
	fs.StringVar(&f.opts.RulesFile, "rules", "", "TOML rules file (default: built-in rules)")
	fs.Uint64VarP(&f.opts.Seed, "seed", "s", pipeline.DefaultSeed, "random seed (0 selects the default seed)")
	fs.IntVar(&f.opts.Width, "width", pipeline.DefaultWidth, "level extent along Y in cells")
	fs.IntVar(&f.opts.Length, "length", pipeline.DefaultLength, "level extent along X in cells")
	fs.Float64Var(&f.opts.CellSize, "cell-size", pipeline.DefaultCellSize, "world size of one grid cell")
	fs.IntVarP(&f.opts.Density, "density", "d", pipeline.DefaultDensity, "number of anchor points")
	fs.IntVarP(&f.opts.Players, "players", "p", pipeline.DefaultPlayers, "number of spawn rooms")
	fs.Float64Var(&f.opts.ExtraChance, "extra-chance", pipeline.DefaultExtraChance, "probability of keeping a non-tree link (0 keeps none)")
	fs.BoolVar(&f.noExtras, "no-extras", false, "keep spanning-tree links only")
	fs.IntVar(&f.opts.Workers, "workers", pipeline.DefaultWorkers, "corridor routing workers")
	fs.BoolVar(&f.opts.SqrtDiagonalCost, "sqrt-diagonal", false, "use the legacy square-root diagonal jump cost")
}

// resolve returns the options for a run.
func (f *optionFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	opts := f.opts
	if f.configFile != "" {
		base, err := pipeline.LoadOptionsFile(f.configFile)
		if err != nil {
			return pipeline.Options{}, err
		}
		overrides := map[string]func(){
			"rules":         func() { base.RulesFile = f.opts.RulesFile },
			"seed":          func() { base.Seed = f.opts.Seed },
			"width":         func() { base.Width = f.opts.Width },
			"length":        func() { base.Length = f.opts.Length },
			"cell-size":     func() { base.CellSize = f.opts.CellSize },
			"density":       func() { base.Density = f.opts.Density },
			"players":       func() { base.Players = f.opts.Players },
			"extra-chance":  func() { base.ExtraChance = f.opts.ExtraChance },
			"workers":       func() { base.Workers = f.opts.Workers },
			"sqrt-diagonal": func() { base.SqrtDiagonalCost = f.opts.SqrtDiagonalCost },
		}
		for name, apply := range overrides {
			if cmd.Flags().Changed(name) {
				apply()
			}
		}
		opts = base
	}
	// A zero chance means "use the default" to the pipeline.
	if f.noExtras || (cmd.Flags().Changed("extra-chance") && f.opts.ExtraChance == 0) {
		opts.ExtraChance = -1
	}
	return opts, nil
}
