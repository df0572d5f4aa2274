package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/core/rules"
)

// rulesCommand creates the rules command for inspecting rule sets.
func (c *CLI) rulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate room rules",
		Long: `Room rules set the category weights, which categories may neighbour each
other, the room size ranges and minimum room counts.

Start from the built-in rules with 'ascent rules show > rules.toml' and pass
the edited file to generate with --rules.`,
	}

	cmd.AddCommand(c.rulesShowCommand())
	cmd.AddCommand(c.rulesValidateCommand())

	return cmd
}

// rulesShowCommand prints a rule set as TOML.
func (c *CLI) rulesShowCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the built-in rules (or a rules file) as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rules.Default()
			if file != "" {
				var err error
				if r, err = rules.LoadFile(file); err != nil {
					return err
				}
			}
			return r.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "rules file to print after normalization")
	return cmd
}

// rulesValidateCommand checks rules files.
func (c *CLI) rulesValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [rules.toml...]",
		Short: "Validate rules files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				r, err := rules.LoadFile(path)
				if err != nil {
					printError("%s: %v", path, err)
					failed++
					continue
				}
				printSuccess("%s", path)
				printDetail("%d categories, largest room %d cells", len(r.Domain()), r.MaxRoomSize())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d rules files invalid", failed, len(args))
			}
			return nil
		},
	}
}
