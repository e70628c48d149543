package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/apilevel/internal/app"
)

type lookupDef struct {
	kind  app.Kind
	use   string
	short string
	args  cobra.PositionalArgs
}

var lookupDefs = []lookupDef{
	{app.KindClass, "class <class>", "Print when a class was added, deprecated and removed", cobra.ExactArgs(1)},
	{app.KindField, "field <class> <field>", "Print the levels of a field, searching inherited classes and interfaces", cobra.ExactArgs(2)},
	{app.KindCall, "call <class> <method> [signature]", "Print the levels of a method, e.g. call android/view/View setElevation (F)V", cobra.RangeArgs(2, 3)},
	{app.KindPackage, "package <class>", "Report whether the package of a class exists on the platform", cobra.ExactArgs(1)},
	{app.KindCast, "cast <source> <target>", "Print the first level at which source can be cast to target", cobra.ExactArgs(2)},
	{app.KindSuper, "super <class>", "Print the current superclass of a class", cobra.ExactArgs(1)},
}

func (c *CLI) newLookupCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(lookupDefs))
	for _, def := range lookupDefs {
		cmds = append(cmds, c.newLookupCmd(def))
	}
	return cmds
}

func (c *CLI) newLookupCmd(def lookupDef) *cobra.Command {
	return &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  def.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := app.NewQuery(def.kind, args...)
			if err != nil {
				return err
			}
			answers, err := c.app.Query(cmd.Context(), c.options(), q)
			if err != nil {
				return err
			}
			p := c.printer(cmd.OutOrStdout())
			for _, a := range answers {
				if err := p.answer(a); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
