package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zoobzio/veil"
)

func newMaskersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "maskers",
		Aliases: []string{"ls"},
		Short:   "List registered mask types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tSOURCE")
			for _, mt := range a.cfg.registry().Types() {
				fmt.Fprintf(w, "%s\t%s\n", mt, a.source(mt))
			}
			return w.Flush()
		},
	}
}

func (a *app) source(mt veil.MaskType) string {
	for _, m := range a.cfg.Maskers {
		if veil.MaskType(m.Name) == mt {
			return fmt.Sprintf("config (prefix %d, suffix %d)", m.Prefix, m.Suffix)
		}
	}
	return "builtin"
}
