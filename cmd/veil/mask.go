package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/veil"
)

func newMaskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mask <type> [value...]",
		Short: "Mask values with a registered masker",
		Long: `Mask each value with the named masker. When no values are given,
each line of standard input is masked instead.`,
		Example: `  veil mask email alice@example.com
  cat phones.txt | veil mask phone`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMask(cmd, veil.MaskType(args[0]), args[1:])
		},
	}
}

func (a *app) runMask(cmd *cobra.Command, mt veil.MaskType, values []string) error {
	m, err := a.cfg.registry().Lookup(mt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(values) > 0 {
		for _, value := range values {
			fmt.Fprintln(out, m.Mask(value))
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		fmt.Fprintln(out, m.Mask(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return wrap(ErrReadInput, err)
	}
	return nil
}
