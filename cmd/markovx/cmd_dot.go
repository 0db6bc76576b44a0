package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/markovx/internal/production"
)

var (
	dotChain      string
	dotChainsFile string
	dotJSON       bool
)

// dotCmd renders a chain for Graphviz
var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Print a chain as Graphviz DOT source",
	RunE:  runDot,
}

func init() {
	addChainFlags(dotCmd, &dotChain, &dotChainsFile)
	dotCmd.Flags().BoolVar(&dotJSON, "json", false, "Print the transition rows as JSON instead")
}

func runDot(cmd *cobra.Command, args []string) error {
	chain, err := resolveChain(cmd, dotChain, dotChainsFile)
	if err != nil {
		return err
	}

	v := &production.DefaultVisualizer{}
	if dotJSON {
		data, err := v.ExportJSON(chain)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(chain, chain.Initial()))
	return nil
}
