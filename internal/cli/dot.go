package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/mfsm/internal/production"
)

func newDotCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "dot",
		Short:   "Render the topology as Graphviz DOT",
		Example: "  mfsm dot -c topology.yaml | dot -Tpng > topology.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, topo, err := opts.loadTopology(nil)
			if err != nil {
				return err
			}
			v := &production.DefaultVisualizer{}
			if asJSON {
				data, err := v.ExportJSON(topo)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(topo))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON summary instead of DOT")
	return cmd
}
