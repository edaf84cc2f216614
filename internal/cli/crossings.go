package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// crossingsCommand creates the crossings diagnostic command.
func (c *CLI) crossingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crossings [diagram.json|diagram.yaml]",
		Short: "Report connections whose routes intersect",
		Long: `Report every pair of connections whose current routes intersect.

The file is not modified. Pairs that only touch at a shared endpoint are not
counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			d, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}
			res := pipeline.NewRunner(nil, logger).Crossings(d)
			prog.done(fmt.Sprintf("Checked %d connections", d.ConnectionCount()))

			if res.CrossingFlows == 0 {
				printSuccess("No crossing connections")
				return nil
			}
			printWarning("%d crossing connection pairs", res.CrossingFlows)
			for _, p := range res.CrossingFlowPairs {
				printDetail("%s × %s", p.A, p.B)
			}
			return nil
		},
	}
}
