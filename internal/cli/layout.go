package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// layoutFlags are shared by the layout and subset commands.
type layoutFlags struct {
	output    string
	noCache   bool
	happyPath bool
	opts      pipeline.Options
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: overwrite the input)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the solver cache")
	cmd.Flags().StringVar(&f.opts.Direction, "direction", "", "flow direction: right (default), down, left, up")
	cmd.Flags().Float64Var(&f.opts.NodeSpacing, "node-spacing", 0, "gap between nodes of one layer (default from config)")
	cmd.Flags().Float64Var(&f.opts.LayerSpacing, "layer-spacing", 0, "gap between layers (default from config)")
	cmd.Flags().BoolVar(&f.happyPath, "happy-path", true, "keep the main flow on one straight row")
	cmd.Flags().StringVar(&f.opts.Solver, "solver", pipeline.DefaultSolver, "layout solver: layered, graphviz")
	cmd.Flags().StringVar(&f.opts.ConfigPath, "config", "", "layout config file (TOML)")
}

// layoutCommand creates the layout command for full and scoped layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [diagram.json|diagram.yaml]",
		Short: "Lay out a whole diagram or one container",
		Long: `Lay out a process diagram.

Every node gets a position and every connection an orthogonal route. With
--scope only the named pool or sub-process is rearranged; its size and
position are updated and the connections crossing its border are rerouted.

Solver results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.opts.ScopeID, "scope", "", "lay out only this pool or sub-process")

	return cmd
}

// subsetCommand creates the subset command for laying out a node selection.
func (c *CLI) subsetCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "subset [diagram.json|diagram.yaml] --nodes a,b,c",
		Short: "Lay out a selection of nodes in place",
		Long: `Lay out a selection of nodes.

The selected nodes are arranged inside their current bounding box. The rest
of the diagram keeps its geometry; only connections touching the selection
are rerouted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(flags.opts.SubsetIDs) == 0 {
				return fmt.Errorf("--nodes is required")
			}
			return c.runLayout(cmd.Context(), args[0], flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&flags.opts.SubsetIDs, "nodes", nil, "comma-separated node IDs to lay out")
	cmd.Flags().BoolVar(&flags.opts.PinDecorations, "pin-decorations", false, "keep linked annotations and data in place")

	return cmd
}

// runLayout lays out the input file and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := flags.opts
	opts.SkipHappyPath = !flags.happyPath
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.String()))
	spinner.Start()

	res, err := runner.RunFile(ctx, input, flags.output, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = input
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.Nodes, res.Stats.Connections, res.Layout.Stats.Moved)
	if n := res.Layout.CrossingFlows; n > 0 {
		printWarning("%d connection pairs cross", n)
		printNextStep("Inspect", appName+" crossings "+outputPath)
	}
	return nil
}
