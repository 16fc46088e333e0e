package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/wfformat"
)

func newDAGCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dag <trace.json>",
		Short: "Check a WfFormat trace and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := wfformat.Load(args[0])
			if err != nil {
				return err
			}
			dag, err := wfformat.Analyze(graph)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tasks:  %d (depth %d)\n", len(graph.Tasks), dag.Depth)
			fmt.Fprintf(out, "Roots:  %s\n", strings.Join(dag.Roots, ", "))
			fmt.Fprintf(out, "Leaves: %s\n", strings.Join(dag.Leaves, ", "))
			fmt.Fprintf(out, "Files:  %d, %s\n", len(graph.Files), humanize.IBytes(uint64(graph.TotalFileSize())))
			fmt.Fprintln(out, "Order:")
			for i, id := range dag.Order {
				fmt.Fprintf(out, "  %3d  %s\n", i+1, id)
			}
			return nil
		},
	}
}
