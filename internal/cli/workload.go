package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/stager"
	"github.com/me/wfsynth/internal/workload"
)

func newWorkloadCmd() *cobra.Command {
	var sf storageFlags
	var action, workDir string

	cmd := &cobra.Command{
		Use:   "workload <args.json>",
		Short: "Run the synthetic function locally",
		Long: "Run one synthetic action: download its inputs, sleep for its execution time " +
			"and upload an output file of its declared size. <args.json> holds the action's " +
			"Arguments object, or a workflow manifest when --action is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wargs, err := workload.LoadArgs(args[0], action)
			if err != nil {
				return err
			}
			sc, err := sf.resolve()
			if err != nil {
				return err
			}
			store, err := stager.NewStore(cmd.Context(), sc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := &workload.Runner{
				Store:   store,
				WorkDir: workDir,
				Log:     func(line string) { fmt.Fprintln(out, line) },
			}
			res, err := r.Run(cmd.Context(), wargs)
			if err != nil {
				return err
			}
			logger.Info("workload finished", "action", wargs.ActionID, "output", res.OutputKey)
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&action, "action", "", "Action to run when <args.json> is a workflow manifest")
	cmd.Flags().StringVar(&workDir, "workdir", ".", "Directory for downloaded inputs and the output file")
	return cmd
}
