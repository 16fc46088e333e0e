package cli

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/config"
	"github.com/me/wfsynth/internal/manifest"
	"github.com/me/wfsynth/internal/provider"
	"github.com/me/wfsynth/internal/translator"
	"github.com/me/wfsynth/internal/wfformat"
)

func newConvertCmd() *cobra.Command {
	var (
		configPath  string
		mode        string
		pythonPct   float64
		seed        uint64
		quick       int
		outDir      string
		filesFolder string
		inputSize   int64
		outputSize  int64
	)

	cmd := &cobra.Command{
		Use:   "convert <trace.json> <output-name>",
		Short: "Translate a WfFormat trace into FaaSr manifests",
		Long: "Load a WfFormat trace, bind every task to a compute provider and write " +
			"<outdir>/<output-name>/<output-name>.json plus the <output-name>_files.json size manifest.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracePath, name := args[0], args[1]
			flags := cmd.Flags()

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if flags.Changed("mode") {
				cfg.Mode = translator.Mode(mode)
				if cfg.Mode == translator.ModeMulti && configPath == "" {
					cfg.Providers = provider.DefaultMulti()
				}
			}
			if flags.Changed("python-percentage") {
				cfg.PythonPercentage = pythonPct
			}
			if flags.Changed("seed") {
				cfg.Seed = &seed
			}
			if flags.Changed("quick") {
				cfg.Quick = quick
			}
			if flags.Changed("files-folder") {
				cfg.FilesFolder = filesFolder
			}
			if flags.Changed("input-size") {
				cfg.FileSizes.Input = &inputSize
			}
			if flags.Changed("output-size") {
				cfg.FileSizes.Output = &outputSize
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			graph, err := wfformat.Load(tracePath)
			if err != nil {
				return err
			}
			logger.Info("loaded trace", "path", tracePath, "tasks", len(graph.Tasks), "files", len(graph.Files))

			if cfg.Quick > 0 {
				graph = wfformat.Chain(graph, cfg.Quick)
				logger.Info("reduced trace to chain", "tasks", len(graph.Tasks))
			}
			wfformat.ApplyUniformSizes(graph, wfformat.UniformSizes{
				Input:  cfg.FileSizes.Input,
				Output: cfg.FileSizes.Output,
			})

			reg, err := cfg.Registry()
			if err != nil {
				return err
			}

			var src *translator.Source
			if cfg.Seed != nil {
				src = translator.NewSource(*cfg.Seed)
			} else {
				var drawn uint64
				src, drawn = translator.NewRandomSource()
				logger.Info("drew random seed", "seed", drawn)
			}

			tg, err := translator.Translate(graph, reg, translator.Options{
				Mode:             cfg.Mode,
				PythonPercentage: cfg.PythonPercentage,
				Containers:       cfg.Containers,
				Source:           src,
				DataStore:        cfg.DataStore,
				FilesFolder:      cfg.FilesFolder,
				FunctionGitRepo:  cfg.FunctionGitRepo,
				Logger:           logger,
			})
			if err != nil {
				return err
			}

			dag, err := wfformat.Analyze(graph)
			if err != nil {
				return err
			}

			paths, err := manifest.Write(outDir, name, tg)
			if err != nil {
				return err
			}
			logger.Debug("wrote manifests", "dir", paths.Dir)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workflow manifest: %s\n", paths.Workflow)
			fmt.Fprintf(out, "Files manifest:    %s\n", paths.Files)
			fmt.Fprintf(out, "Actions: %d (depth %d), entry: %s\n", len(tg.Actions), dag.Depth, tg.Entry.Name)

			counts := tg.ActionsByProvider()
			providers := make([]string, 0, len(counts))
			for p := range counts {
				providers = append(providers, p)
			}
			slices.Sort(providers)
			for _, p := range providers {
				fmt.Fprintf(out, "  %-24s %d\n", p, counts[p])
			}
			fmt.Fprintf(out, "Data: %d files, %s\n", len(tg.Files), humanize.IBytes(uint64(graph.TotalFileSize())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	cmd.Flags().StringVar(&mode, "mode", string(translator.ModeSingle), "Provider binding mode (single, multi)")
	cmd.Flags().Float64Var(&pythonPct, "python-percentage", 0, "Percent of actions assigned Python (0-100)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for reproducible output")
	cmd.Flags().IntVar(&quick, "quick", 0, "Reduce the trace to a chain of n tasks (0 = off)")
	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "Directory the output folder is created in")
	cmd.Flags().StringVar(&filesFolder, "files-folder", config.DefaultFilesFolder, "Bucket folder holding the workflow's files")
	cmd.Flags().Int64Var(&inputSize, "input-size", 0, "Uniform input size in bytes (0 removes all inputs)")
	cmd.Flags().Int64Var(&outputSize, "output-size", 0, "Uniform output size in bytes")
	return cmd
}
