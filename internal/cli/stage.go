package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/manifest"
	"github.com/me/wfsynth/internal/stager"
)

func newStageCmd() *cobra.Command {
	var sf storageFlags
	var stagingDir string

	cmd := &cobra.Command{
		Use:   "stage <files.json>",
		Short: "Upload placeholder files listed in a files manifest",
		Long: "Create a zero-filled placeholder of the declared size for every entry of a " +
			"<name>_files.json manifest and upload it to <bucket>/<folder>/<file>. " +
			"The bucket is created if it does not exist.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fm, err := manifest.ReadFilesManifest(args[0])
			if err != nil {
				return err
			}
			sc, err := sf.resolve()
			if err != nil {
				return err
			}
			logger.Debug("storage", "backend", sc.Backend, "endpoint", sc.Endpoint, "bucket", sc.Bucket, "folder", sc.Folder)

			store, err := stager.NewStore(cmd.Context(), sc)
			if err != nil {
				return err
			}
			bs := &stager.BlobStager{
				Store:      store,
				Folder:     sc.Folder,
				StagingDir: stagingDir,
				Logger:     logger,
			}
			if err := bs.StageAll(cmd.Context(), fm.Files); err != nil {
				return err
			}

			var total int64
			for _, size := range fm.Files {
				total += size
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Staged %d files (%s) to %s/%s\n",
				len(fm.Files), humanize.IBytes(uint64(total)), sc.Bucket, sc.Folder)
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&stagingDir, "staging-dir", stager.DefaultStagingDir, "Local scratch directory; must not exist")
	return cmd
}
