package cli

import (
	"github.com/spf13/cobra"

	"github.com/me/wfsynth/internal/config"
)

// storageFlags are the object-storage flags shared by stage and workload.
type storageFlags struct {
	configPath string
	overrides  config.StorageConfig
}

func (f *storageFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Config file (YAML) supplying data store defaults")
	fl.StringVar(&f.overrides.Backend, "backend", "", "Storage backend: s3, minio or dir (or S3_BACKEND env)")
	fl.StringVar(&f.overrides.Endpoint, "endpoint", "", "Storage endpoint URL, or root directory for dir (or S3_ENDPOINT env)")
	fl.StringVar(&f.overrides.Bucket, "bucket", "", "Bucket name (or S3_BUCKET env)")
	fl.StringVar(&f.overrides.Region, "region", "", "Bucket region (or S3_REGION env)")
	fl.StringVar(&f.overrides.AccessKey, "access-key", "", "Access key (or S3_ACCESS_KEY env)")
	fl.StringVar(&f.overrides.SecretKey, "secret-key", "", "Secret key (or S3_SECRET_KEY env)")
	fl.StringVar(&f.overrides.Folder, "folder", "", "Folder objects are stored under (or S3_FOLDER env)")
}

// resolve layers flags over the environment over the config's data store.
func (f *storageFlags) resolve() (config.StorageConfig, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.StorageConfig{}, err
		}
	}
	sc := config.LoadStorageEnv(cfg.DataStore, cfg.FilesFolder).Override(f.overrides)
	return sc, sc.Validate()
}
