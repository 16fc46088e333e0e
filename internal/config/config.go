// Package config holds the translator and object-storage configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/me/wfsynth/internal/provider"
	"github.com/me/wfsynth/internal/translator"
	"github.com/me/wfsynth/pkg/model"
)

// DefaultFilesFolder is the bucket folder synthetic files are staged under.
const DefaultFilesFolder = "synthetic_files"

// Config holds configuration for a translation run.
type Config struct {
	Mode             translator.Mode `yaml:"mode"`
	PythonPercentage float64         `yaml:"python_percentage"`

	// Seed makes translation reproducible. Nil draws a fresh seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	FilesFolder string                  `yaml:"files_folder"`
	DataStore   model.DataStore         `yaml:"data_store"`
	Providers   []model.ComputeProvider `yaml:"providers"`

	// Containers maps provider name → language → image.
	Containers      translator.ContainerTable `yaml:"containers,omitempty"`
	FunctionGitRepo map[string]string         `yaml:"function_git_repo"`

	FileSizes FileSizes `yaml:"file_sizes,omitempty"`

	// Quick reduces the trace to a chain of this many tasks. 0 disables it.
	Quick int `yaml:"quick,omitempty"`
}

// FileSizes are optional uniform file sizes in bytes.
type FileSizes struct {
	Input  *int64 `yaml:"input,omitempty"`
	Output *int64 `yaml:"output,omitempty"`
}

// DefaultDataStore is the public MinIO play server.
func DefaultDataStore() model.DataStore {
	return model.DataStore{
		Name:     "My_Minio_Bucket",
		Endpoint: "https://play.min.io",
		Bucket:   "faasr",
		Region:   "us-east-1",
		Writable: "TRUE",
	}
}

// Default returns a single-provider GitHub Actions configuration.
func Default() Config {
	return Config{
		Mode:            translator.ModeSingle,
		FilesFolder:     DefaultFilesFolder,
		DataStore:       DefaultDataStore(),
		Providers:       []model.ComputeProvider{provider.DefaultGitHub()},
		Containers:      translator.ContainerTable{},
		FunctionGitRepo: translator.DefaultFunctionGitRepo(),
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of Default and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the translator relies on.
func (c Config) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("config: unknown mode %q (want single or multi)", c.Mode)
	}
	if c.PythonPercentage < 0 || c.PythonPercentage > 100 {
		return fmt.Errorf("config: python_percentage %g out of range [0, 100]", c.PythonPercentage)
	}
	if _, err := provider.New(c.Providers...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Mode == translator.ModeSingle && len(c.Providers) != 1 {
		return fmt.Errorf("config: single mode needs exactly one provider, got %d", len(c.Providers))
	}
	names := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		names[p.Name] = true
	}
	for name, byLang := range c.Containers {
		if !names[name] {
			return fmt.Errorf("config: containers: unknown provider %q", name)
		}
		for lang := range byLang {
			if lang != model.LanguageR && lang != model.LanguagePython {
				return fmt.Errorf("config: containers: provider %q: unknown language %q", name, lang)
			}
		}
	}
	if c.DataStore.Name == "" {
		return fmt.Errorf("config: data_store.name is required")
	}
	if c.Quick < 0 {
		return fmt.Errorf("config: quick must not be negative")
	}
	for label, size := range map[string]*int64{"input": c.FileSizes.Input, "output": c.FileSizes.Output} {
		if size != nil && *size < 0 {
			return fmt.Errorf("config: file_sizes.%s must not be negative", label)
		}
	}
	return nil
}

// Registry builds the provider registry for c.
func (c Config) Registry() (*provider.Registry, error) {
	return provider.New(c.Providers...)
}
