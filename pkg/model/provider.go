package model

// ProviderKind identifies a FaaS compute provider. The set is closed.
type ProviderKind string

const (
	ProviderGitHubActions ProviderKind = "GitHubActions"
	ProviderLambda        ProviderKind = "Lambda"
	ProviderOpenWhisk     ProviderKind = "OpenWhisk"
	ProviderGoogleCloud   ProviderKind = "GoogleCloud"
	ProviderSLURM         ProviderKind = "SLURM"
)

// LambdaMaxRuntime is the longest task runtime, in seconds, that may be
// scheduled on AWS Lambda.
const LambdaMaxRuntime = 600.0

// String returns the FaaSType string used in FaaSr manifests.
func (k ProviderKind) String() string {
	return string(k)
}

// IsValid returns true if k is one of the known provider kinds.
func (k ProviderKind) IsValid() bool {
	switch k {
	case ProviderGitHubActions, ProviderLambda, ProviderOpenWhisk, ProviderGoogleCloud, ProviderSLURM:
		return true
	}
	return false
}

// HasPredicate reports whether providers of this kind can reject a task.
func (k ProviderKind) HasPredicate() bool {
	return k == ProviderLambda
}

// Accepts reports whether a task with the given runtime in seconds may run on
// a provider of this kind.
func (k ProviderKind) Accepts(runtime float64) bool {
	switch k {
	case ProviderLambda:
		return runtime <= LambdaMaxRuntime
	default:
		return true
	}
}

// ComputeProvider is a named FaaS compute target. Exactly one of the
// per-kind payloads matching Kind is expected to be set; a nil payload
// serializes with empty fields.
type ComputeProvider struct {
	Name string       `json:"name" yaml:"name"`
	Kind ProviderKind `json:"kind" yaml:"kind"`

	GitHub      *GitHubSpec      `json:"github,omitempty" yaml:"github,omitempty"`
	Lambda      *LambdaSpec      `json:"lambda,omitempty" yaml:"lambda,omitempty"`
	OpenWhisk   *OpenWhiskSpec   `json:"openwhisk,omitempty" yaml:"openwhisk,omitempty"`
	GoogleCloud *GoogleCloudSpec `json:"gcp,omitempty" yaml:"gcp,omitempty"`
	SLURM       *SLURMSpec       `json:"slurm,omitempty" yaml:"slurm,omitempty"`
}

// Accepts reports whether the provider may run a task with the given runtime.
func (p ComputeProvider) Accepts(runtime float64) bool {
	return p.Kind.Accepts(runtime)
}

// GitHubSpec holds GitHub Actions connection details.
type GitHubSpec struct {
	UserName       string `json:"user_name" yaml:"user_name"`
	ActionRepoName string `json:"action_repo_name" yaml:"action_repo_name"`
	Branch         string `json:"branch" yaml:"branch"`
}

// LambdaSpec holds AWS Lambda settings.
type LambdaSpec struct {
	Region           string `json:"region" yaml:"region"`
	MemoryMB         int    `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
	TimeLimitSeconds int    `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty"`
}

// OpenWhiskSpec holds OpenWhisk connection details.
type OpenWhiskSpec struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	SSL       bool   `json:"ssl" yaml:"ssl"`
}

// GoogleCloudSpec holds Google Cloud Run job settings.
type GoogleCloudSpec struct {
	Namespace   string `json:"namespace" yaml:"namespace"`
	Region      string `json:"region" yaml:"region"`
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	ClientEmail string `json:"client_email,omitempty" yaml:"client_email,omitempty"`
	TokenURI    string `json:"token_uri,omitempty" yaml:"token_uri,omitempty"`
}

// SLURMSpec holds SLURM REST API and job resource settings.
type SLURMSpec struct {
	Endpoint         string `json:"endpoint" yaml:"endpoint"`
	APIVersion       string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Partition        string `json:"partition" yaml:"partition"`
	Nodes            int    `json:"nodes" yaml:"nodes"`
	Tasks            int    `json:"tasks" yaml:"tasks"`
	CPUsPerTask      int    `json:"cpus_per_task" yaml:"cpus_per_task"`
	MemoryMB         int    `json:"memory_mb,omitempty" yaml:"memory_mb,omitempty"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty" yaml:"time_limit_minutes,omitempty"`
	WorkingDirectory string `json:"working_directory" yaml:"working_directory"`
}
