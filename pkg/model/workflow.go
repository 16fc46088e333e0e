package model

// Language is the runtime language of a FaaSr action.
type Language string

const (
	// LanguageR is the primary language.
	LanguageR Language = "R"
	// LanguagePython is the secondary language.
	LanguagePython Language = "Python"
)

// String returns the FaaSr Type string for the language.
func (l Language) String() string {
	return string(l)
}

// DefaultFunctionName is the FaaSr function every synthetic action invokes.
const DefaultFunctionName = "synthetic_faas_function"

// Action is a node of the target FaaSr invocation graph.
type Action struct {
	Name          string   `json:"name"`
	FunctionName  string   `json:"function_name"`
	Language      Language `json:"type"`
	Container     string   `json:"container"`
	Provider      string   `json:"provider"` // ComputeProvider.Name
	ExecutionTime float64  `json:"execution_time"`
	InputFiles    []string `json:"input_files"`
	OutputFiles   []string `json:"output_files"`
	InvokeNext    []string `json:"invoke_next"`
}

// NewAction creates an Action invoking DefaultFunctionName. A negative
// execution time fails with ErrInvalidDuration.
func NewAction(name string, executionTime float64) (*Action, error) {
	if executionTime < 0 {
		return nil, &DurationError{Kind: "action", ID: name, Value: executionTime}
	}
	return &Action{
		Name:          name,
		FunctionName:  DefaultFunctionName,
		Language:      LanguageR,
		ExecutionTime: executionTime,
		InputFiles:    []string{},
		OutputFiles:   []string{},
		InvokeNext:    []string{},
	}, nil
}

// DataStore describes the S3-compatible bucket FaaSr actions exchange files through.
type DataStore struct {
	Name     string `json:"name" yaml:"name"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Bucket   string `json:"bucket" yaml:"bucket"`
	Region   string `json:"region" yaml:"region"`
	Writable string `json:"writable" yaml:"writable"` // "TRUE" or "FALSE"
}

// TargetGraph is a translated FaaSr workflow ready for serialization.
type TargetGraph struct {
	Providers []ComputeProvider `json:"providers"`
	Files     map[string]int64  `json:"files"`
	Actions   []*Action         `json:"actions"`

	// Entry is the unique action that starts the invocation graph. It is
	// always also present in Actions.
	Entry *Action `json:"entry"`

	DataStore       DataStore         `json:"data_store"`
	FilesFolder     string            `json:"files_folder"`
	FunctionGitRepo map[string]string `json:"function_git_repo"`
}

// Provider returns the provider with the given name, or false.
func (g *TargetGraph) Provider(name string) (ComputeProvider, bool) {
	for _, p := range g.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ComputeProvider{}, false
}

// Action returns the first action with the given name, or nil.
func (g *TargetGraph) Action(name string) *Action {
	for _, a := range g.Actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// ActionsByProvider counts actions per provider name. The entry action is
// counted once per appearance in Actions.
func (g *TargetGraph) ActionsByProvider() map[string]int {
	counts := make(map[string]int, len(g.Providers))
	for _, a := range g.Actions {
		counts[a.Provider]++
	}
	return counts
}
