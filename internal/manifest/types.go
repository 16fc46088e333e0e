package manifest

// Manifest is the FaaSr workflow JSON document. Field order here is the key
// order in the written file.
type Manifest struct {
	ComputeServers        map[string]ComputeServer `json:"ComputeServers"`
	DataStores            map[string]DataStore     `json:"DataStores"`
	ActionList            map[string]ActionEntry   `json:"ActionList"`
	ActionContainers      map[string]string        `json:"ActionContainers"`
	FunctionGitRepo       map[string]string        `json:"FunctionGitRepo"`
	FunctionInvoke        string                   `json:"FunctionInvoke"`
	InvocationID          string                   `json:"InvocationID"` // filled in by the FaaSr runtime
	FaaSrLog              string                   `json:"FaaSrLog"`
	LoggingDataStore      string                   `json:"LoggingDataStore"`
	DefaultDataStore      string                   `json:"DefaultDataStore"`
	FunctionCRANPackage   map[string][]string      `json:"FunctionCRANPackage"`
	FunctionGitHubPackage map[string][]string      `json:"FunctionGitHubPackage"`
}

// ComputeServer is one entry of ComputeServers. Only the fields of the
// server's FaaSType are set.
type ComputeServer struct {
	FaaSType string `json:"FaaSType"`

	// GitHubActions
	UserName       string `json:"UserName,omitempty"`
	ActionRepoName string `json:"ActionRepoName,omitempty"`
	Branch         string `json:"Branch,omitempty"`

	// Lambda, GoogleCloud
	Region string `json:"Region,omitempty"`

	// OpenWhisk, GoogleCloud, SLURM
	Namespace string `json:"Namespace,omitempty"`
	Endpoint  string `json:"Endpoint,omitempty"`
	SSL       string `json:"SSL,omitempty"`

	// GoogleCloud
	ClientEmail string `json:"ClientEmail,omitempty"`
	TokenURI    string `json:"TokenUri,omitempty"`

	// SLURM
	APIVersion       string `json:"APIVersion,omitempty"`
	Partition        string `json:"Partition,omitempty"`
	Nodes            int    `json:"Nodes,omitempty"`
	Tasks            int    `json:"Tasks,omitempty"`
	CPUsPerTask      int    `json:"CPUsPerTask,omitempty"`
	WorkingDirectory string `json:"WorkingDirectory,omitempty"`

	// Lambda, SLURM
	Memory    int `json:"Memory,omitempty"`
	TimeLimit int `json:"TimeLimit,omitempty"`
}

// DataStore is one entry of DataStores.
type DataStore struct {
	Endpoint string `json:"Endpoint"`
	Bucket   string `json:"Bucket"`
	Region   string `json:"Region"`
	Writable string `json:"Writable"`
}

// ActionEntry is one entry of ActionList.
type ActionEntry struct {
	FunctionName string    `json:"FunctionName"`
	FaaSServer   string    `json:"FaaSServer"`
	Type         string    `json:"Type"`
	Arguments    Arguments `json:"Arguments"`
	InvokeNext   []string  `json:"InvokeNext"`
}

// Arguments are the parameters passed to the synthetic function.
type Arguments struct {
	ExecutionTime     float64  `json:"execution_time"`
	Folder            string   `json:"folder"`
	InputFiles        []string `json:"input_files"`
	InputSizeInBytes  int64    `json:"input_size_in_bytes"`
	OutputSizeInBytes int64    `json:"output_size_in_bytes"`
	ActionID          string   `json:"actionid"`
}

// FilesManifest is the file-size document consumed by the stager.
type FilesManifest struct {
	Files map[string]int64 `json:"files"`
}
