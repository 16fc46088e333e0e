// Package manifest serializes a translated workflow into the FaaSr workflow
// JSON and the companion file-size JSON.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/me/wfsynth/pkg/model"
)

// FaaSrLogFolder is the folder FaaSr writes its logs to.
const FaaSrLogFolder = "FaaSrLog"

// Build converts tg into a Manifest. It fails with a *model.MissingFileError
// if any action references a file absent from tg.Files.
func Build(tg *model.TargetGraph) (*Manifest, error) {
	if tg.Entry == nil {
		return nil, fmt.Errorf("build manifest: %w", model.ErrNoEntryPoint)
	}

	store := tg.DataStore.Name
	m := &Manifest{
		ComputeServers:   make(map[string]ComputeServer, len(tg.Providers)),
		DataStores:       map[string]DataStore{},
		ActionList:       make(map[string]ActionEntry, len(tg.Actions)),
		ActionContainers: make(map[string]string, len(tg.Actions)),
		FunctionGitRepo:  tg.FunctionGitRepo,
		FunctionInvoke:   tg.Entry.Name,
		FaaSrLog:         FaaSrLogFolder,
		LoggingDataStore: store,
		DefaultDataStore: store,
		FunctionCRANPackage: map[string][]string{
			model.DefaultFunctionName: {},
		},
		FunctionGitHubPackage: map[string][]string{
			model.DefaultFunctionName: {},
		},
	}
	if m.FunctionGitRepo == nil {
		m.FunctionGitRepo = map[string]string{}
	}

	for _, p := range tg.Providers {
		m.ComputeServers[p.Name] = computeServer(p)
	}

	m.DataStores[store] = DataStore{
		Endpoint: tg.DataStore.Endpoint,
		Bucket:   tg.DataStore.Bucket,
		Region:   tg.DataStore.Region,
		Writable: tg.DataStore.Writable,
	}

	for _, a := range tg.Actions {
		if _, ok := tg.Provider(a.Provider); !ok {
			return nil, fmt.Errorf("build manifest: action %q bound to unknown provider %q", a.Name, a.Provider)
		}
		inSize, err := sumSizes(tg.Files, a.Name, "input", a.InputFiles)
		if err != nil {
			return nil, err
		}
		outSize, err := sumSizes(tg.Files, a.Name, "output", a.OutputFiles)
		if err != nil {
			return nil, err
		}

		m.ActionContainers[a.Name] = a.Container
		m.ActionList[a.Name] = ActionEntry{
			FunctionName: a.FunctionName,
			FaaSServer:   a.Provider,
			Type:         a.Language.String(),
			Arguments: Arguments{
				ExecutionTime:     a.ExecutionTime,
				Folder:            tg.FilesFolder,
				InputFiles:        nonNil(a.InputFiles),
				InputSizeInBytes:  inSize,
				OutputSizeInBytes: outSize,
				ActionID:          a.Name,
			},
			InvokeNext: nonNil(a.InvokeNext),
		}
	}

	return m, nil
}

// BuildFiles returns the file-size manifest for tg.
func BuildFiles(tg *model.TargetGraph) *FilesManifest {
	files := tg.Files
	if files == nil {
		files = map[string]int64{}
	}
	return &FilesManifest{Files: files}
}

// Paths are the files written by Write.
type Paths struct {
	Dir      string
	Workflow string
	Files    string
}

// Write creates the directory outDir/name and writes name.json and
// name_files.json into it. If the directory already exists Write fails with
// ErrOutputExists and nothing is written.
func Write(outDir, name string, tg *model.TargetGraph) (*Paths, error) {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return nil, fmt.Errorf("write manifest: invalid output name %q", name)
	}

	m, err := Build(tg)
	if err != nil {
		return nil, err
	}
	workflowJSON, err := Encode(m)
	if err != nil {
		return nil, fmt.Errorf("encode workflow manifest: %w", err)
	}
	filesJSON, err := Encode(BuildFiles(tg))
	if err != nil {
		return nil, fmt.Errorf("encode files manifest: %w", err)
	}

	dir := filepath.Join(outDir, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("write manifest: %w: %s", model.ErrOutputExists, dir)
		}
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	paths := &Paths{
		Dir:      dir,
		Workflow: filepath.Join(dir, name+".json"),
		Files:    filepath.Join(dir, name+"_files.json"),
	}
	if err := os.WriteFile(paths.Workflow, workflowJSON, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", paths.Workflow, err)
	}
	if err := os.WriteFile(paths.Files, filesJSON, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", paths.Files, err)
	}
	return paths, nil
}

// Encode renders v as 4-space indented JSON. Map keys are sorted, so equal
// inputs give identical bytes.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFilesManifest loads a file-size manifest. A missing .json extension is
// appended.
func ReadFilesManifest(path string) (*FilesManifest, error) {
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read files manifest: %w", err)
	}
	var fm FilesManifest
	if err := json.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse files manifest %s: %w", path, err)
	}
	if fm.Files == nil {
		return nil, fmt.Errorf("parse files manifest %s: missing \"files\" object", path)
	}
	return &fm, nil
}

func sumSizes(files map[string]int64, action, direction string, names []string) (int64, error) {
	var total int64
	for _, n := range names {
		size, ok := files[n]
		if !ok {
			return 0, &model.MissingFileError{Action: action, File: n, Direction: direction}
		}
		total += size
	}
	return total, nil
}

func computeServer(p model.ComputeProvider) ComputeServer {
	cs := ComputeServer{FaaSType: p.Kind.String()}
	switch p.Kind {
	case model.ProviderGitHubActions:
		if s := p.GitHub; s != nil {
			cs.UserName = s.UserName
			cs.ActionRepoName = s.ActionRepoName
			cs.Branch = s.Branch
		}
	case model.ProviderLambda:
		if s := p.Lambda; s != nil {
			cs.Region = s.Region
			cs.Memory = s.MemoryMB
			cs.TimeLimit = s.TimeLimitSeconds
		}
	case model.ProviderOpenWhisk:
		if s := p.OpenWhisk; s != nil {
			cs.Namespace = s.Namespace
			cs.Endpoint = s.Endpoint
			cs.SSL = strconv.FormatBool(s.SSL)
		}
	case model.ProviderGoogleCloud:
		if s := p.GoogleCloud; s != nil {
			cs.Namespace = s.Namespace
			cs.Region = s.Region
			cs.Endpoint = s.Endpoint
			cs.ClientEmail = s.ClientEmail
			cs.TokenURI = s.TokenURI
		}
	case model.ProviderSLURM:
		if s := p.SLURM; s != nil {
			cs.Endpoint = s.Endpoint
			cs.APIVersion = s.APIVersion
			cs.Partition = s.Partition
			cs.Nodes = s.Nodes
			cs.Tasks = s.Tasks
			cs.CPUsPerTask = s.CPUsPerTask
			cs.Memory = s.MemoryMB
			cs.TimeLimit = s.TimeLimitMinutes
			cs.WorkingDirectory = s.WorkingDirectory
		}
	}
	return cs
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
