// Package wfformat reads WfCommons WfFormat workflow instances into a
// model.SourceGraph.
package wfformat

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/me/wfsynth/pkg/model"
)

// instance is the subset of a WfFormat document used here. Version 1.5 splits
// tasks into specification and execution; earlier versions inline runtime
// and files on each task.
type instance struct {
	Name          string `json:"name"`
	SchemaVersion string `json:"schemaVersion"`
	Workflow      struct {
		Specification *specification `json:"specification"`
		Execution     *execution     `json:"execution"`
		Tasks         []legacyTask   `json:"tasks"`
	} `json:"workflow"`
}

type specification struct {
	Tasks []specTask `json:"tasks"`
	Files []specFile `json:"files"`
}

type specTask struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Parents     []string `json:"parents"`
	Children    []string `json:"children"`
	InputFiles  []string `json:"inputFiles"`
	OutputFiles []string `json:"outputFiles"`
}

type specFile struct {
	ID          string `json:"id"`
	SizeInBytes int64  `json:"sizeInBytes"`
}

type execution struct {
	Tasks []execTask `json:"tasks"`
}

type execTask struct {
	ID               string  `json:"id"`
	RuntimeInSeconds float64 `json:"runtimeInSeconds"`
}

type legacyTask struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Runtime          *float64     `json:"runtime"`
	RuntimeInSeconds *float64     `json:"runtimeInSeconds"`
	Parents          []string     `json:"parents"`
	Children         []string     `json:"children"`
	Files            []legacyFile `json:"files"`
}

type legacyFile struct {
	Link        string `json:"link"` // "input" or "output"
	Name        string `json:"name"`
	ID          string `json:"id"`
	Size        *int64 `json:"size"`
	SizeInBytes *int64 `json:"sizeInBytes"`
}

// Load reads and parses the WfFormat file at path.
func Load(path string) (*model.SourceGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a WfFormat document. Negative runtimes fail with
// model.ErrInvalidDuration.
func Parse(data []byte) (*model.SourceGraph, error) {
	var inst instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse WfFormat JSON: %w", err)
	}
	if inst.Workflow.Specification != nil {
		return fromSpecification(inst.Workflow.Specification, inst.Workflow.Execution)
	}
	if inst.Workflow.Tasks != nil {
		return fromLegacy(inst.Workflow.Tasks)
	}
	return nil, fmt.Errorf("parse WfFormat JSON: no workflow.specification or workflow.tasks")
}

func fromSpecification(spec *specification, exec *execution) (*model.SourceGraph, error) {
	runtimes := make(map[string]float64)
	if exec != nil {
		for _, et := range exec.Tasks {
			runtimes[et.ID] = et.RuntimeInSeconds
		}
	}

	g := model.NewSourceGraph()
	for _, f := range spec.Files {
		g.Files[f.ID] = f.SizeInBytes
	}
	for _, st := range spec.Tasks {
		id := firstNonEmpty(st.ID, st.Name)
		if id == "" {
			return nil, fmt.Errorf("task without id or name")
		}
		t, err := model.NewTask(id, runtimes[id])
		if err != nil {
			return nil, err
		}
		t.Name = firstNonEmpty(st.Name, id)
		t.Parents = nonNil(st.Parents)
		t.Children = nonNil(st.Children)
		t.InputFiles = nonNil(st.InputFiles)
		t.OutputFiles = nonNil(st.OutputFiles)
		g.Tasks = append(g.Tasks, t)
	}
	return g, nil
}

func fromLegacy(tasks []legacyTask) (*model.SourceGraph, error) {
	g := model.NewSourceGraph()
	for _, lt := range tasks {
		id := firstNonEmpty(lt.ID, lt.Name)
		if id == "" {
			return nil, fmt.Errorf("task without id or name")
		}
		var runtime float64
		switch {
		case lt.RuntimeInSeconds != nil:
			runtime = *lt.RuntimeInSeconds
		case lt.Runtime != nil:
			runtime = *lt.Runtime
		}
		t, err := model.NewTask(id, runtime)
		if err != nil {
			return nil, err
		}
		t.Name = firstNonEmpty(lt.Name, id)
		t.Parents = nonNil(lt.Parents)
		t.Children = nonNil(lt.Children)
		t.InputFiles = []string{}
		t.OutputFiles = []string{}

		for _, f := range lt.Files {
			name := firstNonEmpty(f.Name, f.ID)
			if name == "" {
				return nil, fmt.Errorf("task %s: file without name", id)
			}
			switch f.Link {
			case "input":
				t.InputFiles = append(t.InputFiles, name)
			case "output":
				t.OutputFiles = append(t.OutputFiles, name)
			default:
				return nil, fmt.Errorf("task %s: file %s: unknown link %q", id, name, f.Link)
			}
			switch {
			case f.SizeInBytes != nil:
				g.Files[name] = *f.SizeInBytes
			case f.Size != nil:
				g.Files[name] = *f.Size
			}
		}
		g.Tasks = append(g.Tasks, t)
	}
	return g, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
