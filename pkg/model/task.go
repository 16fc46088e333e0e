package model

import "slices"

// Task is a node of the source (WfFormat) workflow graph.
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Runtime is the task's execution time in seconds.
	Runtime float64 `json:"runtime"`

	// Children lists downstream task IDs in invocation order.
	Children []string `json:"children"`
	Parents  []string `json:"parents"`

	InputFiles  []string `json:"input_files"`
	OutputFiles []string `json:"output_files"`
}

// NewTask creates a Task with the given ID and runtime in seconds.
// A negative runtime fails with ErrInvalidDuration; zero is valid.
func NewTask(id string, runtime float64) (*Task, error) {
	if runtime < 0 {
		return nil, &DurationError{Kind: "task", ID: id, Value: runtime}
	}
	return &Task{ID: id, Name: id, Runtime: runtime}, nil
}

// IsRoot reports whether the task has no parents.
func (t *Task) IsRoot() bool {
	return len(t.Parents) == 0
}

// SourceGraph is a parsed WfFormat workflow: the task list plus the shared
// file-size manifest.
//
// Every file name referenced by a task should have an entry in Files. This is
// not checked here; a missing entry surfaces when the manifest is written.
type SourceGraph struct {
	Files map[string]int64 `json:"files"`
	Tasks []*Task          `json:"tasks"`
}

// NewSourceGraph returns an empty graph with an initialized file map.
func NewSourceGraph() *SourceGraph {
	return &SourceGraph{Files: make(map[string]int64)}
}

// Task returns the task with the given ID, or nil.
func (g *SourceGraph) Task(id string) *Task {
	for _, t := range g.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Roots returns the tasks with no parents, in task order.
func (g *SourceGraph) Roots() []*Task {
	var roots []*Task
	for _, t := range g.Tasks {
		if t.IsRoot() {
			roots = append(roots, t)
		}
	}
	return roots
}

// TotalFileSize sums the sizes of every file in the manifest.
func (g *SourceGraph) TotalFileSize() int64 {
	var total int64
	for _, size := range g.Files {
		total += size
	}
	return total
}

// Clone returns a deep copy of the graph so callers can rewrite task lists
// without touching the original.
func (g *SourceGraph) Clone() *SourceGraph {
	out := &SourceGraph{
		Files: make(map[string]int64, len(g.Files)),
		Tasks: make([]*Task, 0, len(g.Tasks)),
	}
	for name, size := range g.Files {
		out.Files[name] = size
	}
	for _, t := range g.Tasks {
		c := *t
		c.Children = slices.Clone(t.Children)
		c.Parents = slices.Clone(t.Parents)
		c.InputFiles = slices.Clone(t.InputFiles)
		c.OutputFiles = slices.Clone(t.OutputFiles)
		out.Tasks = append(out.Tasks, &c)
	}
	return out
}
