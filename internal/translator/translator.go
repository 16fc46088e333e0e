// Package translator turns a WfFormat source graph into a FaaSr invocation
// graph: it binds every task to a compute provider, picks a runtime language
// and container, and normalizes the graph to a single entry action.
package translator

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/me/wfsynth/internal/logging"
	"github.com/me/wfsynth/internal/provider"
	"github.com/me/wfsynth/pkg/model"
)

// Mode selects how tasks are bound to providers.
type Mode string

const (
	// ModeSingle binds every action to the one configured provider and keeps
	// task IDs verbatim as action names.
	ModeSingle Mode = "single"
	// ModeMulti distributes actions round-robin across all providers,
	// honoring eligibility, and normalizes action names.
	ModeMulti Mode = "multi"
)

// IsValid returns true if m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeSingle || m == ModeMulti
}

// DefaultFunctionGitRepo maps the synthetic function to its source repository.
func DefaultFunctionGitRepo() map[string]string {
	return map[string]string{model.DefaultFunctionName: "nolcut/FaaSr-synthetic"}
}

// Options configures a translation.
type Options struct {
	Mode Mode

	// PythonPercentage is the probability, 0–100, that an action is assigned
	// Python instead of R. Each action draws independently.
	PythonPercentage float64

	Containers ContainerTable

	// Source drives language draws and synthetic entry names. Nil means a
	// freshly seeded source.
	Source *Source

	DataStore       model.DataStore
	FilesFolder     string
	FunctionGitRepo map[string]string

	Logger *slog.Logger
}

// run holds the state of a single Translate call.
type run struct {
	opts     Options
	registry *provider.Registry
	logger   *slog.Logger
	cursor   int // round-robin position; starts at 0 every call
}

// Translate converts graph into a TargetGraph bound to the providers in reg.
// graph is not modified.
func Translate(graph *model.SourceGraph, reg *provider.Registry, opts Options) (*model.TargetGraph, error) {
	if graph == nil {
		return nil, fmt.Errorf("translate: %w: nil source graph", model.ErrNoEntryPoint)
	}
	if reg == nil || reg.Len() == 0 {
		return nil, fmt.Errorf("translate: no compute providers configured")
	}
	if opts.Mode == "" {
		opts.Mode = ModeMulti
	}
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("translate: unknown mode %q", opts.Mode)
	}
	if opts.Mode == ModeSingle && reg.Len() != 1 {
		return nil, fmt.Errorf("translate: single-provider mode requires exactly one provider, got %d", reg.Len())
	}
	if opts.PythonPercentage < 0 || opts.PythonPercentage > 100 {
		return nil, fmt.Errorf("translate: python percentage %v out of range [0, 100]", opts.PythonPercentage)
	}
	if opts.Source == nil {
		opts.Source, _ = NewRandomSource()
	}
	if opts.Containers == nil {
		opts.Containers = ContainerTable{}
	}
	if opts.FunctionGitRepo == nil {
		opts.FunctionGitRepo = DefaultFunctionGitRepo()
	}
	r := &run{
		opts:     opts,
		registry: reg,
		logger:   logging.Component(opts.Logger, "translator").With("mode", string(opts.Mode)),
	}
	return r.translate(graph)
}

func (r *run) translate(graph *model.SourceGraph) (*model.TargetGraph, error) {
	actions := make([]*model.Action, 0, len(graph.Tasks)+1)
	var candidates []*model.Action
	owners := make(map[string]string, len(graph.Tasks))

	for _, t := range graph.Tasks {
		lang := r.drawLanguage()
		p := r.assign(t)

		name := r.actionName(t.ID)
		if prev, ok := owners[name]; ok {
			return nil, fmt.Errorf("translate task %s: %w: %q already used by task %s", t.ID, model.ErrDuplicateActionName, name, prev)
		}
		owners[name] = t.ID

		a, err := model.NewAction(name, t.Runtime)
		if err != nil {
			return nil, fmt.Errorf("translate task %s: %w", t.ID, err)
		}
		a.Language = lang
		a.Provider = p.Name
		a.Container = r.opts.Containers.Resolve(p.Name, lang)
		a.InputFiles = cloneOrEmpty(t.InputFiles)
		a.OutputFiles = cloneOrEmpty(t.OutputFiles)
		a.InvokeNext = r.actionNames(t.Children)
		actions = append(actions, a)

		r.logger.Debug("task assigned", "task", t.ID, "action", a.Name, "provider", p.Name, "type", lang, "runtime", t.Runtime)

		if t.IsRoot() {
			candidates = append(candidates, a)
		}
	}

	var entry *model.Action
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("translate: %w: %d tasks, none without parents", model.ErrNoEntryPoint, len(graph.Tasks))
	case 1:
		entry = candidates[0]
		if r.opts.Mode == ModeSingle {
			// Single-provider output lists the entry action again at the end.
			actions = append(actions, entry)
		}
	default:
		root, err := r.syntheticRoot(actions, candidates)
		if err != nil {
			return nil, err
		}
		entry = root
		actions = append(actions, root)
	}

	r.logger.Info("workflow translated",
		"tasks", len(graph.Tasks),
		"actions", len(actions),
		"entry", entry.Name,
		"entry_candidates", len(candidates),
	)

	return &model.TargetGraph{
		Providers:       r.registry.Providers(),
		Files:           maps.Clone(graph.Files),
		Actions:         actions,
		Entry:           entry,
		DataStore:       r.opts.DataStore,
		FilesFolder:     r.opts.FilesFolder,
		FunctionGitRepo: maps.Clone(r.opts.FunctionGitRepo),
	}, nil
}

func (r *run) drawLanguage() model.Language {
	if r.opts.Source.Percent() < r.opts.PythonPercentage {
		return model.LanguagePython
	}
	return model.LanguageR
}

// assign picks the provider for t. Single mode always returns the one
// provider. Multi mode scans the ring from the cursor for at most one full
// turn, advancing the cursor past every candidate it looks at.
func (r *run) assign(t *model.Task) model.ComputeProvider {
	if r.opts.Mode == ModeSingle {
		return r.registry.First()
	}

	for range r.registry.Len() {
		candidate := r.registry.At(r.cursor)
		r.cursor++
		if candidate.Accepts(t.Runtime) {
			return candidate
		}
		r.logger.Debug("provider rejected task", "task", t.ID, "provider", candidate.Name, "runtime", t.Runtime)
	}

	if p, ok := r.registry.FirstUnconstrained(); ok {
		return p
	}
	// Every provider rejects the task. Bind it to the first one anyway.
	p := r.registry.First()
	r.logger.Warn("no eligible provider, falling back to first provider",
		"task", t.ID, "runtime", t.Runtime, "provider", p.Name)
	return p
}

func (r *run) syntheticRoot(actions, candidates []*model.Action) (*model.Action, error) {
	taken := make(map[string]bool, len(actions))
	for _, a := range actions {
		taken[a.Name] = true
	}
	name, err := rootName(r.opts.Source, taken)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	root, err := model.NewAction(name, 0)
	if err != nil {
		return nil, err
	}
	first := r.registry.First()
	root.Language = r.drawLanguage()
	root.Provider = first.Name
	root.Container = r.opts.Containers.Resolve(first.Name, root.Language)
	for _, c := range candidates {
		root.InvokeNext = append(root.InvokeNext, c.Name)
	}

	r.logger.Debug("synthetic entry action created", "action", name, "invokes", root.InvokeNext)
	return root, nil
}

func (r *run) actionName(taskID string) string {
	if r.opts.Mode == ModeSingle {
		return taskID
	}
	return NormalizeName(taskID)
}

func (r *run) actionNames(taskIDs []string) []string {
	if r.opts.Mode == ModeSingle {
		return cloneOrEmpty(taskIDs)
	}
	return normalizeAll(taskIDs)
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
