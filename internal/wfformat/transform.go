package wfformat

import (
	"slices"

	"github.com/me/wfsynth/pkg/model"
)

// UniformInputFile is the single file every task reads when a uniform input
// size is requested.
const UniformInputFile = "uniform_input_file"

// Chain reduces g to at most n tasks forming a linear chain: it starts at
// the first root, follows each task's first child, pads with the remaining
// tasks in task order when the chain is shorter than n, and finally prunes
// every children/parents list to the selected set. The file map is kept
// whole. n <= 0 or n >= len(g.Tasks) returns a copy of g.
func Chain(g *model.SourceGraph, n int) *model.SourceGraph {
	out := g.Clone()
	if n <= 0 || n >= len(out.Tasks) {
		return out
	}

	byID := make(map[string]*model.Task, len(out.Tasks))
	for _, t := range out.Tasks {
		byID[t.ID] = t
	}

	selected := make(map[string]bool, n)
	var chain []*model.Task

	cur := out.Tasks[0]
	if roots := out.Roots(); len(roots) > 0 {
		cur = roots[0]
	}
	for cur != nil && len(chain) < n && !selected[cur.ID] {
		selected[cur.ID] = true
		chain = append(chain, cur)
		var next *model.Task
		if len(cur.Children) > 0 {
			next = byID[cur.Children[0]]
		}
		cur = next
	}

	for _, t := range out.Tasks {
		if len(chain) >= n {
			break
		}
		if !selected[t.ID] {
			selected[t.ID] = true
			chain = append(chain, t)
		}
	}

	dropped := func(id string) bool { return !selected[id] }
	for _, t := range chain {
		t.Children = slices.DeleteFunc(t.Children, dropped)
		t.Parents = slices.DeleteFunc(t.Parents, dropped)
	}
	out.Tasks = chain
	return out
}

// UniformSizes overrides the file sizes from the trace. A nil field keeps
// the trace's sizes.
type UniformSizes struct {
	Input  *int64
	Output *int64
}

// ApplyUniformSizes rewrites g in place.
//
// A uniform input size of 0 removes every input file and empties the file
// map; a positive size makes every task read UniformInputFile and replaces
// the file map with that one entry. A uniform output size then sets the size
// of every output file. Output files dropped from the map by the input
// rewrite and not restored by an output size are left dangling, and fail
// when the manifest is written.
func ApplyUniformSizes(g *model.SourceGraph, u UniformSizes) {
	if u.Input != nil {
		size := *u.Input
		if size == 0 {
			for _, t := range g.Tasks {
				t.InputFiles = []string{}
			}
			g.Files = map[string]int64{}
		} else {
			for _, t := range g.Tasks {
				t.InputFiles = []string{UniformInputFile}
			}
			g.Files = map[string]int64{UniformInputFile: size}
		}
	}

	if u.Output != nil {
		if g.Files == nil {
			g.Files = map[string]int64{}
		}
		for _, t := range g.Tasks {
			for _, f := range t.OutputFiles {
				g.Files[f] = *u.Output
			}
		}
	}
}
