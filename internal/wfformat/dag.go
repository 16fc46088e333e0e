package wfformat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/me/wfsynth/pkg/model"
)

// DAG holds the result of analyzing a source graph.
type DAG struct {
	// Order is a topological sort of task IDs.
	Order []string
	// Roots are tasks without parents, in task order.
	Roots []string
	// Leaves are tasks without children, in task order.
	Leaves []string
	// Depth is the number of tasks on the longest path.
	Depth int
}

// Analyze checks that every parent/child reference names a task and that the
// graph is acyclic, and returns its topological order. It uses Kahn's
// algorithm over the children edges.
func Analyze(g *model.SourceGraph) (*DAG, error) {
	ids := make(map[string]bool, len(g.Tasks))
	for _, t := range g.Tasks {
		if ids[t.ID] {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		ids[t.ID] = true
	}

	inDegree := make(map[string]int, len(g.Tasks))
	forward := make(map[string][]string, len(g.Tasks))
	dag := &DAG{}
	for _, t := range g.Tasks {
		for _, p := range t.Parents {
			if !ids[p] {
				return nil, fmt.Errorf("task %s: unknown parent %q", t.ID, p)
			}
		}
		seen := make(map[string]bool, len(t.Children))
		for _, c := range t.Children {
			if !ids[c] {
				return nil, fmt.Errorf("task %s: unknown child %q", t.ID, c)
			}
			if c == t.ID {
				return nil, fmt.Errorf("workflow contains a cycle involving tasks: %s", c)
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			forward[t.ID] = append(forward[t.ID], c)
			inDegree[c]++
		}
		if len(t.Parents) == 0 {
			dag.Roots = append(dag.Roots, t.ID)
		}
		if len(t.Children) == 0 {
			dag.Leaves = append(dag.Leaves, t.ID)
		}
	}

	var queue []string
	for _, t := range g.Tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}
	sort.Strings(queue)

	level := make(map[string]int, len(g.Tasks))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		dag.Order = append(dag.Order, node)
		if level[node]+1 > dag.Depth {
			dag.Depth = level[node] + 1
		}

		successors := forward[node]
		sort.Strings(successors)
		for _, succ := range successors {
			if level[node]+1 > level[succ] {
				level[succ] = level[node] + 1
			}
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
		sort.Strings(queue)
	}

	if len(dag.Order) != len(g.Tasks) {
		var cycleNodes []string
		for id, deg := range inDegree {
			if deg > 0 {
				cycleNodes = append(cycleNodes, id)
			}
		}
		sort.Strings(cycleNodes)
		return nil, fmt.Errorf("workflow contains a cycle involving tasks: %s",
			strings.Join(cycleNodes, ", "))
	}

	return dag, nil
}
