package wfformat

import (
	"slices"
	"strings"
	"testing"
)

func TestChain_FollowsFirstChild(t *testing.T) {
	g := graph(t, "a->b", "a->c", "b->d", "c->d", "d->e")

	out := Chain(g, 3)
	var got []string
	for _, task := range out.Tasks {
		got = append(got, task.ID)
	}
	if strings.Join(got, ",") != "a,b,d" {
		t.Fatalf("chain = %v, want a,b,d", got)
	}
	a, b, d := out.Task("a"), out.Task("b"), out.Task("d")
	if !slices.Equal(a.Children, []string{"b"}) {
		t.Errorf("a.Children = %v, want [b]", a.Children)
	}
	if !slices.Equal(d.Parents, []string{"b"}) {
		t.Errorf("d.Parents = %v, want [b]", d.Parents)
	}
	if len(d.Children) != 0 {
		t.Errorf("d.Children = %v, want []", d.Children)
	}
	if !slices.Equal(b.Parents, []string{"a"}) {
		t.Errorf("b.Parents = %v", b.Parents)
	}

	if len(g.Tasks) != 5 || len(g.Task("a").Children) != 2 {
		t.Error("Chain mutated its input")
	}
}

func TestChain_PadsShortChain(t *testing.T) {
	g := graph(t, "a->b", "x", "y")

	out := Chain(g, 3)
	var got []string
	for _, task := range out.Tasks {
		got = append(got, task.ID)
	}
	if strings.Join(got, ",") != "a,b,x" {
		t.Fatalf("chain = %v, want a,b,x", got)
	}
}

func TestChain_NoReduction(t *testing.T) {
	g := graph(t, "a->b", "b->c")
	for _, n := range []int{0, -1, 3, 10} {
		if out := Chain(g, n); len(out.Tasks) != 3 {
			t.Errorf("Chain(%d) kept %d tasks, want 3", n, len(out.Tasks))
		}
	}
}

func TestApplyUniformSizes_ZeroInput(t *testing.T) {
	g := graph(t, "a->b")
	g.Files = map[string]int64{"in": 10, "out": 20}
	g.Tasks[0].InputFiles = []string{"in"}
	g.Tasks[0].OutputFiles = []string{"out"}
	g.Tasks[1].InputFiles = []string{"out"}

	in, out := int64(0), int64(64)
	ApplyUniformSizes(g, UniformSizes{Input: &in, Output: &out})

	for _, task := range g.Tasks {
		if len(task.InputFiles) != 0 {
			t.Errorf("%s.InputFiles = %v, want []", task.ID, task.InputFiles)
		}
	}
	if len(g.Files) != 1 || g.Files["out"] != 64 {
		t.Errorf("Files = %v, want map[out:64]", g.Files)
	}
}

func TestApplyUniformSizes_PositiveInput(t *testing.T) {
	g := graph(t, "a->b")
	g.Files = map[string]int64{"in": 10}
	g.Tasks[0].InputFiles = []string{"in"}

	in := int64(1024)
	ApplyUniformSizes(g, UniformSizes{Input: &in})

	for _, task := range g.Tasks {
		if !slices.Equal(task.InputFiles, []string{UniformInputFile}) {
			t.Errorf("%s.InputFiles = %v", task.ID, task.InputFiles)
		}
	}
	if len(g.Files) != 1 || g.Files[UniformInputFile] != 1024 {
		t.Errorf("Files = %v", g.Files)
	}
}

func TestApplyUniformSizes_OutputOnly(t *testing.T) {
	g := graph(t, "a")
	g.Files = map[string]int64{"in": 10, "o1": 1, "o2": 2}
	g.Tasks[0].InputFiles = []string{"in"}
	g.Tasks[0].OutputFiles = []string{"o1", "o2"}

	out := int64(5)
	ApplyUniformSizes(g, UniformSizes{Output: &out})

	want := map[string]int64{"in": 10, "o1": 5, "o2": 5}
	for k, v := range want {
		if g.Files[k] != v {
			t.Errorf("Files[%s] = %d, want %d", k, g.Files[k], v)
		}
	}
}

func TestApplyUniformSizes_Nil(t *testing.T) {
	g := graph(t, "a")
	g.Files = map[string]int64{"in": 10}
	ApplyUniformSizes(g, UniformSizes{})
	if g.Files["in"] != 10 {
		t.Errorf("Files = %v", g.Files)
	}
}
