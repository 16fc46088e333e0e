package workload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/me/wfsynth/internal/manifest"
	"github.com/me/wfsynth/internal/stager"
	"github.com/me/wfsynth/pkg/model"
)

// fakeClock advances one millisecond per call.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 2, 123456789, time.UTC)
	if got := Timestamp(ts); got != "20240307090502123456" {
		t.Errorf("Timestamp = %q, want 20240307090502123456", got)
	}
}

func newRunner(t *testing.T) (*Runner, *stager.DirStore, *[]string, *[]time.Duration) {
	t.Helper()
	store := stager.NewDirStore(t.TempDir(), "faasr")
	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatal(err)
	}
	var lines []string
	var slept []time.Duration
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := &Runner{
		Store:   store,
		WorkDir: t.TempDir(),
		Log:     func(s string) { lines = append(lines, s) },
		Now:     clock.Now,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}
	return r, store, &lines, &slept
}

func TestRun(t *testing.T) {
	r, store, lines, slept := newRunner(t)

	input := store.Path("synthetic_files/in.dat")
	if err := os.MkdirAll(filepath.Dir(input), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := r.Run(context.Background(), manifest.Arguments{
		ExecutionTime:     1.5,
		Folder:            "synthetic_files",
		InputFiles:        []string{"in.dat"},
		InputSizeInBytes:  64,
		OutputSizeInBytes: 2048,
		ActionID:          "task-a",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(*slept) != 1 || (*slept)[0] != 1500*time.Millisecond {
		t.Errorf("slept = %v, want [1.5s]", *slept)
	}
	info, err := os.Stat(store.Path(res.OutputKey))
	if err != nil {
		t.Fatalf("output not uploaded: %v", err)
	}
	if info.Size() != 2048 {
		t.Errorf("output size = %d, want 2048", info.Size())
	}
	if !strings.HasPrefix(res.OutputKey, "synthetic_files/output_2024") || !strings.HasSuffix(res.OutputKey, ".bin") {
		t.Errorf("OutputKey = %q", res.OutputKey)
	}

	wantPrefixes := []string{
		"LOG DOWNLOAD[task-a][64][START]",
		"LOG DOWNLOAD[task-a][64][FINISH]",
		"LOG SLEEP[task-a][1.5][START]",
		"LOG SLEEP[task-a][1.5][FINISH]",
		"LOG OUTPUT[task-a][2048][START]",
		"LOG OUTPUT[task-a][2048][FINISH]",
	}
	if len(res.Timestamps) != len(wantPrefixes) {
		t.Fatalf("Timestamps = %v", res.Timestamps)
	}
	for i, p := range wantPrefixes {
		if !strings.HasPrefix(res.Timestamps[i], p) {
			t.Errorf("Timestamps[%d] = %q, want prefix %q", i, res.Timestamps[i], p)
		}
	}

	// Six phase lines and one download line, the completion line, then five
	// replayed lines.
	if len(*lines) != 13 {
		t.Fatalf("logged %d lines, want 13: %v", len(*lines), *lines)
	}
	if (*lines)[1] != "Downloading file: in.dat" {
		t.Errorf("lines[1] = %q", (*lines)[1])
	}
	if !strings.Contains((*lines)[7], "finished; output written to "+res.OutputKey) {
		t.Errorf("completion line = %q", (*lines)[7])
	}
	for i := 0; i < 5; i++ {
		if (*lines)[8+i] != res.Timestamps[i] {
			t.Errorf("replayed line %d = %q, want %q", i, (*lines)[8+i], res.Timestamps[i])
		}
	}
}

func TestRun_MissingInput(t *testing.T) {
	r, _, lines, slept := newRunner(t)
	_, err := r.Run(context.Background(), manifest.Arguments{
		Folder:     "f",
		InputFiles: []string{"ghost"},
		ActionID:   "x",
	})
	var se *stager.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StorageError", err)
	}
	if len(*slept) != 0 {
		t.Error("slept after failed download")
	}
	if last := (*lines)[len(*lines)-1]; last != "ERROR: Failed to download: ghost" {
		t.Errorf("last line = %q", last)
	}
}

func TestRun_NegativeExecutionTime(t *testing.T) {
	r, _, _, _ := newRunner(t)
	_, err := r.Run(context.Background(), manifest.Arguments{ExecutionTime: -1, ActionID: "x"})
	if !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("err = %v, want ErrInvalidDuration", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	r, _, _, _ := newRunner(t)
	r.Sleep = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, manifest.Arguments{ExecutionTime: 60, ActionID: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadArgs(t *testing.T) {
	dir := t.TempDir()

	bare := filepath.Join(dir, "args.json")
	os.WriteFile(bare, []byte(`{"execution_time": 2, "folder": "f", "input_files": ["a"], "actionid": "x"}`), 0o644)
	args, err := LoadArgs(bare, "")
	if err != nil {
		t.Fatalf("LoadArgs(bare): %v", err)
	}
	if args.ExecutionTime != 2 || args.ActionID != "x" || len(args.InputFiles) != 1 {
		t.Errorf("args = %+v", args)
	}

	full := filepath.Join(dir, "wf.json")
	os.WriteFile(full, []byte(`{"ActionList": {"b": {"FunctionName": "synthetic_faas_function", "Arguments": {"execution_time": 3.5, "actionid": "b"}}}}`), 0o644)
	args, err = LoadArgs(full, "b")
	if err != nil {
		t.Fatalf("LoadArgs(manifest): %v", err)
	}
	if args.ExecutionTime != 3.5 || args.ActionID != "b" {
		t.Errorf("args = %+v", args)
	}

	if _, err := LoadArgs(full, "ghost"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := map[float64]string{0: "0.0", 2: "2.0", 1.25: "1.25", 600.5: "600.5"}
	for in, want := range tests {
		if got := formatSeconds(in); got != want {
			t.Errorf("formatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}
