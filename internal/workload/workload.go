// Package workload runs the synthetic FaaS function locally: it downloads the
// action's inputs, sleeps for its execution time and uploads an output blob
// of the declared size, logging timestamps for each phase.
package workload

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/me/wfsynth/internal/manifest"
	"github.com/me/wfsynth/internal/stager"
	"github.com/me/wfsynth/pkg/model"
)

// timestampLayout renders YYYYMMDDHHMMSS; microseconds are appended.
const timestampLayout = "20060102150405"

// Timestamp formats t as YYYYMMDDHHMMSSffffff.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout) + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// Runner executes one synthetic action against an object store.
type Runner struct {
	Store stager.ObjectStore

	// WorkDir receives downloaded inputs and the output blob. Empty means
	// the current directory.
	WorkDir string

	// Log receives every log line. Nil discards them.
	Log func(string)

	// Now and Sleep default to the wall clock and a context-aware sleep.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Result describes a completed run.
type Result struct {
	OutputKey  string
	OutputPath string
	Timestamps []string // the six phase lines, in order
}

// Run executes args. Any failure aborts the run.
func (r *Runner) Run(ctx context.Context, args manifest.Arguments) (*Result, error) {
	if args.ExecutionTime < 0 || math.IsNaN(args.ExecutionTime) {
		return nil, &model.DurationError{Kind: "action", ID: args.ActionID, Value: args.ExecutionTime}
	}
	if args.OutputSizeInBytes < 0 {
		return nil, fmt.Errorf("action %s: negative output size %d", args.ActionID, args.OutputSizeInBytes)
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logf := func(format string, a ...any) string {
		line := fmt.Sprintf(format, a...)
		if r.Log != nil {
			r.Log(line)
		}
		return line
	}
	ts := func() string { return Timestamp(now()) }

	id := args.ActionID
	execTime := formatSeconds(args.ExecutionTime)
	res := &Result{}

	res.Timestamps = append(res.Timestamps, logf("LOG DOWNLOAD[%s][%d][START]: began downloading files from S3 at time: %s", id, args.InputSizeInBytes, ts()))
	for _, file := range args.InputFiles {
		logf("Downloading file: %s", file)
		local := filepath.Join(r.WorkDir, ts()+"-"+filepath.Base(file))
		if err := r.Store.GetFile(ctx, path.Join(args.Folder, file), local); err != nil {
			logf("ERROR: Failed to download: %s", file)
			return nil, err
		}
	}
	res.Timestamps = append(res.Timestamps, logf("LOG DOWNLOAD[%s][%d][FINISH]: finished downloading files from S3 at time: %s", id, args.InputSizeInBytes, ts()))

	res.Timestamps = append(res.Timestamps, logf("LOG SLEEP[%s][%s][START]: began sleeping at time: %s", id, execTime, ts()))
	if err := sleep(ctx, time.Duration(args.ExecutionTime*float64(time.Second))); err != nil {
		return nil, err
	}
	res.Timestamps = append(res.Timestamps, logf("LOG SLEEP[%s][%s][FINISH]: finished sleeping at time: %s", id, execTime, ts()))

	outName := "output_" + ts() + ".bin"
	res.OutputPath = filepath.Join(r.WorkDir, outName)
	if err := writeSparse(res.OutputPath, args.OutputSizeInBytes); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	res.OutputKey = path.Join(args.Folder, outName)
	res.Timestamps = append(res.Timestamps, logf("LOG OUTPUT[%s][%d][START]: began transferring output file to S3 at time: %s", id, args.OutputSizeInBytes, ts()))
	if err := r.Store.PutFile(ctx, res.OutputKey, res.OutputPath); err != nil {
		return nil, err
	}
	res.Timestamps = append(res.Timestamps, logf("LOG OUTPUT[%s][%d][FINISH]: finished transferring output file to S3 at time: %s", id, args.OutputSizeInBytes, ts()))

	logf("Function %s finished; output written to %s in default S3 bucket", model.DefaultFunctionName, res.OutputKey)
	for _, line := range res.Timestamps[:5] {
		logf("%s", line)
	}
	return res, nil
}

// LoadArgs reads action arguments from path. With an empty action the file
// holds a bare Arguments object; otherwise it is a workflow manifest and the
// named action's arguments are returned.
func LoadArgs(path, action string) (manifest.Arguments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest.Arguments{}, fmt.Errorf("read arguments: %w", err)
	}
	if action == "" {
		var args manifest.Arguments
		if err := json.Unmarshal(data, &args); err != nil {
			return manifest.Arguments{}, fmt.Errorf("parse arguments %s: %w", path, err)
		}
		return args, nil
	}

	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest.Arguments{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	entry, ok := m.ActionList[action]
	if !ok {
		return manifest.Arguments{}, fmt.Errorf("manifest %s: no action %q", path, action)
	}
	return entry.Arguments, nil
}

func writeSparse(name string, size int64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// formatSeconds prints whole seconds with one decimal, matching how the
// FaaSr runtime logs float arguments.
func formatSeconds(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
