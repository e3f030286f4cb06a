package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/loader"
	"github.com/jamesshore/ergotest-sub002/internal/result"
)

// WorkerSubcommand is the private argument cmd/ergotest-worker's main()
// checks for to enter worker mode when self-reexecuted (spec.md §4.7,
// "spawn an isolated child process running the worker script" — the Go
// analogue of child_process.fork is re-executing our own binary rather
// than forking a separate script).
const WorkerSubcommand = "--ergotest-worker"

// Options configures one out-of-process run (spec.md §6 "options").
type Options struct {
	WorkerBinary      string // path to this same binary; exec.CommandContext's argv[0]
	ModulePaths       []string
	Timeout           time.Duration
	Config            map[string]any
	RendererPath      string
	OnTestCaseResult  func(result.TestCaseResult)
	OnKeepAlive       func()
	Clock             clock.Clock
	WatchdogInterval  time.Duration
}

// outcome is the run's single resolution, delivered exactly once regardless
// of which terminal event (spec.md §4.7's state machine: complete, fatal,
// watchdog, earlyExit, plus a failed renderer preflight) produces it.
type outcome struct {
	res *result.TestSuiteResult
	err error
}

// RunInChildProcessAsync implements spec.md §4.7's "out-of-process" worker
// protocol: spawn, preflight-load the renderer, watch for liveness, dispatch
// the NDJSON message stream, and guarantee the child is killed and reaped
// before returning (step 7: "regardless of outcome").
func RunInChildProcessAsync(ctx context.Context, opts Options) (*result.TestSuiteResult, error) {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	watchdogInterval := opts.WatchdogInterval
	if watchdogInterval == 0 {
		watchdogInterval = 2000 * time.Millisecond
	}

	runID := uuid.New().String()
	logger := newRunLogger(runID)

	cmd := exec.CommandContext(ctx, opts.WorkerBinary, WorkerSubcommand)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker: failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker: failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("worker: failed to start: %w", err)
	}
	logger.Printf("spawned worker pid=%d", cmd.Process.Pid)

	resultCh := make(chan outcome, 1)
	var once sync.Once
	resolve := func(o outcome) {
		once.Do(func() {
			if o.err != nil {
				logger.Printf("run failed: %v", o.err)
			} else {
				logger.Printf("run resolved")
			}
			resultCh <- o
		})
	}

	watchdog := c.KeepAlive(watchdogInterval, func() {
		logger.Printf("watchdog expired after %s of silence", watchdogInterval)
		resolve(outcome{res: syntheticFailureSuite(
			[]string{"Test runner watchdog"}, "Detected infinite loop in tests",
		)})
	})

	if opts.RendererPath != "" {
		go func() {
			if !loader.IsLoadableRendererPath(opts.RendererPath) {
				resolve(outcome{err: fmt.Errorf("Renderer module not found: %s", opts.RendererPath)})
			}
		}()
	}

	go sendRequest(stdin, runID, opts)
	go readMessages(stdout, watchdog, opts, resolve)

	o := <-resultCh

	_ = cmd.Process.Kill()
	_ = cmd.Wait()

	return o.res, o.err
}

func sendRequest(stdin io.WriteCloser, runID string, opts Options) {
	defer stdin.Close()

	req := Request{
		RunID:       runID,
		ModulePaths: opts.ModulePaths,
		Config:      opts.Config,
		Renderer:    opts.RendererPath,
	}
	if opts.Timeout > 0 {
		req.TimeoutMs = opts.Timeout.Milliseconds()
	}
	enc := json.NewEncoder(stdin)
	_ = enc.Encode(req)
}

func readMessages(stdout io.Reader, watchdog *clock.Watchdog, opts Options, resolve func(outcome)) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		var m message
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			continue // malformed line; ignore and keep reading
		}
		switch m.Type {
		case msgKeepalive:
			watchdog.Alive()
			if opts.OnKeepAlive != nil {
				opts.OnKeepAlive()
			}
		case msgProgress:
			cr, err := result.DeserializeCase(m.Result)
			if err == nil && opts.OnTestCaseResult != nil {
				opts.OnTestCaseResult(cr)
			}
		case msgComplete:
			watchdog.Cancel()
			sr, err := result.DeserializeSuite(m.Result)
			if err != nil {
				resolve(outcome{err: fmt.Errorf("worker: malformed complete message: %w", err)})
				return
			}
			resolve(outcome{res: &sr})
			return
		case msgFatal:
			// Reserved for category 3/4 failures spec.md §7 says abort the run
			// outright (a malformed request, a renderer that failed to load).
			// A panic escaping user tests resolves as a complete message
			// carrying a synthetic failing case instead — see
			// cmd/ergotest-worker's emitUnhandledError.
			watchdog.Cancel()
			resolve(outcome{err: fmt.Errorf("%s: %s", m.Message, m.Err)})
			return
		}
	}

	// The child closed its stream (or exited) before sending `complete` or
	// `fatal` (spec.md §4.7 step 6: "Handle the child's early exit").
	resolve(outcome{res: syntheticFailureSuite(
		[]string{"Tests exited early"}, "Test runner process exited before completing its run",
	)})
}

func syntheticFailureSuite(name []string, message string) *result.TestSuiteResult {
	c := result.TestCaseResult{It: result.Fail(name, nil, message, nil)}
	return &result.TestSuiteResult{
		Name:  []string{},
		Tests: []result.TestResult{{Case: &c}},
	}
}
