// Command ergotest-worker is the worker side of the out-of-process protocol
// (spec.md §4.7 "Worker side"). It is never invoked directly; the parent
// process (internal/worker.RunInChildProcessAsync) re-execs this same
// binary with worker.WorkerSubcommand as its sole argument, the Go
// analogue of `child_process.fork`.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/engine"
	"github.com/jamesshore/ergotest-sub002/internal/loader"
	"github.com/jamesshore/ergotest-sub002/internal/render"
	"github.com/jamesshore/ergotest-sub002/internal/result"
	"github.com/jamesshore/ergotest-sub002/internal/worker"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] != worker.WorkerSubcommand {
		fmt.Fprintln(os.Stderr, "ergotest-worker: this binary is only meant to be launched by the ergotest runner")
		os.Exit(1)
	}
	runWorker()
}

// runWorker reads the single request line, runs the suite, and streams
// progress/keepalive/complete messages back — catching any panic that
// escapes the engine itself (not user-test panics, which the engine already
// converts to fail results). spec.md §8 "Unhandled rejection" says the run
// still *resolves*, with a single failing case named ["Unhandled error in
// tests"], so this reports it via a complete message carrying that
// synthetic result — not fatal, which is reserved for the category 3/4
// failures spec.md §7 says abort the run outright (a renderer that fails to
// load, or a malformed/missing request).
func runWorker() {
	defer func() {
		if r := recover(); r != nil {
			emitUnhandledError(fmt.Sprintf("%v", r))
		}
	}()

	req, err := readRequest(os.Stdin)
	if err != nil {
		emit(message{Type: msgFatal, Message: "Failed to read worker request", Err: err.Error()})
		return
	}

	logger := log.New(os.Stderr, "[ergotest-worker "+req.RunID+"] ", log.LstdFlags)
	logger.Printf("loading %d test module(s)", len(req.ModulePaths))

	root := loader.Load(req.ModulePaths)

	renderer := render.Plain
	if req.Renderer != "" {
		if r, ok := loadRenderer(req.Renderer); ok {
			renderer = r
		}
	}

	var mu sync.Mutex
	keepaliveCancel := startKeepalive(250 * time.Millisecond)
	defer keepaliveCancel()

	eng := engine.New(engine.Options{
		Clock:          clock.New(),
		DefaultTimeout: timeoutFromRequest(req),
		Config:         config.Map(req.Config),
		Renderer:       renderer,
		OnTestCaseResult: func(cr result.TestCaseResult) {
			mu.Lock()
			defer mu.Unlock()
			data, err := cr.Serialize()
			if err != nil {
				return
			}
			emit(message{Type: msgProgress, Result: data})
		},
	})

	suiteResult := eng.Run(context.Background(), root)
	logger.Printf("run complete: %d total", suiteResult.Count().Total)

	data, err := suiteResult.Serialize()
	if err != nil {
		emit(message{Type: msgFatal, Message: "Failed to serialize suite result", Err: err.Error()})
		return
	}
	emit(message{Type: msgComplete, Result: data})
}

// emitUnhandledError reports a panic that escaped the engine as a completed
// run containing one synthetic failing case, per spec.md §8's "Unhandled
// rejection" worked example — falling back to fatal only if the synthetic
// result itself can't be serialized, which would indicate a deeper
// invariant violation than the original panic.
func emitUnhandledError(errText string) {
	sr := unhandledErrorSuite(errText)
	data, err := sr.Serialize()
	if err != nil {
		emit(message{Type: msgFatal, Message: "Failed to serialize unhandled-error result", Err: err.Error()})
		return
	}
	emit(message{Type: msgComplete, Result: data})
}

func unhandledErrorSuite(errText string) *result.TestSuiteResult {
	name := []string{"Unhandled error in tests"}
	c := result.TestCaseResult{It: result.Fail(name, nil, errText, nil)}
	return &result.TestSuiteResult{Tests: []result.TestResult{{Case: &c}}}
}

func timeoutFromRequest(req worker.Request) time.Duration {
	if req.TimeoutMs <= 0 {
		return 2000 * time.Millisecond
	}
	return time.Duration(req.TimeoutMs) * time.Millisecond
}

// startKeepalive emits a keepalive tick on a fixed interval independent of
// test progress (spec.md §4.7 "Worker side": "emit keepalive on a periodic
// tick independent of test progress").
func startKeepalive(interval time.Duration) func() {
	quit := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				emit(message{Type: msgKeepalive})
			case <-quit:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(quit) }) }
}

func readRequest(r *os.File) (worker.Request, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return worker.Request{}, err
		}
		return worker.Request{}, fmt.Errorf("no request received on stdin")
	}
	var req worker.Request
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		return worker.Request{}, err
	}
	return req, nil
}

func loadRenderer(path string) (render.ErrorRenderer, bool) {
	fn, ok := loader.LoadRenderer(path)
	return fn, ok
}

var emitMu sync.Mutex

func emit(m message) {
	emitMu.Lock()
	defer emitMu.Unlock()
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stdout, string(data))
}

// message mirrors internal/worker's unexported wire shape; duplicated here
// (rather than exported from internal/worker) since only this binary and
// internal/worker.RunInChildProcessAsync ever speak the protocol, and each
// side only needs its own half of it.
type message struct {
	Type    string          `json:"type"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Err     string          `json:"err,omitempty"`
}

const (
	msgKeepalive = "keepalive"
	msgProgress  = "progress"
	msgComplete  = "complete"
	msgFatal     = "fatal"
)
