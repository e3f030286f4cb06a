package worker

import (
	"io"
	"log"
	"os"
)

var logOutput io.Writer = os.Stderr

// runLogger prefixes every line with the run's correlation ID, the Go
// analogue of gode's indentation-prefixed Console.Log: a thin wrapper over
// the standard logger rather than a structured-logging dependency, matching
// the plain fmt-based texture the teacher's own console bridge uses.
type runLogger struct {
	*log.Logger
}

func newRunLogger(runID string) *runLogger {
	return &runLogger{log.New(logOutput, "[ergotest "+runID+"] ", log.LstdFlags)}
}
