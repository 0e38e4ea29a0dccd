package execcontext

import (
	"context"
	"fmt"
	"io"
)

// RunContext carries the context and output streams a command body writes to.
// Commands never touch os.Stdout directly so tests can capture both streams.
type RunContext struct {
	Context context.Context
	StdOut  io.Writer
	StdErr  io.Writer
}

func (rc RunContext) Write(p []byte) (n int, err error) {
	return rc.StdOut.Write(p)
}

func (rc RunContext) Printf(format string, v ...any) {
	fmt.Fprintf(rc.StdOut, format, v...)
}

// Errorf writes to the error stream.
func (rc RunContext) Errorf(format string, v ...any) {
	fmt.Fprintf(rc.StdErr, format, v...)
}
