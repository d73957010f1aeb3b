// # cmd/astfind/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"astfind/internal/core/errors"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitQuery = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and maps the outcome to an exit code.
// Per-file search errors are reported as records and never change it.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errors.Message(err))
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if errors.IsCode(err, errors.CodeQuery) {
		return exitQuery
	}
	return exitError
}
