// Command litedemo calls an OpenAI-compatible chat completion endpoint
// (by default a local mock on http://localhost:3000/v1) once without
// streaming and once with streaming, printing both results.
//
// Usage:
//
//	litedemo [--base-url URL] [--model NAME] [--prompt TEXT] [--raw-chunks] [--metrics]
//	litedemo models
//
// Failed calls are printed and the command still exits 0. Configuration
// errors exit 1 before any call is made.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
