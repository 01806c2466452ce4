// muko – switch hosts entries between a local override and production DNS
//
// Build: go build -o muko
//
// Usage:
//   muko                                          # List muko-managed domains
//   sudo muko add example.test --alias ex         # Add example.test -> 127.0.0.1
//   sudo muko add example.test --ip 10.0.0.5      # Add with custom IP
//   sudo muko prod ex                             # Comment out, use real DNS
//   sudo muko dev ex                              # Uncomment, use custom IP
//   muko list --json                              # Report as JSON

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"muko/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	runner := &cli.Runner{Deps: cli.DefaultDeps()}
	code := runner.Execute(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
