// Command finquery answers natural-language questions about client financial records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rshade/finquery/internal/cli"
	"github.com/rshade/finquery/pkg/version"
)

func main() {
	err := run(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// run executes the root command with args, cancelling on interrupt.
func run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
