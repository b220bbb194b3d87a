// Command dashboard is a local client for the classroom dashboard backend.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd, opts := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if closeErr := opts.teardown(context.Background()); err == nil {
		err = closeErr
	}
	return err
}
