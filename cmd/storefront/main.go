// Command storefront serves the users, products and orders commands to the
// desktop front end over a loopback HTTP bridge.
//
// @title        Storefront command bridge
// @version      1.0
// @description  Local command bridge between the desktop front end and the users, products and orders store.
// @host         127.0.0.1:1420
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Process exit codes. Connect and schema failures are distinct so an
// operator can tell them apart without reading logs.
const (
	exitFailure = 1
	exitConnect = 2
	exitSchema  = 3
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(exitCode(err))
	}
}
