// Package main provides orderctl, a command line front end to the same
// reorder engine the admin server uses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lojf/inquisition/internal/ordering"
)

const (
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates operator mistakes (unknown question, stale list) from
// storage failures.
func exitCode(err error) int {
	if errors.Is(err, ordering.ErrPersistence) {
		return exitSysError
	}
	return exitUserError
}
