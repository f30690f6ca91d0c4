//go:build mage

// Build targets for the inquisition admin.
//
//	mage build   Compile server and orderctl to bin/
//	mage test    Run all tests
//	mage lint    Run go vet and golangci-lint
//	mage clean   Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

var commands = map[string]string{
	"inquisition-server": "./cmd/server",
	"orderctl":           "./cmd/orderctl",
}

// Build compiles every binary to bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range commands {
		if err := sh.RunV("go", "build", "-o", filepath.Join(binDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet, then golangci-lint.
func Lint() error {
	mg.Deps(Vet)
	return sh.RunV("golangci-lint", "run", "./...")
}

func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binDir)
}
