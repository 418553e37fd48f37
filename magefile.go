//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "hyphipa"

// Default target to run when none is specified
var Default = Build

// Build builds the hyphipa binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/hyphipa")
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs hyphipa to $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/hyphipa")
}

// Clean removes the binary and leftover temporary outputs
func Clean() error {
	fmt.Println("Cleaning")
	if err := sh.Rm(binary); err != nil {
		return err
	}
	tmps, err := filepath.Glob("*.tmp")
	if err != nil {
		return err
	}
	for _, tmp := range tmps {
		if err := os.Remove(tmp); err != nil {
			return err
		}
	}
	return nil
}
