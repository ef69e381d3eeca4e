package main

import (
	"fmt"
	"os"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
