// Package main provides the entry point for the chronicle CLI tool.
package main

import (
	"os"

	"github.com/chronicle-archive/chronicle/cmd/chronicle/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cmd.Execute(version, commit, date))
}
