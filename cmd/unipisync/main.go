// Package main provides the entry point for the unipisync CLI tool.
package main

import "github.com/mkngrm/unipisync/cmd/unipisync/cmd"

// Version information populated by the build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
