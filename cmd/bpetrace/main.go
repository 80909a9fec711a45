package main

import "github.com/bpetrace/bpetrace/internal/cli"

// version, commit, date are injected by the linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Execute(version, commit, date)
}
