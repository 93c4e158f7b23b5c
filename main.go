package main

import (
	"github.com/devicelab-dev/uitest-runner/pkg/cli"
)

// Version information, set at build time via ldflags.
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
