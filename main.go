package main

import (
	"github.com/inkechoes/leaf/internal/cli"
)

// Version info (injected via ldflags)
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
