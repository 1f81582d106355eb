package main

import (
	"github.com/aviary-labs/aviary/internal/adapters/driving/cli"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.Execute(version)
}
