package main

import (
	"fmt"
	"os"

	"monday-export/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		for _, line := range formatCLIError(err) {
			fmt.Fprintln(os.Stderr, line)
		}
		os.Exit(1)
	}
}

func userAgent() string {
	return "monday-export/" + version
}
