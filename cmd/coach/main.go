package main

import (
	"fmt"
	"os"

	"github.com/bryanwahyu/idea-coach/internal/cli"
)

var (
	version = "dev" // Overwritten at build time
)

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
