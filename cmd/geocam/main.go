// Package main provides the entry point for the geocam CLI.
package main

import (
	"context"
	"os"

	"geocam.dev/geocam/internal/cli"
)

func main() {
	ctx := context.Background()
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
