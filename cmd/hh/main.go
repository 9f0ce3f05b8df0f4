// Package main is the entry point for the house-hunter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/azhunt/house-hunter/internal/cli"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
