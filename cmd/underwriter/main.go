package main

import (
	"os"

	"github.com/wonny/underwriter/cmd/underwriter/commands"
)

// main is the entry point for the underwriter CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/underwriter [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
