package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "underwriter",
	Short: "Underwriting core for SE/NO/DK home, travel and accident quotes",
	Long: `Underwriter Unified CLI

견적 생성, 가이드라인 평가, 재견적 정책, 가격 결정.

Usage:
  go run ./cmd/underwriter [command]

Examples:
  go run ./cmd/underwriter api
  go run ./cmd/underwriter migrate up
  go run ./cmd/underwriter evaluate --file quote.json
  go run ./cmd/underwriter scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
