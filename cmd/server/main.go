// Package main is the entry point for the d20 API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "d20-api",
	Short: "D20 encounter tracker API",
	Long:  `D20 API tracks initiative order, turns and hit points for tabletop encounters run from a Telegram Mini App.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
