// Package main provides the entry point for the jobcoach HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobcoach",
	Short: "Jobcoach HTTP API Server",
	Long:  "Jobcoach matches Belgian job seekers with Forem offers and walks new candidates through the registration tunnel via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
