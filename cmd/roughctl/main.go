package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roughctl",
	Short: "Replay and inspect roughboard drawing scripts",
	Long: `roughctl runs JSON-lines event scripts through the drawing engine.
It can print the resulting draw commands, export the scene as a PDF,
hit-test a point, or find roughboard servers on the local network.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
