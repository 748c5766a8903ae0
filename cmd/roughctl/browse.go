package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roughboard/roughboard/internal/discovery"
)

var browseTimeout time.Duration

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List roughboard servers on the local network",
	Args:  cobra.NoArgs,
	Run:   runBrowse,
}

func init() {
	browseCmd.Flags().DurationVarP(&browseTimeout, "timeout", "t", 2*time.Second, "How long to listen for answers")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) {
	peers, err := discovery.Browse(browseTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(peers) == 0 {
		fmt.Println("no servers found")
		return
	}
	for _, p := range peers {
		fmt.Printf("%-24s http://%s\n", p.Instance, p.Addr)
	}
}
