package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var hittestCmd = &cobra.Command{
	Use:   "hittest [script] [x] [y]",
	Short: "Report the element under a point after replaying a script",
	Args:  cobra.ExactArgs(3),
	Run:   runHittest,
}

func init() {
	rootCmd.AddCommand(hittestCmd)
}

func runHittest(cmd *cobra.Command, args []string) {
	x, errX := strconv.ParseFloat(args[1], 64)
	y, errY := strconv.ParseFloat(args[2], 64)
	if errX != nil || errY != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid point %s,%s\n", args[1], args[2])
		os.Exit(1)
	}

	eng, err := replayFile(args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	id := eng.HitTest(x, y)
	if id < 0 {
		fmt.Println("no element")
		return
	}
	e := eng.Elements()[id]
	fmt.Printf("element %d (%s) from (%g, %g) to (%g, %g)\n", e.ID, e.Kind, e.Start.X, e.Start.Y, e.End.X, e.End.Y)
}
