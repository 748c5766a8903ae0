package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roughboard/roughboard/internal/element"
	"github.com/roughboard/roughboard/internal/engine"
	"github.com/roughboard/roughboard/internal/export"
	"github.com/roughboard/roughboard/internal/render"
	"github.com/roughboard/roughboard/internal/script"
)

var (
	replayFormat    string
	replayOutput    string
	replayRoughness float64
	replaySeed      uint64
	replayPageSize  string
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run an event script and write the resulting scene",
	Long:  "Replay every event in the script, then write the final frame as draw-command JSON or as a PDF page.",
	Args:  cobra.ExactArgs(1),
	Run:   runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", "json", "Output format: json or pdf")
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "Output file (default stdout)")
	replayCmd.Flags().Float64Var(&replayRoughness, "roughness", 0, "Stroke roughness")
	replayCmd.Flags().Uint64Var(&replaySeed, "seed", 0, "Seed for rough strokes")
	replayCmd.Flags().StringVar(&replayPageSize, "page", "A4", "PDF page size")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	gen := render.NewGenerator()
	gen.Roughness = replayRoughness
	gen.Seed = replaySeed

	eng, err := replayFile(args[0], gen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := io.Writer(os.Stdout)
	if replayOutput != "" {
		f, err := os.Create(replayOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	switch replayFormat {
	case "json":
		data, err := render.DrawCommandsToJSON(render.CompileDrawCommands(eng.Elements()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(out, data)
	case "pdf":
		pdf := export.NewPDF(replayPageSize)
		if err := pdf.Draw(eng.Elements()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if _, err := pdf.WriteTo(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PDF: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", replayFormat)
		os.Exit(1)
	}
}

func replayFile(path string, renderer element.Renderer) (*engine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	events, err := script.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	eng := engine.NewEngine(element.NewFactory(renderer))
	if err := script.Replay(eng, events); err != nil {
		return nil, err
	}
	return eng, nil
}
