// Package main is the entry point for the fretwise CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fretwise/fretwise/pkg/api"
	"github.com/fretwise/fretwise/pkg/config"
	"github.com/fretwise/fretwise/pkg/metrics"
	"github.com/fretwise/fretwise/pkg/midiio"
	"github.com/fretwise/fretwise/pkg/tab"
	"github.com/fretwise/fretwise/pkg/tab/export"
	"github.com/fretwise/fretwise/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	presetName string
	serverAddr string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fretwise",
	Short: "Convert transcribed MIDI into playable tablature",
	Long: `fretwise turns a transcribed note sequence (a standard MIDI file)
into playable guitar or bass tablature. Fingerings are chosen by a
dynamic-programming solver that minimizes hand travel and prefers open
strings and low frets; slides, hammer-ons and pull-offs are annotated.

Examples:
  fretwise convert solo.mid -o solo.txt
  fretwise convert solo.mid -o solo.json --preset bass
  fretwise convert riff.mid -o riff.mid --preset drop-d
  fretwise presets
  fretwise tui
  fretwise serve --addr :8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.mid>",
	Short: "Convert a MIDI file to tablature",
	Long:  `Reads a MIDI file and writes tablature. The output format follows the output extension: .txt for ASCII tab, .json for JSON, .mid for MIDI.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List tuning presets",
	RunE:  runPresets,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&presetName, "preset", "t", "", "Tuning preset (guitar, drop-d, bass, bass-5)")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	serveCmd.Flags().StringVarP(&serverAddr, "addr", "a", "", "Listen address (overrides config)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	notes, err := midiio.ReadFile(input)
	if err != nil {
		return err
	}

	tuning, err := cfg.Tuning(presetName)
	if err != nil {
		return err
	}

	arranger, err := tab.NewArranger(tuning, cfg.Weights(),
		tab.WithTechniqueParams(cfg.TechniqueParams()))
	if err != nil {
		return err
	}

	fmt.Printf("Arranging %d notes from %s\n", len(notes), input)
	result, err := arranger.Arrange(notes)
	if err != nil {
		return err
	}
	for _, d := range result.Dropped {
		fmt.Printf("  warning: dropped note at %.2fs: %s\n", d.Note.Start, d.Reason)
	}

	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	var out []byte
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".txt", ".tab":
		out = []byte(export.ASCII(tuning, result.Notes, title, cfg.ASCIIResolution))
	case ".json":
		out, err = export.JSON(tuning, result.Notes, title)
	case ".mid", ".midi":
		out, err = export.MIDI(tuning, result.Notes, cfg.Tempo)
	default:
		return fmt.Errorf("cannot determine output format from %q (use .txt, .json or .mid)", outputFile)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputFile, out, 0644); err != nil {
		return err
	}

	fmt.Printf("Converted %s -> %s (%d tab notes)\n", input, outputFile, len(result.Notes))
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, name := range tab.PresetNames() {
		t, err := tab.Preset(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s %v\n", name, t.OpenPitches())
	}
	for name, open := range cfg.Tunings {
		fmt.Printf("%-8s %v (configured)\n", name, open)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serverAddr != "" {
		cfg.Addr = serverAddr
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	fmt.Printf("Starting fretwise API server on %s\n", cfg.Addr)
	fmt.Printf("Swagger docs at http://localhost%s/swagger/index.html\n", cfg.Addr)

	srv := api.NewServer(cfg, log, metrics.New())
	return srv.Run()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
