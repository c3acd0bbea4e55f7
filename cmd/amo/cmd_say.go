package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Synthesize text to an MP3 file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

func init() {
	sayCmd.Flags().StringP("out", "o", "speech.mp3", "Output file")
	sayCmd.Flags().String("voice", "", "Voice (alloy, echo, fable, onyx, nova, shimmer)")
	sayCmd.Flags().Float64("speed", 0, "Speech speed between 0.25 and 4.0")
}

func runSay(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	voice, _ := cmd.Flags().GetString("voice")
	out, _ := cmd.Flags().GetString("out")

	audio, err := newBackend(cmd, log).Synthesize(cmd.Context(), strings.Join(args, " "), voice, speedFlag(cmd))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(audio), out)
	return nil
}

func speedFlag(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("speed") {
		return nil
	}
	speed, _ := cmd.Flags().GetFloat64("speed")
	return &speed
}
