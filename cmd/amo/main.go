package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janhq/amo-server/internal/client/backend"
	"github.com/janhq/amo-server/internal/infrastructure/logger"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "amo",
	Short: "Amo - conversational shopping assistant client",
	Long: `amo talks to the Amo API the way the web client does.

Examples:
  # Text chat with visual suggestions
  amo chat

  # Batch voice round-trips
  amo say "Which stroller fits in a small trunk?" --out reply.mp3
  amo transcribe question.webm --reply --out answer.mp3

  # Live voice session, playing question.ogg as the microphone
  amo voice --input question.ogg --record ./recordings

  # Visual content for a conversation
  amo detect "I need a pickleball paddle"`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(detectCmd)

	rootCmd.PersistentFlags().String("server", "", "Amo API base URL (env AMO_SERVER_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 2*time.Minute, "Request timeout")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level")
}

func flagOrEnv(cmd *cobra.Command, flag, env, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// newLogger writes to stderr so command output stays clean on stdout.
func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewWriter(cmd.ErrOrStderr(), level, "console")
}

func newBackend(cmd *cobra.Command, log zerolog.Logger) *backend.Client {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return backend.New(flagOrEnv(cmd, "server", "AMO_SERVER_URL", backend.DefaultBaseURL), timeout, log)
}
