package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/janhq/amo-server/internal/domain/conversation"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a recording, optionally answering it with speech",
	Long: `Uploads the recording to /voice/transcribe and prints the text.
With --reply the transcript is sent through /voice/chat-voice and the spoken
answer is written to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().Bool("reply", false, "Answer the transcript with synthesized speech")
	transcribeCmd.Flags().StringP("out", "o", "reply.mp3", "Output file for the spoken answer")
	transcribeCmd.Flags().String("voice", "", "Voice for the spoken answer")
	transcribeCmd.Flags().Float64("speed", 0, "Speech speed between 0.25 and 4.0")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	client := newBackend(cmd, log)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	text, err := client.Transcribe(ctx, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "you: %s\n", text)

	if reply, _ := cmd.Flags().GetBool("reply"); !reply {
		return nil
	}

	voice, _ := cmd.Flags().GetString("voice")
	turns := []conversation.Turn{{Role: conversation.RoleUser, Content: text}}
	answer, err := client.ChatVoice(ctx, turns, voice, speedFlag(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "amo: %s\n", answer.Text)

	path, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(path, answer.Audio, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "wrote %d bytes to %s\n", len(answer.Audio), path)
	return nil
}
