package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/janhq/amo-server/internal/domain/conversation"
	"github.com/janhq/amo-server/internal/domain/visual"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive text chat",
	Long: `Reads one message per line from stdin and prints the assistant reply.
After every reply the conversation is classified and the visual content is
printed when its category changes. Type /history to print the conversation
as JSON and /quit to leave.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	client := newBackend(cmd, log)
	session := conversation.NewSession()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "session %s\n", session.ID())
	category := ""
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "/quit":
			return nil
		case "/history":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(session.Snapshot()); err != nil {
				return err
			}
			continue
		}

		session.Append(conversation.RoleUser, line)
		session.SetLoading(true)
		reply, err := client.Chat(ctx, session.ID(), session.Turns())
		session.SetLoading(false)
		if err != nil {
			session.Append(conversation.RoleAssistant, "Sorry, I encountered an error. Please try again.")
			fmt.Fprintf(cmd.ErrOrStderr(), "chat failed: %v\n", err)
			continue
		}
		session.Append(conversation.RoleAssistant, reply)
		fmt.Fprintf(out, "amo: %s\n", reply)

		det, err := client.DetectVisual(ctx, session.Contents(), visual.ModeCanvas)
		if err != nil {
			log.Warn().Err(err).Msg("visual detection failed")
			continue
		}
		if det.Category != category && det.Content != nil {
			category = det.Category
			printVisual(cmd, *det.Content)
		}
	}
}

func printVisual(cmd *cobra.Command, content visual.Content) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[visual] %s (%s)\n", content.Title, content.Kind)
	if content.Description != "" {
		fmt.Fprintf(out, "         %s\n", content.Description)
	}
	for _, item := range content.Items {
		fmt.Fprintf(out, "         - %s %s\n", item.Name, item.PriceRange)
	}
}

func printRecommendations(cmd *cobra.Command, recs []visual.Recommendation) {
	out := cmd.OutOrStdout()
	for _, rec := range recs {
		fmt.Fprintf(out, "  * %s %s (%.1f) %s\n", rec.Name, rec.Price, rec.Rating, rec.KeyFeature)
	}
}
