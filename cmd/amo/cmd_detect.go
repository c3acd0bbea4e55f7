package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/amo-server/internal/domain/visual"
)

var detectCmd = &cobra.Command{
	Use:   "detect <message>...",
	Short: "Pick visual content for a conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().String("mode", string(visual.ModeCanvas), "Detection mode (canvas or voice)")
	detectCmd.Flags().Bool("json", false, "Print the full detection as JSON")
}

func runDetect(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")

	det, err := newBackend(cmd, log).DetectVisual(cmd.Context(), args, visual.Mode(mode))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(det)
	}
	out := cmd.OutOrStdout()
	if det.Content == nil {
		fmt.Fprintln(out, "no product detected")
		return nil
	}
	fmt.Fprintf(out, "category: %s\n", det.Category)
	printVisual(cmd, *det.Content)
	printRecommendations(cmd, det.Recommendations)
	return nil
}
