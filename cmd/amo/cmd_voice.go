package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/janhq/amo-server/internal/domain/conversation"
	rtsession "github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/infrastructure/openai"
	"github.com/janhq/amo-server/internal/infrastructure/store"
	"github.com/janhq/amo-server/internal/infrastructure/webrtc"
	"github.com/janhq/amo-server/internal/realtime"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Live voice session with the assistant",
	Long: `Opens a realtime WebRTC session with the provider. The --input Ogg/Opus
file plays as the microphone (silence when omitted) and the assistant's audio
is recorded to --record.

While connected, stdin accepts:
  <text>    send a typed message
  /pause    mute the microphone
  /resume   unmute the microphone
  /reset    start the visuals over
  /quit     disconnect`,
	RunE: runVoice,
}

func init() {
	voiceCmd.Flags().String("input", "", "Ogg/Opus file used as the microphone")
	voiceCmd.Flags().Bool("loop", false, "Loop the input file")
	voiceCmd.Flags().String("record", "", "Directory for recorded assistant audio")
	voiceCmd.Flags().String("model", "", "Realtime model")
	voiceCmd.Flags().String("voice", "", "Realtime voice")
	voiceCmd.Flags().String("instructions", "", "Session instructions")
	voiceCmd.Flags().Bool("direct", false, "Provision credentials with the API key instead of the server")
	voiceCmd.Flags().String("api-key", "", "Provider API key for --direct (env OPENAI_API_KEY)")
	voiceCmd.Flags().String("openai-base-url", "", "Provider base URL (env OPENAI_BASE_URL)")
	voiceCmd.Flags().StringSlice("ice-server", nil, "Additional ICE server URL")
	voiceCmd.Flags().Bool("guide", false, "Show the car seat guide after the first car seat mention")
	voiceCmd.Flags().Duration("guide-delay", visual.DefaultGuideDelay, "Delay before the car seat guide is shown")
}

// provisioner provisions credentials in-process for --direct sessions.
type provisioner struct {
	service rtsession.Service
}

func (p provisioner) CreateRealtimeSession(ctx context.Context, req rtsession.SessionRequest) (*rtsession.Credential, error) {
	return p.service.Provision(ctx, req)
}

func runVoice(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	providerCfg := openai.Config{
		APIKey:  flagOrEnv(cmd, "api-key", "OPENAI_API_KEY", ""),
		BaseURL: flagOrEnv(cmd, "openai-base-url", "OPENAI_BASE_URL", openai.DefaultBaseURL),
		Timeout: timeout,
	}

	credentials, err := credentialSource(cmd, providerCfg, log)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	loop, _ := cmd.Flags().GetBool("loop")
	iceServers, _ := cmd.Flags().GetStringSlice("ice-server")
	peers, err := webrtc.NewPeerFactory(iceServers, log)
	if err != nil {
		return err
	}

	sink := webrtc.DefaultSink()
	if dir, _ := cmd.Flags().GetString("record"); dir != "" {
		sink.SetOutputDir(dir)
	}

	relay, err := newVoiceRelay(cmd, log)
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	voice, _ := cmd.Flags().GetString("voice")
	instructions, _ := cmd.Flags().GetString("instructions")
	transport := realtime.NewTransport(realtime.Deps{
		Credentials: credentials,
		Media:       webrtc.NewFileSource(input, loop, log),
		Peers:       peers,
		Signaler:    openai.NewSignaler(providerCfg, log),
		Sink:        sink,
	}, relay, realtime.Options{
		Session: rtsession.SessionRequest{Model: model, Voice: voice, Instructions: instructions},
	}, log)

	if err := transport.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		transport.Disconnect()
		sink.Wait()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if done := handleVoiceInput(cmd, transport, strings.TrimSpace(line)); done {
				return nil
			}
		}
	}
}

func credentialSource(cmd *cobra.Command, cfg openai.Config, log zerolog.Logger) (realtime.CredentialSource, error) {
	if direct, _ := cmd.Flags().GetBool("direct"); !direct {
		return newBackend(cmd, log), nil
	}
	if cfg.APIKey == "" {
		return nil, errors.New("--direct needs --api-key or OPENAI_API_KEY")
	}
	service := rtsession.NewService(openai.NewRealtimeClient(cfg, log), store.NewMemoryStore(log), rtsession.Defaults{}, log)
	return provisioner{service: service}, nil
}

func newVoiceRelay(cmd *cobra.Command, log zerolog.Logger) (*realtime.Relay, error) {
	catalog, err := visual.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	selector := visual.NewSelector(visual.NewDetector(visual.ModeVoice, catalog), catalog.Landing())

	var opts []realtime.RelayOption
	if guide, _ := cmd.Flags().GetBool("guide"); guide {
		content, ok := catalog.Guide(visual.CategoryBabyCarSeat)
		if ok {
			delay, _ := cmd.Flags().GetDuration("guide-delay")
			opts = append(opts, realtime.WithGuide(content, delay))
		}
	}

	out := cmd.OutOrStdout()
	listener := realtime.Callbacks{
		Status: func(s realtime.Status) {
			if s.State == realtime.StateError {
				fmt.Fprintf(out, "[%s] %s\n", s.State, s.Message)
				return
			}
			fmt.Fprintf(out, "[%s]\n", s.State)
		},
		Message: func(m conversation.Message) {
			who := "you"
			if m.Role == conversation.RoleAssistant {
				who = "amo"
			}
			fmt.Fprintf(out, "%s: %s\n", who, m.Content)
		},
		Visual: func(content visual.Content) {
			printVisual(cmd, content)
		},
		Recommendations: func(recs []visual.Recommendation) {
			printRecommendations(cmd, recs)
		},
	}
	return realtime.NewRelay(conversation.NewSession(), selector, listener, log, opts...), nil
}

func handleVoiceInput(cmd *cobra.Command, transport *realtime.Transport, line string) bool {
	var err error
	switch line {
	case "":
		return false
	case "/quit":
		return true
	case "/pause":
		err = transport.Pause()
	case "/resume":
		err = transport.Resume()
	case "/reset":
		transport.Relay().Reset()
	default:
		err = transport.SendText(line)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
	}
	return false
}
