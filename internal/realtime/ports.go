// Package realtime runs a live voice conversation with the provider over a
// peer connection and relays its control-channel events into a conversation.
package realtime

import (
	"context"

	"github.com/pion/rtp"

	rtsession "github.com/janhq/amo-server/internal/domain/realtime"
)

// ControlChannelLabel is the label of the provider's event channel.
const ControlChannelLabel = "oai-events"

// CredentialSource provisions one ephemeral credential per attempt.
type CredentialSource interface {
	CreateRealtimeSession(ctx context.Context, req rtsession.SessionRequest) (*rtsession.Credential, error)
}

// Constraints are the capture settings requested for the microphone.
type Constraints struct {
	EchoCancellation bool
	NoiseSuppression bool
	SampleRate       int
}

// DefaultConstraints matches the provider's 24 kHz voice pipeline.
var DefaultConstraints = Constraints{
	EchoCancellation: true,
	NoiseSuppression: true,
	SampleRate:       24000,
}

// MediaSource hands out microphone captures.
type MediaSource interface {
	Acquire(ctx context.Context, c Constraints) (Microphone, error)
}

// Microphone is an acquired capture. Stop ends every track it owns.
type Microphone interface {
	SetEnabled(enabled bool)
	Enabled() bool
	Stop()
}

// RemoteAudio is the provider's inbound audio track.
type RemoteAudio interface {
	ID() string
	ReadRTP() (*rtp.Packet, error)
}

// AudioSink plays remote audio. One sink is shared by every session.
type AudioSink interface {
	Attach(track RemoteAudio)
}

// DataChannel is the control channel.
type DataChannel interface {
	Label() string
	OnOpen(fn func())
	OnMessage(fn func(data []byte))
	OnError(fn func(err error))
	SendText(text string) error
	Close() error
}

// PeerConnection is the subset of a WebRTC peer the transport drives.
type PeerConnection interface {
	OnTrack(fn func(track RemoteAudio))
	AddMicrophone(mic Microphone) error
	CreateDataChannel(label string) (DataChannel, error)
	// CreateOffer sets the offer as local description and returns it once
	// ICE gathering is complete.
	CreateOffer(ctx context.Context) (string, error)
	SetAnswer(sdp string) error
	Close() error
}

// PeerFactory creates peer connections.
type PeerFactory interface {
	NewPeer(ctx context.Context) (PeerConnection, error)
}

// Signaler trades an SDP offer for the provider's answer.
type Signaler interface {
	Exchange(ctx context.Context, model, ephemeralKey, offerSDP string) (string, error)
}
