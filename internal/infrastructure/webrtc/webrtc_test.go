package webrtc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/amo-server/internal/realtime"
)

type scriptedTrack struct {
	packets []*rtp.Packet
}

func (s *scriptedTrack) ID() string { return "scripted" }

func (s *scriptedTrack) ReadRTP() (*rtp.Packet, error) {
	if len(s.packets) == 0 {
		return nil, io.EOF
	}
	p := s.packets[0]
	s.packets = s.packets[1:]
	return p, nil
}

func opusPacket(seq uint16, ts uint32) *rtp.Packet {
	return &rtp.Packet{
		Header:  rtp.Header{Version: 2, PayloadType: 111, SequenceNumber: seq, Timestamp: ts},
		Payload: silenceFrame,
	}
}

func TestDefaultSinkIsSingleton(t *testing.T) {
	assert.Same(t, DefaultSink(), DefaultSink())
}

func TestSinkWritesOggFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(zerolog.Nop())
	s.SetOutputDir(dir)

	s.Attach(&scriptedTrack{packets: []*rtp.Packet{opusPacket(1, 960), opusPacket(2, 1920), opusPacket(3, 2880)}})
	s.Wait()

	files, err := filepath.Glob(filepath.Join(dir, "*.ogg"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "OggS"))
}

func TestSinkWithoutDirDiscards(t *testing.T) {
	s := NewSink(zerolog.Nop())
	track := &scriptedTrack{packets: []*rtp.Packet{opusPacket(1, 960)}}
	s.Attach(track)
	s.Wait()
	assert.Empty(t, track.packets)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.ogg"), false, zerolog.Nop())
	_, err := src.Acquire(context.Background(), realtime.DefaultConstraints)
	assert.Error(t, err)
}

func TestSilentMicrophoneToggleAndStop(t *testing.T) {
	src := NewFileSource("", false, zerolog.Nop())
	mic, err := src.Acquire(context.Background(), realtime.DefaultConstraints)
	require.NoError(t, err)

	assert.True(t, mic.Enabled())
	mic.SetEnabled(false)
	assert.False(t, mic.Enabled())
	mic.SetEnabled(true)

	m := mic.(*Microphone)
	m.start()
	time.Sleep(3 * frameDuration)

	done := make(chan struct{})
	go func() {
		mic.Stop()
		mic.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("microphone did not stop")
	}
	assert.False(t, mic.Enabled())
}

func TestPeerOfferCarriesAudioAndControlChannel(t *testing.T) {
	factory, err := NewPeerFactory(nil, zerolog.Nop())
	require.NoError(t, err)

	peer, err := factory.NewPeer(context.Background())
	require.NoError(t, err)
	defer peer.Close()

	mic, err := NewFileSource("", false, zerolog.Nop()).Acquire(context.Background(), realtime.DefaultConstraints)
	require.NoError(t, err)
	defer mic.Stop()

	require.NoError(t, peer.AddMicrophone(mic))
	dc, err := peer.CreateDataChannel(realtime.ControlChannelLabel)
	require.NoError(t, err)
	assert.Equal(t, "oai-events", dc.Label())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	offer, err := peer.CreateOffer(ctx)
	require.NoError(t, err)
	assert.Contains(t, offer, "m=audio")
	assert.Contains(t, offer, "m=application")
	assert.Contains(t, offer, "opus")
}

type otherMic struct{}

func (otherMic) SetEnabled(bool) {}
func (otherMic) Enabled() bool { return true }
func (otherMic) Stop() {}

func TestPeerRejectsForeignMicrophone(t *testing.T) {
	factory, err := NewPeerFactory(nil, zerolog.Nop())
	require.NoError(t, err)
	peer, err := factory.NewPeer(context.Background())
	require.NoError(t, err)
	defer peer.Close()

	assert.Error(t, peer.AddMicrophone(otherMic{}))
}
