// Package webrtc implements the realtime transport's peer connection, control
// channel, microphone and audio sink with pion.
package webrtc

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/rtp"
	pion "github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/realtime"
)

// PeerFactory creates pion peer connections that share one API instance.
type PeerFactory struct {
	api    *pion.API
	config pion.Configuration
	log    zerolog.Logger
}

var _ realtime.PeerFactory = (*PeerFactory)(nil)

// NewPeerFactory registers the default codecs. iceServers may be empty; the
// provider offers its own candidates.
func NewPeerFactory(iceServers []string, log zerolog.Logger) (*PeerFactory, error) {
	m := &pion.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	cfg := pion.Configuration{}
	if len(iceServers) > 0 {
		cfg.ICEServers = []pion.ICEServer{{URLs: iceServers}}
	}
	return &PeerFactory{
		api:    pion.NewAPI(pion.WithMediaEngine(m)),
		config: cfg,
		log:    log.With().Str("component", "webrtc-peer").Logger(),
	}, nil
}

func (f *PeerFactory) NewPeer(ctx context.Context) (realtime.PeerConnection, error) {
	pc, err := f.api.NewPeerConnection(f.config)
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}
	p := &Peer{pc: pc, log: f.log}
	pc.OnConnectionStateChange(p.onConnectionState)
	return p, nil
}

// Peer wraps a pion peer connection.
type Peer struct {
	pc  *pion.PeerConnection
	log zerolog.Logger

	mu   sync.Mutex
	mics []*Microphone
}

func (p *Peer) OnTrack(fn func(track realtime.RemoteAudio)) {
	p.pc.OnTrack(func(track *pion.TrackRemote, _ *pion.RTPReceiver) {
		if track.Kind() != pion.RTPCodecTypeAudio {
			return
		}
		p.log.Debug().Str("track_id", track.ID()).Str("codec", track.Codec().MimeType).Msg("remote track received")
		fn(remoteAudio{track: track})
	})
}

// AddMicrophone adds the capture's track. Audio starts flowing once the
// connection is established.
func (p *Peer) AddMicrophone(mic realtime.Microphone) error {
	m, ok := mic.(*Microphone)
	if !ok {
		return fmt.Errorf("unsupported microphone %T", mic)
	}
	sender, err := p.pc.AddTrack(m.track)
	if err != nil {
		return fmt.Errorf("add microphone track: %w", err)
	}

	// RTCP has to be read for interceptors to run.
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()

	p.mu.Lock()
	p.mics = append(p.mics, m)
	p.mu.Unlock()
	return nil
}

func (p *Peer) CreateDataChannel(label string) (realtime.DataChannel, error) {
	dc, err := p.pc.CreateDataChannel(label, nil)
	if err != nil {
		return nil, fmt.Errorf("create data channel: %w", err)
	}
	return &dataChannel{dc: dc}, nil
}

func (p *Peer) CreateOffer(ctx context.Context) (string, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return "", fmt.Errorf("create offer: %w", err)
	}
	gathered := pion.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(offer); err != nil {
		return "", fmt.Errorf("set local description: %w", err)
	}

	select {
	case <-gathered:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return p.pc.LocalDescription().SDP, nil
}

func (p *Peer) SetAnswer(sdp string) error {
	if err := p.pc.SetRemoteDescription(pion.SessionDescription{Type: pion.SDPTypeAnswer, SDP: sdp}); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	return nil
}

func (p *Peer) Close() error {
	return p.pc.Close()
}

func (p *Peer) onConnectionState(state pion.PeerConnectionState) {
	p.log.Debug().Str("state", state.String()).Msg("peer connection state changed")
	if state != pion.PeerConnectionStateConnected {
		return
	}
	p.mu.Lock()
	mics := append([]*Microphone(nil), p.mics...)
	p.mu.Unlock()
	for _, m := range mics {
		m.start()
	}
}

type remoteAudio struct {
	track *pion.TrackRemote
}

func (r remoteAudio) ID() string { return r.track.ID() }

func (r remoteAudio) ReadRTP() (*rtp.Packet, error) {
	pkt, _, err := r.track.ReadRTP()
	return pkt, err
}

type dataChannel struct {
	dc *pion.DataChannel
}

func (d *dataChannel) Label() string { return d.dc.Label() }
func (d *dataChannel) OnOpen(fn func()) { d.dc.OnOpen(fn) }
func (d *dataChannel) OnError(fn func(error)) { d.dc.OnError(fn) }
func (d *dataChannel) SendText(text string) error { return d.dc.SendText(text) }
func (d *dataChannel) Close() error { return d.dc.Close() }

func (d *dataChannel) OnMessage(fn func(data []byte)) {
	d.dc.OnMessage(func(msg pion.DataChannelMessage) {
		fn(msg.Data)
	})
}
