package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	rtsession "github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/realtime/events"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

var (
	// ErrStaleAttempt is returned by a Connect that was superseded by a
	// Disconnect or a newer Connect while it was in flight.
	ErrStaleAttempt = errors.New("realtime: connection attempt superseded")
	// ErrNotInitialized is returned for sends before the session.update
	// event went out.
	ErrNotInitialized = errors.New("realtime: control channel not initialized")
	ErrNotConnected   = errors.New("realtime: not connected")
	ErrEmptyText      = errors.New("realtime: text is empty")
)

const inboxSize = 256

// Deps are the collaborators a Transport drives.
type Deps struct {
	Credentials CredentialSource
	Media       MediaSource
	Peers       PeerFactory
	Signaler    Signaler
	Sink        AudioSink
}

// Options configure every connection attempt.
type Options struct {
	Session     rtsession.SessionRequest
	Constraints Constraints
}

// Transport owns at most one live connection attempt. Every asynchronous step
// of Connect compares the attempt's generation with the current one and
// abandons the attempt on mismatch.
type Transport struct {
	deps  Deps
	relay *Relay
	opts  Options
	log   zerolog.Logger

	mu         sync.Mutex
	generation uint64
	status     Status
	current    *attempt

	// notifyMu keeps status notifications in the order they were applied.
	notifyMu sync.Mutex
}

// NewTransport creates a disconnected transport. Status changes go to the
// relay's listener, which must not call back into the transport.
func NewTransport(deps Deps, relay *Relay, opts Options, log zerolog.Logger) *Transport {
	if opts.Constraints == (Constraints{}) {
		opts.Constraints = DefaultConstraints
	}
	return &Transport{
		deps:   deps,
		relay:  relay,
		opts:   opts,
		status: Status{State: StateDisconnected},
		log:    log.With().Str("component", "realtime-transport").Logger(),
	}
}

type attempt struct {
	gen   uint64
	inbox chan []byte
	done  chan struct{}

	mu          sync.Mutex
	cred        *rtsession.Credential
	mic         Microphone
	peer        PeerConnection
	dc          DataChannel
	initialized bool
	released    bool
}

func newAttempt(gen uint64) *attempt {
	return &attempt{
		gen:   gen,
		inbox: make(chan []byte, inboxSize),
		done:  make(chan struct{}),
	}
}

// release closes everything the attempt holds. It may run more than once;
// each run releases whatever was acquired since the previous one.
func (a *attempt) release() {
	a.mu.Lock()
	peer, dc, mic := a.peer, a.dc, a.mic
	a.peer, a.dc, a.mic = nil, nil, nil
	a.initialized = false
	if !a.released {
		a.released = true
		close(a.done)
	}
	a.mu.Unlock()

	if peer != nil {
		_ = peer.Close()
	}
	if dc != nil {
		_ = dc.Close()
	}
	if mic != nil {
		mic.Stop()
	}
}

func (a *attempt) enqueue(data []byte) {
	msg := append([]byte(nil), data...)
	select {
	case a.inbox <- msg:
	case <-a.done:
	}
}

// Status returns the current state.
func (t *Transport) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Relay returns the event relay.
func (t *Transport) Relay() *Relay { return t.relay }

// Connect tears down any previous attempt and opens a new connection. It
// returns once the answer is applied; the state becomes connected when the
// provider confirms the session.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	prev := t.current
	t.generation++
	att := newAttempt(t.generation)
	t.current = att
	t.mu.Unlock()

	if prev != nil {
		prev.release()
		t.relay.CancelGuide()
	}
	t.setStatus(att.gen, Status{State: StateConnecting})

	cred, err := t.deps.Credentials.CreateRealtimeSession(ctx, t.opts.Session)
	if !t.live(att) {
		return ErrStaleAttempt
	}
	if err != nil {
		return t.fail(att, err)
	}
	att.mu.Lock()
	att.cred = cred
	att.mu.Unlock()

	mic, err := t.deps.Media.Acquire(ctx, t.opts.Constraints)
	if err == nil {
		att.mu.Lock()
		att.mic = mic
		att.mu.Unlock()
	}
	if !t.live(att) {
		return ErrStaleAttempt
	}
	if err != nil {
		return t.fail(att, err)
	}

	peer, err := t.deps.Peers.NewPeer(ctx)
	if err == nil {
		att.mu.Lock()
		att.peer = peer
		att.mu.Unlock()
	}
	if !t.live(att) {
		return ErrStaleAttempt
	}
	if err != nil {
		return t.fail(att, err)
	}

	peer.OnTrack(func(track RemoteAudio) {
		if t.deps.Sink != nil {
			t.log.Debug().Str("track_id", track.ID()).Msg("remote audio attached")
			t.deps.Sink.Attach(track)
		}
	})
	if err := peer.AddMicrophone(mic); err != nil {
		return t.fail(att, err)
	}

	dc, err := peer.CreateDataChannel(ControlChannelLabel)
	if err != nil {
		return t.fail(att, err)
	}
	att.mu.Lock()
	att.dc = dc
	att.mu.Unlock()
	dc.OnOpen(func() { t.initialize(att) })
	dc.OnMessage(att.enqueue)
	dc.OnError(func(err error) { t.channelError(att, err) })
	go t.dispatch(att)

	offer, err := peer.CreateOffer(ctx)
	if !t.live(att) {
		return ErrStaleAttempt
	}
	if err != nil {
		return t.fail(att, err)
	}

	answer, err := t.deps.Signaler.Exchange(ctx, t.model(cred), cred.EphemeralKey(), offer)
	if !t.live(att) {
		return ErrStaleAttempt
	}
	if err != nil {
		return t.fail(att, err)
	}

	if err := peer.SetAnswer(answer); err != nil {
		return t.fail(att, err)
	}
	if !t.live(att) {
		return ErrStaleAttempt
	}

	t.log.Info().Uint64("generation", att.gen).Str("model", t.model(cred)).Msg("realtime peer connection established")
	return nil
}

// Disconnect releases the current attempt and resets the state. It is safe
// to call in any state and more than once.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	att := t.current
	t.current = nil
	t.generation++
	gen := t.generation
	t.mu.Unlock()

	if att != nil {
		att.release()
	}
	t.relay.CancelGuide()
	t.relay.ClearProvisional()
	t.setStatus(gen, Status{State: StateDisconnected})
}

// Pause mutes the microphone without touching the peer connection.
func (t *Transport) Pause() error { return t.setMicEnabled(false) }

// Resume unmutes the microphone.
func (t *Transport) Resume() error { return t.setMicEnabled(true) }

// Paused reports whether the microphone is muted.
func (t *Transport) Paused() bool {
	mic := t.microphone()
	return mic != nil && !mic.Enabled()
}

// SendText sends a typed user message and asks for a response.
func (t *Transport) SendText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	att, err := t.connected()
	if err != nil {
		return err
	}
	if err := t.send(att, events.NewUserText(text)); err != nil {
		return err
	}
	if err := t.send(att, events.NewResponseCreate()); err != nil {
		return err
	}
	t.relay.AddUserText(text)
	return nil
}

func (t *Transport) setMicEnabled(enabled bool) error {
	if _, err := t.connected(); err != nil {
		return err
	}
	mic := t.microphone()
	if mic == nil {
		return ErrNotConnected
	}
	mic.SetEnabled(enabled)
	return nil
}

func (t *Transport) microphone() Microphone {
	t.mu.Lock()
	att := t.current
	t.mu.Unlock()
	if att == nil {
		return nil
	}
	att.mu.Lock()
	defer att.mu.Unlock()
	return att.mic
}

func (t *Transport) connected() (*attempt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.status.State != StateConnected {
		return nil, ErrNotConnected
	}
	return t.current, nil
}

// live reports whether att is still current. A superseded attempt releases
// everything it acquired.
func (t *Transport) live(att *attempt) bool {
	t.mu.Lock()
	ok := t.generation == att.gen
	t.mu.Unlock()
	if !ok {
		att.release()
	}
	return ok
}

func (t *Transport) fail(att *attempt, err error) error {
	att.release()

	t.mu.Lock()
	if t.generation == att.gen {
		t.current = nil
	}
	t.mu.Unlock()

	if !t.setStatus(att.gen, Status{State: StateError, Message: errorMessage(err)}) {
		return ErrStaleAttempt
	}
	t.log.Error().Err(err).Uint64("generation", att.gen).Msg("realtime connection failed")
	return err
}

// setStatus applies s if gen is still current.
func (t *Transport) setStatus(gen uint64, s Status) bool {
	t.mu.Lock()
	if t.generation != gen {
		t.mu.Unlock()
		return false
	}
	changed := t.status != s
	t.status = s
	t.notifyMu.Lock()
	t.mu.Unlock()
	defer t.notifyMu.Unlock()

	if changed {
		t.relay.listener.OnStatus(s)
	}
	return true
}

func (t *Transport) initialize(att *attempt) {
	voice, instructions := t.sessionVoice(att), t.sessionInstructions(att)
	raw, err := json.Marshal(events.NewSessionUpdate(voice, instructions))
	if err != nil {
		t.log.Error().Err(err).Msg("failed to encode session.update")
		return
	}

	att.mu.Lock()
	if att.dc == nil || att.initialized {
		att.mu.Unlock()
		return
	}
	err = att.dc.SendText(string(raw))
	if err == nil {
		att.initialized = true
	}
	att.mu.Unlock()

	if err != nil {
		t.channelError(att, err)
		return
	}
	t.log.Debug().Uint64("generation", att.gen).Msg("control channel initialized")
}

func (t *Transport) send(att *attempt, ev any) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	att.mu.Lock()
	defer att.mu.Unlock()
	if att.dc == nil {
		return ErrNotConnected
	}
	if !att.initialized {
		return ErrNotInitialized
	}
	return att.dc.SendText(string(raw))
}

func (t *Transport) channelError(att *attempt, err error) {
	if t.setStatus(att.gen, Status{State: StateError, Message: "Data channel error"}) {
		t.log.Error().Err(err).Uint64("generation", att.gen).Msg("control channel error")
	}
}

// dispatch handles inbound messages one at a time until the attempt ends.
func (t *Transport) dispatch(att *attempt) {
	for {
		select {
		case <-att.done:
			return
		case data := <-att.inbox:
			t.handle(att, data)
		}
	}
}

func (t *Transport) handle(att *attempt, data []byte) {
	ev, err := events.Decode(data)
	if err != nil {
		platformerrors.LogError(t.log, platformerrors.NewError(context.Background(), platformerrors.LayerClient,
			platformerrors.ErrorTypeProtocol, "Dropped malformed realtime event", err, "8c9d0e1f-2a3b-4c4d-9e5f-6a7b8c9d0e1f"))
		return
	}

	t.mu.Lock()
	current := t.generation == att.gen
	t.mu.Unlock()
	if !current {
		return
	}

	if s, ok := t.relay.Apply(ev); ok {
		t.setStatus(att.gen, s)
	}
}

func (t *Transport) model(cred *rtsession.Credential) string {
	if cred != nil && cred.Model != "" {
		return cred.Model
	}
	if t.opts.Session.Model != "" {
		return t.opts.Session.Model
	}
	return rtsession.DefaultModel
}

func (t *Transport) sessionVoice(att *attempt) string {
	att.mu.Lock()
	cred := att.cred
	att.mu.Unlock()
	if cred != nil && cred.Voice != "" {
		return cred.Voice
	}
	if t.opts.Session.Voice != "" {
		return t.opts.Session.Voice
	}
	return rtsession.DefaultVoice
}

func (t *Transport) sessionInstructions(att *attempt) string {
	att.mu.Lock()
	cred := att.cred
	att.mu.Unlock()
	if cred != nil && strings.TrimSpace(cred.Instructions) != "" {
		return cred.Instructions
	}
	if strings.TrimSpace(t.opts.Session.Instructions) != "" {
		return t.opts.Session.Instructions
	}
	return rtsession.DefaultInstructions
}

func errorMessage(err error) string {
	if perr := platformerrors.GetPlatformError(err); perr != nil && perr.Message != "" {
		return perr.Message
	}
	return err.Error()
}
