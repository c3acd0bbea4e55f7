package realtime

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pion/rtp"

	"github.com/janhq/amo-server/internal/domain/conversation"
	rtsession "github.com/janhq/amo-server/internal/domain/realtime"
	"github.com/janhq/amo-server/internal/domain/visual"
)

type fakeCreds struct {
	mu      sync.Mutex
	cred    *rtsession.Credential
	err     error
	block   chan struct{}
	entered chan struct{}
	calls   int
}

func (f *fakeCreds) CreateRealtimeSession(ctx context.Context, _ rtsession.SessionRequest) (*rtsession.Credential, error) {
	f.mu.Lock()
	f.calls++
	block, entered := f.block, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.cred, f.err
}

type fakeMic struct {
	mu      sync.Mutex
	enabled bool
	stopped bool
}

func (m *fakeMic) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

func (m *fakeMic) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *fakeMic) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.enabled = false
	m.mu.Unlock()
}

func (m *fakeMic) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type fakeMedia struct {
	mu   sync.Mutex
	mics []*fakeMic
	err  error
}

func (f *fakeMedia) Acquire(context.Context, Constraints) (Microphone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	mic := &fakeMic{enabled: true}
	f.mics = append(f.mics, mic)
	return mic, nil
}

func (f *fakeMedia) last() *fakeMic {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.mics) == 0 {
		return nil
	}
	return f.mics[len(f.mics)-1]
}

type fakeDC struct {
	mu        sync.Mutex
	sent      []string
	closed    bool
	onOpen    func()
	onMessage func([]byte)
	onError   func(error)
}

func (d *fakeDC) Label() string { return ControlChannelLabel }

func (d *fakeDC) OnOpen(fn func()) {
	d.mu.Lock()
	d.onOpen = fn
	d.mu.Unlock()
}

func (d *fakeDC) OnMessage(fn func([]byte)) {
	d.mu.Lock()
	d.onMessage = fn
	d.mu.Unlock()
}

func (d *fakeDC) OnError(fn func(error)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

func (d *fakeDC) SendText(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("channel closed")
	}
	d.sent = append(d.sent, text)
	return nil
}

func (d *fakeDC) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDC) open() {
	d.mu.Lock()
	fn := d.onOpen
	d.mu.Unlock()
	fn()
}

func (d *fakeDC) deliver(msg string) {
	d.mu.Lock()
	fn := d.onMessage
	d.mu.Unlock()
	fn([]byte(msg))
}

func (d *fakeDC) fail(err error) {
	d.mu.Lock()
	fn := d.onError
	d.mu.Unlock()
	fn(err)
}

func (d *fakeDC) Sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sent...)
}

func (d *fakeDC) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakePeer struct {
	mu      sync.Mutex
	dc      *fakeDC
	mic     Microphone
	onTrack func(RemoteAudio)
	answer  string
	closed  bool
}

func (p *fakePeer) OnTrack(fn func(RemoteAudio)) {
	p.mu.Lock()
	p.onTrack = fn
	p.mu.Unlock()
}

func (p *fakePeer) AddMicrophone(mic Microphone) error {
	p.mu.Lock()
	p.mic = mic
	p.mu.Unlock()
	return nil
}

func (p *fakePeer) CreateDataChannel(label string) (DataChannel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dc = &fakeDC{}
	return p.dc, nil
}

func (p *fakePeer) CreateOffer(context.Context) (string, error) {
	return "v=0\r\noffer", nil
}

func (p *fakePeer) SetAnswer(sdp string) error {
	p.mu.Lock()
	p.answer = sdp
	p.mu.Unlock()
	return nil
}

func (p *fakePeer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *fakePeer) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *fakePeer) channel() *fakeDC {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dc
}

func (p *fakePeer) emitTrack(track RemoteAudio) {
	p.mu.Lock()
	fn := p.onTrack
	p.mu.Unlock()
	fn(track)
}

type fakePeers struct {
	mu    sync.Mutex
	peers []*fakePeer
}

func (f *fakePeers) NewPeer(context.Context) (PeerConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &fakePeer{}
	f.peers = append(f.peers, p)
	return p, nil
}

func (f *fakePeers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.peers)
}

func (f *fakePeers) last() *fakePeer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.peers) == 0 {
		return nil
	}
	return f.peers[len(f.peers)-1]
}

type fakeSignaler struct {
	answer string
	err    error
	during func()

	mu   sync.Mutex
	got  []string
	keys []string
}

func (s *fakeSignaler) Exchange(_ context.Context, model, key, offer string) (string, error) {
	s.mu.Lock()
	s.got = append(s.got, model)
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	if s.during != nil {
		s.during()
	}
	return s.answer, s.err
}

type fakeTrack struct{ id string }

func (f fakeTrack) ID() string { return f.id }
func (f fakeTrack) ReadRTP() (*rtp.Packet, error) { return nil, io.EOF }

type fakeSink struct {
	mu       sync.Mutex
	attached []string
}

func (s *fakeSink) Attach(track RemoteAudio) {
	s.mu.Lock()
	s.attached = append(s.attached, track.ID())
	s.mu.Unlock()
}

type recorder struct {
	mu          sync.Mutex
	statuses    []Status
	messages    []conversation.Message
	provisional []string
	visuals     []visual.Content
}

func (r *recorder) OnStatus(s Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
}

func (r *recorder) OnMessage(m conversation.Message) {
	r.mu.Lock()
	r.messages = append(r.messages, m)
	r.mu.Unlock()
}

func (r *recorder) OnProvisional(text string) {
	r.mu.Lock()
	r.provisional = append(r.provisional, text)
	r.mu.Unlock()
}

func (r *recorder) OnVisual(c visual.Content) {
	r.mu.Lock()
	r.visuals = append(r.visuals, c)
	r.mu.Unlock()
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, 0, len(r.statuses))
	for _, s := range r.statuses {
		out = append(out, s.State)
	}
	return out
}

func (r *recorder) Visuals() []visual.Content {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]visual.Content(nil), r.visuals...)
}
