package webrtc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	pion "github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/realtime"
)

const (
	opusClockRate = 48000
	opusChannels  = 2
	frameDuration = 20 * time.Millisecond
)

// silenceFrame is a 20ms Opus packet of digital silence.
var silenceFrame = []byte{0xf8, 0xff, 0xfe}

// FileSource stands in for a capture device. It plays an Ogg/Opus file, or
// silence when no file is configured.
type FileSource struct {
	path string
	loop bool
	log  zerolog.Logger
}

var _ realtime.MediaSource = (*FileSource)(nil)

func NewFileSource(path string, loop bool, log zerolog.Logger) *FileSource {
	return &FileSource{
		path: path,
		loop: loop,
		log:  log.With().Str("component", "microphone").Logger(),
	}
}

// Acquire opens the capture. Constraints are recorded only; a file has no
// echo to cancel.
func (s *FileSource) Acquire(ctx context.Context, c realtime.Constraints) (realtime.Microphone, error) {
	if s.path != "" {
		if _, err := os.Stat(s.path); err != nil {
			return nil, fmt.Errorf("open microphone input: %w", err)
		}
	}
	track, err := pion.NewTrackLocalStaticSample(
		pion.RTPCodecCapability{MimeType: pion.MimeTypeOpus, ClockRate: opusClockRate, Channels: opusChannels},
		"audio", "amo-microphone",
	)
	if err != nil {
		return nil, fmt.Errorf("create microphone track: %w", err)
	}

	s.log.Debug().
		Bool("echo_cancellation", c.EchoCancellation).
		Bool("noise_suppression", c.NoiseSuppression).
		Int("sample_rate", c.SampleRate).
		Str("input", s.path).
		Msg("microphone acquired")

	m := &Microphone{
		track: track,
		path:  s.path,
		loop:  s.loop,
		stop:  make(chan struct{}),
		log:   s.log,
	}
	m.enabled.Store(true)
	return m, nil
}

// Microphone streams Opus frames into a local track.
type Microphone struct {
	track *pion.TrackLocalStaticSample
	path  string
	loop  bool
	log   zerolog.Logger

	enabled  atomic.Bool
	startOne sync.Once
	stopOne  sync.Once
	stop     chan struct{}
	done     chan struct{}
	mu       sync.Mutex
}

func (m *Microphone) SetEnabled(enabled bool) { m.enabled.Store(enabled) }

func (m *Microphone) Enabled() bool { return m.enabled.Load() }

// Stop ends the track. It is safe to call more than once.
func (m *Microphone) Stop() {
	m.stopOne.Do(func() {
		m.enabled.Store(false)
		close(m.stop)
	})
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Microphone) stopped() bool {
	select {
	case <-m.stop:
		return true
	default:
		return false
	}
}

func (m *Microphone) start() {
	m.startOne.Do(func() {
		if m.stopped() {
			return
		}
		m.mu.Lock()
		m.done = make(chan struct{})
		m.mu.Unlock()
		go m.run()
	})
}

func (m *Microphone) run() {
	defer close(m.done)
	for {
		var err error
		if m.path == "" {
			err = m.streamSilence()
		} else {
			err = m.streamFile()
		}
		if err != nil {
			m.log.Warn().Err(err).Msg("microphone stream ended")
			return
		}
		if !m.loop || m.stopped() {
			return
		}
	}
}

func (m *Microphone) streamSilence() error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return nil
		case <-ticker.C:
			if err := m.track.WriteSample(media.Sample{Data: silenceFrame, Duration: frameDuration}); err != nil {
				return err
			}
		}
	}
}

func (m *Microphone) streamFile() error {
	f, err := os.Open(m.path)
	if err != nil {
		return err
	}
	defer f.Close()

	ogg, _, err := oggreader.NewWith(f)
	if err != nil {
		return fmt.Errorf("read ogg header: %w", err)
	}

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	var lastGranule uint64
	for {
		select {
		case <-m.stop:
			return nil
		case <-ticker.C:
		}

		page, header, err := ogg.ParseNextPage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read ogg page: %w", err)
		}

		samples := header.GranulePosition - lastGranule
		lastGranule = header.GranulePosition
		duration := time.Duration(float64(samples) / opusClockRate * float64(time.Second))

		data := page
		if !m.Enabled() {
			data = silenceFrame
		}
		if err := m.track.WriteSample(media.Sample{Data: data, Duration: duration}); err != nil {
			return err
		}
	}
}
