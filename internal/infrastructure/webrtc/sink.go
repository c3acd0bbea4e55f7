package webrtc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/infrastructure/logger"
	"github.com/janhq/amo-server/internal/realtime"
)

var (
	defaultSink     *Sink
	defaultSinkOnce sync.Once
)

// DefaultSink returns the process-wide audio sink. It is created on first
// use and shared by every session.
func DefaultSink() *Sink {
	defaultSinkOnce.Do(func() {
		defaultSink = NewSink(logger.GetLogger())
	})
	return defaultSink
}

// Sink records remote audio tracks as Ogg/Opus files. Without an output
// directory the audio is read and discarded so the track keeps flowing.
type Sink struct {
	mu     sync.Mutex
	dir    string
	tracks int
	wg     sync.WaitGroup
	log    zerolog.Logger
}

var _ realtime.AudioSink = (*Sink)(nil)

func NewSink(log zerolog.Logger) *Sink {
	return &Sink{log: log.With().Str("component", "audio-sink").Logger()}
}

// SetOutputDir changes where later tracks are written.
func (s *Sink) SetOutputDir(dir string) {
	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()
}

// Attach plays track until it ends.
func (s *Sink) Attach(track realtime.RemoteAudio) {
	s.mu.Lock()
	dir := s.dir
	s.tracks++
	n := s.tracks
	s.mu.Unlock()

	out, path, err := s.open(dir, n)
	if err != nil {
		s.log.Error().Err(err).Str("track_id", track.ID()).Msg("failed to open audio output")
		out = nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.play(track, out, path)
	}()
}

// Wait blocks until every attached track has ended.
func (s *Sink) Wait() { s.wg.Wait() }

func (s *Sink) open(dir string, n int) (*oggwriter.OggWriter, string, error) {
	if dir == "" {
		return nil, "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("amo-%s-%02d.ogg", time.Now().Format("20060102-150405"), n)
	path := filepath.Join(dir, name)
	w, err := oggwriter.New(path, opusClockRate, opusChannels)
	if err != nil {
		return nil, "", err
	}
	return w, path, nil
}

func (s *Sink) play(track realtime.RemoteAudio, out *oggwriter.OggWriter, path string) {
	packets := 0
	defer func() {
		if out != nil {
			if err := out.Close(); err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("failed to close audio output")
			}
		}
		s.log.Debug().Str("track_id", track.ID()).Int("packets", packets).Str("path", path).Msg("remote audio ended")
	}()

	for {
		pkt, err := track.ReadRTP()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug().Err(err).Str("track_id", track.ID()).Msg("remote audio read stopped")
			}
			return
		}
		packets++
		if out == nil {
			continue
		}
		if err := out.WriteRTP(pkt); err != nil {
			s.log.Warn().Err(err).Msg("failed to write audio packet")
		}
	}
}
