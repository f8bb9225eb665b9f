package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

const (
	outputRate      = beep.SampleRate(44100)
	resampleQuality = 4
)

// BeepBackend plays MP3 previews through the system speaker.
//
// Clips are downloaded into memory so they can be seeked; nothing is written to disk.
type BeepBackend struct {
	httpClient *http.Client
	logger     *log.Logger

	once    sync.Once
	initErr error
}

var _ Backend = (*BeepBackend)(nil)

// NewBeepBackend creates a backend. The speaker is initialized on the first Start.
func NewBeepBackend(httpClient *http.Client, logger *log.Logger) *BeepBackend {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BeepBackend{httpClient: httpClient, logger: logger}
}

func (b *BeepBackend) initSpeaker() error {
	b.once.Do(func() {
		b.initErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return b.initErr
}

// Open downloads and decodes the clip at url.
func (b *BeepBackend) Open(ctx context.Context, url string) (Player, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrIO, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &shared.StatusError{Endpoint: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read preview: %v", shared.ErrIO, err)
	}

	streamer, format, err := mp3.Decode(clip{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", shared.ErrPlayerFailed, err)
	}

	b.logger.Debug("preview decoded", "bytes", len(data), "rate", format.SampleRate, "samples", streamer.Len())
	return &beepPlayer{backend: b, streamer: streamer, format: format}, nil
}

// clip lets the decoder seek within an in-memory download.
type clip struct {
	*bytes.Reader
}

func (clip) Close() error { return nil }

type beepPlayer struct {
	backend  *BeepBackend
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (p *beepPlayer) Start(onEnd func()) error {
	if err := p.backend.initSpeaker(); err != nil {
		return err
	}

	var s beep.Streamer = p.streamer
	if p.format.SampleRate != outputRate {
		s = beep.Resample(resampleQuality, p.format.SampleRate, outputRate, s)
	}

	// The callback runs with the speaker locked.
	speaker.Play(beep.Seq(s, beep.Callback(func() { go onEnd() })))
	return nil
}

func (p *beepPlayer) Stop() error {
	speaker.Clear()
	return p.streamer.Close()
}

func (p *beepPlayer) Seek(position time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	n := p.format.SampleRate.N(position)
	n = min(max(n, 0), p.streamer.Len()-1)
	return p.streamer.Seek(n)
}
