// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// StaticCredentials is a [services.CredentialSource] that always returns the same token.
type StaticCredentials struct {
	Token string
}

func (s StaticCredentials) Credential() (models.Credential, error) {
	if s.Token == "" {
		return models.Credential{}, shared.ErrNotAuthenticated
	}
	return models.Credential{AccessToken: s.Token, TokenType: "Bearer", ObtainedAt: time.Now()}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FakePlayer records calls made by a playback session. It never produces sound.
type FakePlayer struct {
	URL string

	mu       sync.Mutex
	started  bool
	stopped  bool
	seeks    []time.Duration
	onEnd    func()
	startErr error
}

func (p *FakePlayer) Start(onEnd func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startErr != nil {
		return p.startErr
	}
	p.started = true
	p.onEnd = onEnd
	return nil
}

func (p *FakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	return nil
}

func (p *FakePlayer) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, d)
	return nil
}

// Finish simulates the end of the media by invoking the callback passed to Start.
func (p *FakePlayer) Finish() {
	p.mu.Lock()
	onEnd := p.onEnd
	p.mu.Unlock()
	if onEnd != nil {
		onEnd()
	}
}

func (p *FakePlayer) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *FakePlayer) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

func (p *FakePlayer) Seeks() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Duration(nil), p.seeks...)
}

// FakeBackend hands out FakePlayers and remembers them in order.
type FakeBackend struct {
	OpenErr  error
	StartErr error

	mu      sync.Mutex
	players []*FakePlayer
}

// Players returns every player opened so far.
func (b *FakeBackend) Players() []*FakePlayer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*FakePlayer(nil), b.players...)
}

// Last returns the most recently opened player, or nil.
func (b *FakeBackend) Last() *FakePlayer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.players) == 0 {
		return nil
	}
	return b.players[len(b.players)-1]
}

// OpenPlayer creates and records a FakePlayer for url.
func (b *FakeBackend) OpenPlayer(url string) (*FakePlayer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	p := &FakePlayer{URL: url, startErr: b.StartErr}
	b.players = append(b.players, p)
	return p, nil
}

// ReadBody drains and closes an HTTP body, failing the test on error.
func ReadBody(t *testing.T, body io.ReadCloser) string {
	t.Helper()
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(data)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}
