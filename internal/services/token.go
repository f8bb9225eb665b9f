package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// TokenManager owns the bearer credential for the catalog service.
//
// The token is obtained once with the client-credentials grant and never refreshed.
type TokenManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time

	mu         sync.RWMutex
	credential models.Credential
}

// NewTokenManager creates a TokenManager for the given client credentials.
//
// tokenURL defaults to the Spotify accounts endpoint; a nil httpClient uses [http.DefaultClient].
func NewTokenManager(clientID, clientSecret, tokenURL string, httpClient *http.Client, logger *log.Logger) (*TokenManager, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &TokenManager{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Authenticate exchanges the client credentials for a bearer token.
//
// Once a token has been acquired, later calls return it without contacting the token endpoint.
func (m *TokenManager) Authenticate(ctx context.Context) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.credential.Valid() {
		return m.credential, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := m.config.Token(ctx)
	if err != nil {
		m.logger.Error("token exchange failed", "url", m.config.TokenURL, "error", err)
		return models.Credential{}, fmt.Errorf("%w: %v", shared.ErrAuth, err)
	}
	if token.AccessToken == "" {
		return models.Credential{}, fmt.Errorf("%w: response has no access_token", shared.ErrAuth)
	}

	m.credential = models.Credential{
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		ObtainedAt:  m.now(),
	}
	m.logger.Debug("acquired catalog token", "type", m.credential.TokenType, "expiry", token.Expiry)

	return m.credential, nil
}

// Credential returns the acquired credential, or [shared.ErrNotAuthenticated] before Authenticate succeeds.
func (m *TokenManager) Credential() (models.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.credential.Valid() {
		return models.Credential{}, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return m.credential, nil
}
