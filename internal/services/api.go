// Raw authenticated access to catalog endpoints, for debugging queries by hand
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/spx/internal/shared"
	"github.com/goccy/go-json"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Raw performs an authenticated GET to endpoint and returns the response regardless of status.
//
// endpoint may be a path (joined to the base URL) or an absolute URL. Spaces in params are replaced with '+',
// and params must not include the leading '?'.
func (c *CatalogClient) Raw(ctx context.Context, endpoint, params string) (*APIResponse, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("%w: no credential source", shared.ErrNotAuthenticated)
	}
	cred, err := c.tokens.Credential()
	if err != nil {
		return nil, err
	}

	fullURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		fullURL = c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	}
	if params = strings.ReplaceAll(params, " ", "+"); params != "" {
		fullURL += "?" + params
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrIO, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrIO, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
