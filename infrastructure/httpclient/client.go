// Package httpclient builds the outbound HTTP client shared by adapters.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pair-programming-backend/domains/example/application/port"
	"pair-programming-backend/shared/common/logger"
)

const DefaultTimeout = 10 * time.Second

// New returns a client that routes through proxyURL when set, otherwise through
// the proxy named by the environment.
func New(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
		logger.Debug("Outbound proxy configured", logger.WithString("proxy", u.Redacted()))
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

type ProbeAdapter struct {
	client *http.Client
}

func NewHTTPProbePort(client *http.Client) port.HTTPProbePort {
	return &ProbeAdapter{client: client}
}

func (a *ProbeAdapter) Get(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
