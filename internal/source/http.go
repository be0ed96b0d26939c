package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamflux/internal/media"
)

// Client is the HTTP client shared by remote sources.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	return t
}

// maxBody caps the media list response.
const maxBody = 8 << 20

// HTTPSource reads GET <base>/media[?category=] from a media API.
type HTTPSource struct {
	base     string
	category string
	client   *http.Client
}

// NewHTTPSource returns a source for the API rooted at baseURL. A nil client
// uses Client.
func NewHTTPSource(baseURL, category string, client *http.Client) *HTTPSource {
	if client == nil {
		client = Client
	}
	return &HTTPSource{base: strings.TrimSuffix(baseURL, "/"), category: category, client: client}
}

// FetchAll implements Source. Transport failures, non-200 responses and
// undecodable bodies all wrap ErrSourceUnavailable.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]media.Item, error) {
	u := s.base + "/media"
	if s.category != "" {
		u += "?" + url.Values{"category": {s.category}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrSourceUnavailable, u, resp.StatusCode)
	}

	var items []media.Item
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSourceUnavailable, err)
	}
	return items, nil
}
