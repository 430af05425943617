package sse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-stream/internal/core/domain"
	"github.com/custodia-labs/sercha-stream/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-stream/internal/logger"
)

const (
	// streamPath is the streaming search endpoint.
	streamPath = "/search/stream"

	// openRate paces stream opens so rapid re-queries (typeahead) do not
	// hammer the server.
	openRate = rate.Limit(4)

	// openBurst allows a short run of immediate opens.
	openBurst = 4

	// errorBodyLimit caps how much of a non-200 response body is read
	// for the error message.
	errorBodyLimit = 4 * 1024
)

// Ensure Client implements the interface.
var _ driven.StreamSource = (*Client)(nil)

// Client opens streaming searches against one server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
}

// NewClient creates a streaming search client for the given server base
// URL. accessToken may be empty for anonymous-access servers; httpClient
// may be nil to use a default with no overall timeout (streams are
// long-lived).
func NewClient(baseURL, accessToken string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, domain.ErrNoServer
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		}
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(openRate, openBurst),
	}
	if accessToken != "" {
		c.tokens = oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "token",
		})
	}
	return c, nil
}

// Open implements driven.StreamSource.
func (c *Client) Open(ctx context.Context, req domain.StreamRequest) (driven.EventStream, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing stream open: %w", err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	endpoint := c.baseURL + streamPath + "?" + encodeQuery(req).Encode()

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building stream request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("resolving access token: %w", err)
		}
		tok.SetAuthHeader(httpReq)
	}

	logger.Debug("Opening search stream: %s", endpoint)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening search stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		resp.Body.Close() //nolint:errcheck
		cancel()
		return nil, fmt.Errorf("search stream returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	s := newStream(resp.Body, cancel)
	go s.run()
	return s, nil
}

// encodeQuery serialises a stream request into the protocol query string.
func encodeQuery(req domain.StreamRequest) url.Values {
	req = req.Normalize()

	v := url.Values{}
	v.Set("q", req.EffectiveQuery())
	v.Set("v", req.Version)
	if req.PatternType != "" {
		v.Set("t", req.PatternType.String())
	}
	if req.Mode != "" {
		v.Set("sm", req.Mode.String())
	}
	v.Set("display", strconv.Itoa(req.DisplayLimit))
	if req.ChunkMatches {
		v.Set("cm", "t")
	} else {
		v.Set("cm", "f")
	}
	if req.Trace != "" {
		v.Set("trace", req.Trace)
	}
	if req.MaxLineLen > 0 {
		v.Set("max-line-len", strconv.Itoa(req.MaxLineLen))
	}
	for _, feat := range req.FeatureOverrides {
		v.Add("feat", feat)
	}
	if req.ZoektSearchOpts != "" {
		v.Set("zoekt-search-opts", req.ZoektSearchOpts)
	}
	return v
}
