package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent with every request. Some autoindex hosts reject
// the stock "Go-http-client/1.1" agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

type ClientOptions struct {
	UserAgent string
	// HeaderTimeout bounds the wait for response headers. Bodies are not
	// time limited so large downloads can stream.
	HeaderTimeout time.Duration
}

// Client is the session shared by every crawl task and download worker of a
// run. Cookies set by the server are carried across requests.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient(opts ClientOptions) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.HeaderTimeout > 0 {
		transport.ResponseHeaderTimeout = opts.HeaderTimeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Client{
		http: &http.Client{
			Jar:       jar,
			Transport: transport,
		},
		userAgent: ua,
	}, nil
}

// Get fetches url and returns the whole body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// Open starts a GET and returns the streaming body with its content length
// (-1 when unknown). The caller must close the body.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, resp.ContentLength, nil
}
