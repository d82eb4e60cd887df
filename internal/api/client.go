package api

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"
)

const (
	// ProductionBaseURL is the live Paddle Billing API host.
	ProductionBaseURL = "https://api.paddle.com/"
	// SandboxBaseURL is the Paddle Billing sandbox host.
	SandboxBaseURL = "https://sandbox-api.paddle.com/"

	DefaultTimeout = 30 * time.Second
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an immutable Paddle Billing API handle. It carries the API key,
// the environment selector and the transport. There are no setters, so a
// Client can be shared by concurrent calls.
type Client struct {
	apiKey    string
	sandbox   bool
	http      Doer
	userAgent string
	timeout   time.Duration
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithSandbox routes requests to the sandbox host when enabled.
func WithSandbox(enabled bool) Option {
	return func(c *Client) { c.sandbox = enabled }
}

// WithHTTPClient replaces the default transport.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = strings.TrimSpace(ua) }
}

// WithTimeout sets the timeout of the default transport. It has no effect
// when WithHTTPClient supplies a transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Compile-time interface implementation check
var _ Requester = (*Client)(nil)

// New creates a Paddle Billing API client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newDefaultHTTPClient(c.timeout)
	}
	return c
}

func newDefaultHTTPClient(timeout time.Duration) *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Sandbox reports whether the client targets the sandbox environment.
func (c *Client) Sandbox() bool {
	return c.sandbox
}

// BaseURL returns the host selected by the environment flag.
func (c *Client) BaseURL() string {
	if c.sandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

// Environment returns "sandbox" or "production".
func (c *Client) Environment() string {
	if c.sandbox {
		return "sandbox"
	}
	return "production"
}

// endpoint joins the base URL, a relative path and an encoded query.
func (c *Client) endpoint(path string, query Query) string {
	return c.BaseURL() + strings.TrimPrefix(path, "/") + query.Encode()
}
