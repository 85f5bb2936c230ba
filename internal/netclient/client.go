package netclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 greeting performed by CheckProxy.
const checkProxyTimeout = 2 * time.Second

// maxRedirects is the number of redirects a client follows.
const maxRedirects = 10

const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthPassword = 0x02
	socks5AuthNoAccept = 0xFF
)

// Client creates HTTP clients that share one outbound route.
type Client struct {
	proxyURL  *url.URL
	dialer    proxy.ContextDialer
	timeout   time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent sent when a request has none.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient returns a Client whose HTTP clients time out after timeout.
// An empty proxyURL means direct connections (or the proxy named by the
// standard HTTP_PROXY variables). socks5:// and socks5h:// proxies are
// dialed directly; http:// and https:// proxies are used via CONNECT.
func NewClient(proxyURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{timeout: timeout}
	for _, opt := range opts {
		opt(c)
	}
	if proxyURL == "" {
		return c, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil || u.Hostname() == "" || u.Port() == "" {
		return nil, ErrInvalidProxyURL
	}
	c.proxyURL = u

	switch u.Scheme {
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, ErrInvalidProxyURL
		}
		c.dialer = cd
	case "http", "https":
	default:
		return nil, ErrInvalidProxyURL
	}
	return c, nil
}

// Timeout returns the timeout applied to clients from NewHTTPClient.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// NewHTTPClient returns an HTTP client using the configured route.
func (c *Client) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	switch {
	case c.dialer != nil:
		transport.Proxy = nil
		transport.DialContext = c.dialer.DialContext
	case c.proxyURL != nil:
		transport.Proxy = http.ProxyURL(c.proxyURL)
	}

	var rt http.RoundTripper = transport
	if c.userAgent != "" {
		rt = &headerInjectingTransport{base: transport, userAgent: c.userAgent}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// HTTPClientWithConfig returns NewHTTPClient with cookie and headers set
// on every request to host. Requests to other hosts, redirects included,
// get neither. Header values replace those already on the request.
func (c *Client) HTTPClientWithConfig(host, cookie string, headers map[string]string) *http.Client {
	client := c.NewHTTPClient()
	base := client.Transport
	if h, ok := base.(*headerInjectingTransport); ok {
		base = h.base
	}
	client.Transport = &headerInjectingTransport{
		base:      base,
		host:      host,
		cookie:    cookie,
		headers:   headers,
		userAgent: c.userAgent,
	}
	return client
}

// CheckProxy performs a SOCKS5 greeting with the configured proxy. When
// the proxy URL carries credentials, username/password authentication is
// offered as well. It returns ProxyStatusOK without any network traffic
// when no SOCKS5 proxy is configured.
func (c *Client) CheckProxy(ctx context.Context) ProxyStatus {
	if c.dialer == nil {
		return ProxyStatusOK
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyURL.Host)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}
	if _, err := conn.Write(c.greeting()); err != nil {
		return ProxyStatusCannotConnect
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept {
		return ProxyStatusWrongType
	}
	switch resp[1] {
	case socks5AuthNone:
		return ProxyStatusOK
	case socks5AuthPassword:
		if c.proxyURL.User != nil {
			return ProxyStatusOK
		}
	}
	return ProxyStatusWrongType
}

// greeting returns the SOCKS5 method-selection message.
func (c *Client) greeting() []byte {
	if c.proxyURL.User != nil {
		return []byte{socks5Version, 0x02, socks5AuthNone, socks5AuthPassword}
	}
	return []byte{socks5Version, 0x01, socks5AuthNone}
}

// headerInjectingTransport adds a default User-Agent to every request, and
// a cookie and fixed headers to requests for host.
type headerInjectingTransport struct {
	base      http.RoundTripper
	host      string
	cookie    string
	headers   map[string]string
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if !strings.EqualFold(clone.URL.Hostname(), t.host) {
		return t.base.RoundTrip(clone)
	}
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
