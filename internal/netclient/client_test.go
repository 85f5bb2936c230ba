package netclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewClient tests proxy URL handling.
func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		proxy   string
		wantErr bool
	}{
		{name: "no proxy", proxy: "", wantErr: false},
		{name: "socks5 proxy", proxy: "socks5://127.0.0.1:9050", wantErr: false},
		{name: "socks5h proxy", proxy: "socks5h://127.0.0.1:9050", wantErr: false},
		{name: "http proxy", proxy: "http://proxy.internal:3128", wantErr: false},
		{name: "missing port", proxy: "socks5://127.0.0.1", wantErr: true},
		{name: "missing host", proxy: "socks5://:9050", wantErr: true},
		{name: "unsupported scheme", proxy: "ftp://127.0.0.1:21", wantErr: true},
		{name: "not a URL", proxy: "127.0.0.1:9050", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewClient(tt.proxy, time.Second)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProxyURL) {
					t.Errorf("expected ErrInvalidProxyURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Timeout() != time.Second {
				t.Errorf("Timeout() = %v, want 1s", c.Timeout())
			}
		})
	}
}

// TestNewHTTPClient tests the transport configuration per route.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("socks5 route dials through proxy", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient("socks5://127.0.0.1:9050", 5*time.Second)
		if err != nil {
			t.Fatal(err)
		}
		hc := c.NewHTTPClient()
		tr, ok := hc.Transport.(*http.Transport)
		if !ok {
			t.Fatalf("expected *http.Transport, got %T", hc.Transport)
		}
		if tr.DialContext == nil {
			t.Error("expected DialContext to be set for SOCKS5")
		}
		if tr.Proxy != nil {
			t.Error("expected HTTP proxy func to be cleared for SOCKS5")
		}
		if hc.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", hc.Timeout)
		}
	})

	t.Run("http proxy route", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient("http://proxy.internal:3128", time.Second)
		if err != nil {
			t.Fatal(err)
		}
		tr := c.NewHTTPClient().Transport.(*http.Transport)
		req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
		u, err := tr.Proxy(req)
		if err != nil || u == nil || u.Host != "proxy.internal:3128" {
			t.Errorf("Proxy() = %v, %v", u, err)
		}
	})

	t.Run("redirect limit", func(t *testing.T) {
		t.Parallel()

		c, _ := NewClient("", time.Second)
		hc := c.NewHTTPClient()
		via := make([]*http.Request, maxRedirects)
		if err := hc.CheckRedirect(nil, via); !errors.Is(err, http.ErrUseLastResponse) {
			t.Errorf("expected ErrUseLastResponse, got %v", err)
		}
		if err := hc.CheckRedirect(nil, via[:1]); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

// TestHTTPClientWithConfig tests that cookie, headers and user agent reach the server.
func TestHTTPClientWithConfig(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient("", 5*time.Second, WithUserAgent("llmstxt-test/1.0"))
	if err != nil {
		t.Fatal(err)
	}
	hc := c.HTTPClientWithConfig("127.0.0.1", "session=abc", map[string]string{
		"Authorization": "Bearer fc-test",
	})

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Cookie", "consent=yes")
	resp, err := hc.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	got := <-headers
	if got.Get("Authorization") != "Bearer fc-test" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("Cookie") != "consent=yes; session=abc" {
		t.Errorf("Cookie = %q", got.Get("Cookie"))
	}
	if got.Get("User-Agent") != "llmstxt-test/1.0" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("original request was modified")
	}
}

// TestHTTPClientWithConfig_CrossHostRedirect tests that the cookie and
// headers stay with the configured host when a redirect leaves it.
func TestHTTPClientWithConfig_CrossHostRedirect(t *testing.T) {
	t.Parallel()

	foreignHeaders := make(chan http.Header, 1)
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignHeaders <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer foreign.Close()

	// Same server, reached under a different host name.
	_, port, err := net.SplitHostPort(foreign.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://localhost:"+port+"/next", http.StatusTemporaryRedirect)
	}))
	defer origin.Close()

	c, err := NewClient("", 5*time.Second, WithUserAgent("llmstxt-test/1.0"))
	if err != nil {
		t.Fatal(err)
	}
	hc := c.HTTPClientWithConfig("127.0.0.1", "session=abc", map[string]string{
		"Authorization": "Bearer site-token",
	})

	resp, err := hc.Get(origin.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	got := <-foreignHeaders
	if got.Get("Authorization") != "" {
		t.Errorf("Authorization leaked to foreign host: %q", got.Get("Authorization"))
	}
	if got.Get("Cookie") != "" {
		t.Errorf("Cookie leaked to foreign host: %q", got.Get("Cookie"))
	}
	if got.Get("User-Agent") != "llmstxt-test/1.0" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
}

// TestProxyStatus tests String and Error.
func TestProxyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  ProxyStatus
		str     string
		wantErr error
	}{
		{status: ProxyStatusOK, str: "OK", wantErr: nil},
		{status: ProxyStatusWrongType, str: "wrong type (not SOCKS5)", wantErr: ErrProxyNotSOCKS5},
		{status: ProxyStatusCannotConnect, str: "cannot connect", wantErr: ErrProxyCannotConnect},
		{status: ProxyStatusTimeout, str: "timeout", wantErr: ErrProxyTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			if tt.status.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.status.String(), tt.str)
			}
			if !errors.Is(tt.status.Err(), tt.wantErr) {
				t.Errorf("Err() = %v, want %v", tt.status.Err(), tt.wantErr)
			}
		})
	}

	if ProxyStatus(99).String() != "unknown" || ProxyStatus(99).Err() == nil {
		t.Error("unexpected handling of unknown status")
	}
}

// startMockProxy serves one connection and answers the greeting with reply.
// The greeting it received is sent on the returned channel.
func startMockProxy(t *testing.T, reply []byte) (string, <-chan []byte) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
	if err != nil {
		t.Fatalf("failed to start mock proxy: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	greetings := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		header := make([]byte, 2)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		methods := make([]byte, header[1])
		if _, err := io.ReadFull(conn, methods); err != nil {
			return
		}
		greetings <- append(header, methods...)
		_, _ = conn.Write(reply)
	}()
	return listener.Addr().String(), greetings
}

// TestCheckProxy tests the SOCKS5 greeting check.
func TestCheckProxy(t *testing.T) {
	t.Parallel()

	t.Run("no proxy is always OK", func(t *testing.T) {
		t.Parallel()
		c, _ := NewClient("", time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusOK {
			t.Errorf("expected OK, got %v", s)
		}
	})

	t.Run("valid SOCKS5 proxy", func(t *testing.T) {
		t.Parallel()
		addr, greetings := startMockProxy(t, []byte{0x05, 0x00})
		c, err := NewClient("socks5://"+addr, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if s := c.CheckProxy(context.Background()); s != ProxyStatusOK {
			t.Errorf("expected OK, got %v", s)
		}
		if g := <-greetings; !bytes.Equal(g, []byte{0x05, 0x01, 0x00}) {
			t.Errorf("greeting = %x, want 050100", g)
		}
	})

	t.Run("proxy requiring auth without credentials", func(t *testing.T) {
		t.Parallel()
		addr, _ := startMockProxy(t, []byte{0x05, 0xFF})
		c, _ := NewClient("socks5://"+addr, time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("proxy selecting password auth we did not offer", func(t *testing.T) {
		t.Parallel()
		addr, _ := startMockProxy(t, []byte{0x05, 0x02})
		c, _ := NewClient("socks5://"+addr, time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("proxy requiring auth with credentials", func(t *testing.T) {
		t.Parallel()
		addr, greetings := startMockProxy(t, []byte{0x05, 0x02})
		c, err := NewClient("socks5://user:pass@"+addr, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if s := c.CheckProxy(context.Background()); s != ProxyStatusOK {
			t.Errorf("expected OK, got %v", s)
		}
		if g := <-greetings; !bytes.Equal(g, []byte{0x05, 0x02, 0x00, 0x02}) {
			t.Errorf("greeting = %x, want 05020002", g)
		}
	})

	t.Run("credentials rejected by every method", func(t *testing.T) {
		t.Parallel()
		addr, _ := startMockProxy(t, []byte{0x05, 0xFF})
		c, _ := NewClient("socks5://user:pass@"+addr, time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("not a SOCKS server", func(t *testing.T) {
		t.Parallel()
		addr, _ := startMockProxy(t, []byte("HTTP/1.1 400 Bad Request\r\n"))
		c, _ := NewClient("socks5://"+addr, time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusWrongType {
			t.Errorf("expected WrongType, got %v", s)
		}
	})

	t.Run("nothing listening", func(t *testing.T) {
		t.Parallel()
		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatal(err)
		}
		addr := listener.Addr().String()
		listener.Close()

		c, _ := NewClient("socks5://"+addr, time.Second)
		if s := c.CheckProxy(context.Background()); s != ProxyStatusCannotConnect {
			t.Errorf("expected CannotConnect, got %v", s)
		}
	})
}
