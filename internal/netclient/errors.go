package netclient

import "errors"

var (
	// ErrInvalidProxyURL is returned when the proxy URL cannot be used.
	ErrInvalidProxyURL = errors.New("invalid proxy URL: expected socks5://host:port or http(s)://host:port")

	// ErrProxyNotSOCKS5 is returned when the proxy answers but does not
	// speak SOCKS5 with the authentication the proxy URL provides.
	ErrProxyNotSOCKS5 = errors.New("proxy is not a SOCKS5 proxy accepting the configured authentication")

	// ErrProxyCannotConnect is returned when the proxy is unreachable.
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")

	// ErrProxyTimeout is returned when the proxy handshake timed out.
	ErrProxyTimeout = errors.New("timeout connecting to proxy")
)

// ProxyStatus is the outcome of Client.CheckProxy.
type ProxyStatus int

const (
	// ProxyStatusOK means the proxy is usable, or no SOCKS5 proxy is configured.
	ProxyStatusOK ProxyStatus = iota
	// ProxyStatusWrongType means the peer is not a SOCKS5 proxy we can
	// authenticate with.
	ProxyStatusWrongType
	// ProxyStatusCannotConnect means the TCP connection failed.
	ProxyStatusCannotConnect
	// ProxyStatusTimeout means the handshake did not finish in time.
	ProxyStatusTimeout
)

// String returns a short description of s.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Err returns the error matching s, or nil for ProxyStatusOK.
func (s ProxyStatus) Err() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
