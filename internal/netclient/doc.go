// Package netclient builds the HTTP clients used to reach Firecrawl, the
// chat-completion endpoint and, with the native backend, the target site.
//
// All clients created from one Client share the same outbound route: a
// direct connection, an HTTP(S) proxy, or a SOCKS5 proxy dialed through
// golang.org/x/net/proxy. Per-request headers (API credentials, a site
// cookie, the User-Agent) are added by a RoundTripper wrapper so every
// request, redirects included, carries them.
package netclient
