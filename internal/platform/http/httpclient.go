// Package http provides outbound HTTP plumbing shared by external API clients.
package http

import (
	"net"
	"net/http"
	"time"
)

// userAgent identifies this service to upstream APIs.
const userAgent = "cryptovision/1.0"

// NewHTTPClient creates an HTTP client tuned for calls to external market APIs.
//
// http.DefaultClient has no timeout, so callers must always go through this.
// The transport honours HTTP_PROXY, keeps connections alive for reuse and
// bounds dial and TLS handshake time separately from the overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &uaTransport{next: t}}
}

// uaTransport sets a User-Agent on requests that do not carry one.
type uaTransport struct {
	next http.RoundTripper
}

func (u *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", userAgent)
	return u.next.RoundTrip(r)
}
