package network

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"

	"meetnotes/backend/internal/logger"
)

// ClientFactory creates HTTP clients for outbound provider calls.
type ClientFactory struct {
	proxyURL      string
	testTransport http.RoundTripper // For testing only
}

// NewClientFactory creates a client factory. An empty proxyURL means direct connections.
func NewClientFactory(proxyURL string) *ClientFactory {
	return &ClientFactory{proxyURL: strings.TrimSpace(proxyURL)}
}

// NewClientFactoryForTest creates a client factory whose clients use the given transport.
// This is only for use in tests.
func NewClientFactoryForTest(transport http.RoundTripper) *ClientFactory {
	return &ClientFactory{testTransport: transport}
}

// NewHTTPClient creates an http.Client with the configured proxy.
// No client timeout is set; request contexts bound the call.
func (f *ClientFactory) NewHTTPClient() *http.Client {
	client := &http.Client{}

	if f.testTransport != nil {
		client.Transport = f.testTransport
		return client
	}

	if f.proxyURL != "" {
		client.Transport = newTransportWithProxy(f.proxyURL)
	}

	return client
}

// ProxyURL returns the configured proxy URL.
func (f *ClientFactory) ProxyURL() string {
	return f.proxyURL
}

// newTransportWithProxy creates an http.Transport with proper proxy support.
// For SOCKS5 proxies, it uses golang.org/x/net/proxy for correct handling.
// For HTTP/HTTPS proxies, it uses the standard http.ProxyURL.
func newTransportWithProxy(proxyURL string) *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()

	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Host == "" {
		logger.Warn("outbound proxy ignored", "module", "network", "action", "create", "resource", "proxy", "result", "failed", "error", err)
		return base
	}

	if strings.HasPrefix(parsed.Scheme, "socks") {
		var auth *proxy.Auth
		if parsed.User != nil {
			auth = &proxy.Auth{
				User: parsed.User.Username(),
			}
			if password, ok := parsed.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			logger.Warn("socks proxy dialer failed", "module", "network", "action", "create", "resource", "proxy", "result", "failed", "error", err)
			return base
		}

		base.Proxy = nil
		if ctxDialer, ok := dialer.(proxy.ContextDialer); ok {
			base.DialContext = ctxDialer.DialContext
		} else {
			base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return base
	}

	base.Proxy = http.ProxyURL(parsed)
	return base
}
