// Package network provides the HTTP client used for the storage sink and
// webhook calls, plus proxy rotation for browser sessions.
package network

import (
	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// Client wraps a TLS-fingerprinted HTTP client with a default user agent.
type Client struct {
	http      tls_client.HttpClient
	userAgent string
}

func NewClient(userAgent string) (*Client, error) {
	return newClient(userAgent, "")
}

// NewClientWithProxy routes all requests through one proxy, used when
// validating proxies before handing them to browser sessions.
func NewClientWithProxy(userAgent, proxyURL string) (*Client, error) {
	return newClient(userAgent, proxyURL)
}

func newClient(userAgent, proxyURL string) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	options := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(30),
		tls_client.WithCookieJar(jar),
	}
	if proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(proxyURL))
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:      client,
		userAgent: userAgent,
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}
