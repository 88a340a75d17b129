package utils

import (
	"net/http"
	"time"
)

// For testing.
var proxyFunc = http.ProxyFromEnvironment

// NewHTTPClient returns a client built on a clone of the default transport,
// so HTTP_PROXY/HTTPS_PROXY/NO_PROXY are honored. A zero timeout disables the limit.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = proxyFunc
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}

// ProxyFor returns the proxy a client from NewHTTPClient would use for a GET
// of rawURL with any credentials redacted, or "" when connecting directly.
func ProxyFor(rawURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", err
	}
	proxy, err := proxyFunc(req)
	if err != nil {
		return "", err
	}
	if proxy == nil {
		return "", nil
	}
	return proxy.Redacted(), nil
}
