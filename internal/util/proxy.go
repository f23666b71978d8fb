package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds an http.Transport proxy function for outbound clients.
// With no explicit proxy configured it falls back to the environment.
func NewProxyFunc(httpProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		return url.Parse(httpProxy)
	}
}
