package api

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// NewNLQProxy builds a reverse proxy that forwards /watsonx/* requests to
// the external NLQ backend, stripping the /watsonx prefix so that
// POST /watsonx/query lands on the backend's /query endpoint. This replaces
// the http-proxy-middleware wiring of the original Express server.
func NewNLQProxy(target string) (*httputil.ReverseProxy, error) {
	backend, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid NLQ backend URL %q: %w", target, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(backend)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		req.URL.Path = rewritePath(req.URL.Path)
		req.URL.RawPath = ""
		director(req)
		req.Host = backend.Host
	}
	return proxy, nil
}

// rewritePath strips the /watsonx mount prefix from a proxied request path.
func rewritePath(path string) string {
	rewritten := strings.TrimPrefix(path, "/watsonx")
	if rewritten == "" {
		return "/"
	}
	return rewritten
}
