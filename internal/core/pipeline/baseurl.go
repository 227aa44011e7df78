package pipeline

import (
	"net/http"
	"net/url"
	"strings"
)

// BaseURL rewrites requests under namespace to origin+path. Anything else,
// including already absolute URLs, passes through unchanged.
func BaseURL(origin *url.URL, namespace string) Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host != "" || !strings.HasPrefix(req.URL.Path, namespace) {
				return next.Do(req)
			}

			target := *origin
			target.Path = strings.TrimRight(origin.Path, "/") + req.URL.Path
			target.RawPath = ""
			target.RawQuery = req.URL.RawQuery
			target.Fragment = ""

			out := req.Clone(req.Context())
			out.URL = &target
			out.Host = target.Host
			return next.Do(out)
		})
	}
}
