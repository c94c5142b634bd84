package middlewares

import (
	"net/http"
	"strings"
)

type Middleware func(http.Handler) http.Handler

// MiddlewaresExcludePaths wraps a middleware so it is skipped for the
// given routes (public endpoints like login and signup). An entry is
// either a path prefix ("/users/login") or a method-qualified pattern
// ("GET /invites/{token}") where {segment} matches any single segment.
func MiddlewaresExcludePaths(middleware Middleware, excluded ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, entry := range excluded {
				if matchesExcluded(r, entry) {
					next.ServeHTTP(w, r)
					return
				}
			}
			middleware(next).ServeHTTP(w, r)
		})
	}
}

func matchesExcluded(r *http.Request, entry string) bool {
	method, pattern, hasMethod := strings.Cut(entry, " ")
	if !hasMethod {
		return strings.HasPrefix(r.URL.Path, entry)
	}
	if r.Method != method {
		return false
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
