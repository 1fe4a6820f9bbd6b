package middlewares

import (
	"net/http"
	"slices"
)

// ListingParams are the query parameters the API reads.
var ListingParams = []string{"genre", "available", "user", "search", "page", "limit", "sort", "role"}

// HPP guards against HTTP parameter pollution on the query string:
// repeated parameters keep their first value and unknown ones are dropped.
func HPP(whitelist []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				filterQueryParams(r, whitelist)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func filterQueryParams(r *http.Request, whitelist []string) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(whitelist, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}
