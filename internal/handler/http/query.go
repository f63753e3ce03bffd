package http

import (
	"net/http"
	"strconv"
)

// queryParam returns the named query value, or nil when it is absent or empty.
func queryParam(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// pagination reads page and limit, ignoring values that are not positive numbers.
func pagination(r *http.Request) (page, limit int) {
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	return page, limit
}
