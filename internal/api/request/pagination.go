package request

import (
	"net/http"
	"strconv"
)

// Pagination holds parsed offset pagination parameters.
type Pagination struct {
	Limit  int64
	Offset int64
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ParsePagination extracts limit and offset from query parameters.
func ParsePagination(r *http.Request) Pagination {
	p := Pagination{Limit: DefaultLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.ParseInt(offsetStr, 10, 64); err == nil && offset > 0 {
			p.Offset = offset
		}
	}

	return p
}

// QueryBool reports whether the query parameter is "true" or "1".
func QueryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
