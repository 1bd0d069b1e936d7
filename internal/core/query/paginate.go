package query

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
	// MaxPage caps the page number so the skip offset stays well inside int64.
	MaxPage = 1_000_000
)

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the links returned with every list response.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Window parses page and limit. Missing, non-numeric or non-positive values
// fall back to the defaults; larger values are clamped to MaxPage and MaxLimit.
func Window(pageRaw, limitRaw string) (page, limit int) {
	return bounded(pageRaw, DefaultPage, MaxPage), bounded(limitRaw, DefaultLimit, MaxLimit)
}

func bounded(raw string, def, ceiling int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Digits beyond int range still mean "as large as allowed".
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return ceiling
		}
		return def
	}
	if n < 1 {
		return def
	}
	return min(n, ceiling)
}

// Paginate computes next/prev links for a page of size limit over total
// matching records. Links are omitted once page is beyond the last page.
func Paginate(page, limit int, total int64) Pagination {
	var p Pagination
	if limit < 1 {
		return p
	}
	start := int64(page-1) * int64(limit)
	end := int64(page) * int64(limit)
	lastPage := (total + int64(limit) - 1) / int64(limit)
	if lastPage < int64(page) {
		return p
	}
	if end < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Sparse reduces v to its JSON id plus the selected top-level fields. A
// nested selection such as "location.city" keeps the whole "location" key,
// which the database projection has already trimmed.
func Sparse(v any, fields []string) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var full map[string]any
	if err := json.Unmarshal(b, &full); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields)+1)
	if id, ok := full["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		top, _, _ := strings.Cut(f, ".")
		if val, ok := full[top]; ok {
			out[top] = val
		}
	}
	return out, nil
}

// SparseAll applies Sparse to each item. With no selection the items are
// returned untouched.
func SparseAll[T any](items []T, fields []string) (any, error) {
	if len(fields) == 0 {
		return items, nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m, err := Sparse(it, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
