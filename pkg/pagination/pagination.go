package pagination

import "strconv"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Pageable holds offset pagination inputs from controllers or event payloads.
type Pageable struct {
	Skip  int
	Limit int
}

// Normalize clamps the pageable to the configured default and maximum limits.
func (p Pageable) Normalize() Pageable {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Parse builds a normalized Pageable from raw query string values.
func Parse(skip, limit string) Pageable {
	p := Pageable{}
	if v, err := strconv.Atoi(skip); err == nil {
		p.Skip = v
	}
	if v, err := strconv.Atoi(limit); err == nil {
		p.Limit = v
	}
	return p.Normalize()
}

// Slice is one bounded window of results plus the total count, which is
// computed independently of the window.
type Slice[T any] struct {
	Content []T   `json:"content"`
	Total   int64 `json:"total"`
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
}

// NewSlice pairs a page of content with its total count and window.
func NewSlice[T any](content []T, total int64, p Pageable) Slice[T] {
	if content == nil {
		content = []T{}
	}
	return Slice[T]{Content: content, Total: total, Skip: p.Skip, Limit: p.Limit}
}
