package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page returned alongside list payloads.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps page and limit into their allowed ranges.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	norm := Normalize(p)
	return (norm.Page - 1) * norm.Limit
}

// NewMeta builds the page descriptor for a total row count.
func NewMeta(p Params, total int64) Meta {
	norm := Normalize(p)
	pages := int(total / int64(norm.Limit))
	if total%int64(norm.Limit) != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		Page:       norm.Page,
		Limit:      norm.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
