package catalog

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortKey struct {
	Field string
	Desc  bool
}

// ResolveSort maps a sort keyword to a concrete ordering. Unknown keywords
// silently fall back to newest.
func ResolveSort(keyword string) []SortKey {
	switch keyword {
	case "oldest":
		return []SortKey{{Field: "createdAt"}}
	case "price_asc":
		return []SortKey{{Field: "price"}}
	case "price_desc":
		return []SortKey{{Field: "price", Desc: true}}
	case "popular":
		return []SortKey{{Field: "favorites", Desc: true}, {Field: "createdAt", Desc: true}}
	case "views":
		return []SortKey{{Field: "views", Desc: true}}
	case "recommended":
		return []SortKey{{Field: "isFeatured", Desc: true}, {Field: "createdAt", Desc: true}}
	default: // newest
		return []SortKey{{Field: "createdAt", Desc: true}}
	}
}

type Pagination struct {
	Page  int
	Limit int
	Skip  int
}

// ResolvePagination parses raw page/limit strings, clamping page to >= 1 and
// limit into [1, MaxLimit]. An unparsable limit falls back to DefaultLimit.
func ResolvePagination(pageStr, limitStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func (p Pagination) Meta(total int64) Meta {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
