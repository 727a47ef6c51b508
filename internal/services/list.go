package services

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ListParams are the paging and sorting knobs shared by list endpoints.
type ListParams struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

func (p ListParams) page() repository.Page {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

// sort maps an API field name onto a column. Unknown fields fall back to
// created_at and anything but "asc"/"1" sorts descending.
func (p ListParams) sort(columns map[string]string) repository.Sort {
	col, ok := columns[p.SortBy]
	if !ok {
		col = "created_at"
	}
	asc := p.SortOrder == "asc" || p.SortOrder == "1"
	return repository.Sort{Column: col, Desc: !asc}
}
