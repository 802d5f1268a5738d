package pagination

// Meta contains metadata about a rendered page.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`

	// Start and End are the 1-based positions of the first and last record
	// on the page within the filtered dataset. Both are 0 when the page is empty.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// NewMeta creates page metadata for page out of totalItems records.
func NewMeta(page, pageSize, totalItems int) Meta {
	if pageSize < MinPageSize {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}

	start, end := 0, 0
	if first := (page - 1) * pageSize; first < totalItems {
		start = first + 1
		end = min(first+pageSize, totalItems)
	}

	return Meta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
		Start:       start,
		End:         end,
	}
}
