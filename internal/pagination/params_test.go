package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:   "valid default",
			params: *NewParams(),
		},
		{
			name:   "valid with filters",
			params: Params{Page: 3, PageSize: 20, VisiblePages: 7, Search: "promo", Statuses: []string{"active"}},
		},
		{
			name:    "zero page",
			params:  Params{Page: 0, PageSize: 15, VisiblePages: 5},
			wantErr: ErrInvalidPage,
		},
		{
			name:    "page size too large",
			params:  Params{Page: 1, PageSize: MaxPageSize + 1, VisiblePages: 5},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "negative page size",
			params:  Params{Page: 1, PageSize: -1, VisiblePages: 5},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "window too narrow",
			params:  Params{Page: 1, PageSize: 15, VisiblePages: 3},
			wantErr: ErrInvalidVisiblePages,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParams_ValidateRejectsBlankStatus(t *testing.T) {
	p := *NewParams()
	p.Statuses = []string{"active", " "}

	err := p.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status values cannot be empty")
}

func TestParams_Policy(t *testing.T) {
	assert.Equal(t, PageResetKeep, Params{}.Policy())
	assert.Equal(t, PageResetFirst, Params{ResetOnFilter: true}.Policy())
	assert.Equal(t, "keep", PageResetKeep.String())
	assert.Equal(t, "first", PageResetFirst.String())
}

func TestApply(t *testing.T) {
	acc := Accessors[string]{
		Key:    func(s string) string { return s },
		Text:   func(s string) string { return s },
		Status: func(string) string { return "active" },
	}
	data := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		data = append(data, string(rune('a'+i%26))+"-item")
	}

	p := Params{Page: 2, PageSize: 10, VisiblePages: 5, Search: "A-", Statuses: []string{"active"}}
	c := NewController(acc, p.Options()...)
	c.Load(data)

	Apply(p, c)

	assert.Equal(t, 2, c.FilteredLen())
	assert.Equal(t, 1, c.CurrentPage(), "page 2 does not exist and is clamped")
	assert.Equal(t, 10, c.PageSize())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int
		want     Meta
	}{
		{
			name:     "empty",
			page:     1,
			pageSize: 15,
			total:    0,
			want:     Meta{CurrentPage: 1, PageSize: 15},
		},
		{
			name:     "first of three",
			page:     1,
			pageSize: 15,
			total:    37,
			want: Meta{
				CurrentPage: 1, PageSize: 15, TotalPages: 3, TotalItems: 37,
				HasNext: true, Start: 1, End: 15,
			},
		},
		{
			name:     "page past the end",
			page:     4,
			pageSize: 15,
			total:    37,
			want: Meta{
				CurrentPage: 4, PageSize: 15, TotalPages: 3, TotalItems: 37,
				HasPrevious: true,
			},
		},
		{
			name:     "zero page size uses default",
			page:     1,
			pageSize: 0,
			total:    20,
			want: Meta{
				CurrentPage: 1, PageSize: DefaultPageSize, TotalPages: 2, TotalItems: 20,
				HasNext: true, Start: 1, End: 15,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.page, tt.pageSize, tt.total))
		})
	}
}
