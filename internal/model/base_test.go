package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		limit   int
		max     int
		wantErr bool
	}{
		{name: "defaults are valid", page: 1, limit: 10, max: MaxListLimit},
		{name: "limit at max", page: 1, limit: 100, max: MaxListLimit},
		{name: "page zero rejected", page: 0, limit: 10, max: MaxListLimit, wantErr: true},
		{name: "negative page rejected", page: -3, limit: 10, max: MaxListLimit, wantErr: true},
		{name: "limit zero rejected", page: 1, limit: 0, max: MaxListLimit, wantErr: true},
		{name: "limit over max rejected", page: 1, limit: 101, max: MaxListLimit, wantErr: true},
		{name: "search max is tighter", page: 1, limit: 51, max: MaxSearchLimit, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPagination(tt.page, tt.limit, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p, err := NewPagination(3, 10, MaxListLimit)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPageInfo(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}

	info := NewPageInfo(p, 25)
	assert.Equal(t, 25, info.Total)
	assert.Equal(t, 3, info.TotalPages)

	info = NewPageInfo(p, 0)
	assert.Equal(t, 0, info.TotalPages)

	info = NewPageInfo(p, 10)
	assert.Equal(t, 1, info.TotalPages)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("nurse@hospital.org"))
	assert.True(t, ValidEmail("a.b+c@sub.example.co"))
	assert.False(t, ValidEmail("no-at-sign"))
	assert.False(t, ValidEmail("spaces in@example.com"))
	assert.False(t, ValidEmail("missing@tld"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+1234567890"))
	assert.True(t, ValidPhone("(123) 456-7890"))
	assert.True(t, ValidPhone("987654321"))
	assert.False(t, ValidPhone("abc"))
	assert.False(t, ValidPhone("0123456"))
	assert.False(t, ValidPhone("+12345678901234567"))
}
