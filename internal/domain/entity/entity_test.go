package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageResult(t *testing.T) {
	tests := []struct {
		name           string
		items, total   int
		page           int
		from, to, pags int
		prev, next     bool
	}{
		{"empty", 0, 0, 1, 0, 0, 0, false, false},
		{"first of two", 10, 12, 1, 1, 10, 2, false, true},
		{"last partial", 2, 12, 2, 11, 12, 2, true, false},
		{"page below one", 10, 25, 0, 1, 10, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageResult(make([]int, tt.items), tt.total, tt.page, 10)
			assert.Equal(t, tt.from, p.From())
			assert.Equal(t, tt.to, p.To())
			assert.Equal(t, tt.pags, p.TotalPages)
			assert.Equal(t, tt.prev, p.HasPrev())
			assert.Equal(t, tt.next, p.HasNext())
			assert.Len(t, p.Pages(), tt.pags)
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{"first", 1, 0},
		{"third", 3, 20},
		{"negative", -4, 0},
		{"huge", 1_000_000_000_000_000_000, (math.MaxInt/10 - 1) * 10},
		{"max int", math.MaxInt, (math.MaxInt/10 - 1) * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offset(tt.page, 10)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
	assert.Equal(t, math.MaxInt/10, ClampPage(math.MaxInt, 10))
}

func TestNewPageResult_NilItems(t *testing.T) {
	p := NewPageResult[string](nil, 0, 1, 10)
	assert.NotNil(t, p.Items)
}

func TestRoles(t *testing.T) {
	r := RolesFromStrings([]string{"USER", "", "ADMIN", "USER"})
	assert.True(t, r.Has(RoleAdmin))
	assert.Equal(t, []string{"ADMIN", "USER"}, r.Strings())
	assert.Equal(t, []string{"USER"}, DefaultRoles().Strings())
}

func TestUserProfile_Touch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &UserProfile{}
	p.Touch(created)
	assert.Equal(t, created, p.CreatedAt)

	later := created.Add(time.Hour)
	p.Touch(later)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
}
