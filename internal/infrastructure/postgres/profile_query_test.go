package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/user-directory/internal/domain/repository"
)

func TestProfileWhere(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    repository.ProfileFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			filter:    repository.ProfileFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "search only",
			filter:    repository.ProfileFilter{Search: "John"},
			wantWhere: " WHERE (name ILIKE $1 OR email ILIKE $1)",
			wantArgs:  []any{"%John%"},
		},
		{
			name:      "search escapes wildcards",
			filter:    repository.ProfileFilter{Search: `50%_off\`},
			wantWhere: " WHERE (name ILIKE $1 OR email ILIKE $1)",
			wantArgs:  []any{`%50\%\_off\\%`},
		},
		{
			name:      "date range only",
			filter:    repository.ProfileFilter{DateFrom: &from, DateTo: &to},
			wantWhere: " WHERE created_at >= $1 AND created_at <= $2",
			wantArgs:  []any{from, to},
		},
		{
			name:      "all filters",
			filter:    repository.ProfileFilter{Search: "doe", DateFrom: &from, DateTo: &to},
			wantWhere: " WHERE (name ILIKE $1 OR email ILIKE $1) AND created_at >= $2 AND created_at <= $3",
			wantArgs:  []any{"%doe%", from, to},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where, args := profileWhere(tc.filter)
			assert.Equal(t, tc.wantWhere, where)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestProfileListQuery_PaginationPlaceholders(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	countSQL, pageSQL, args := profileListQuery(repository.ProfileFilter{Search: "a", DateFrom: &from}, 20, 10)

	assert.Equal(t, `SELECT COUNT(*) FROM "user" WHERE (name ILIKE $1 OR email ILIKE $1) AND created_at >= $2`, countSQL)
	assert.Equal(t,
		`SELECT id, name, email, age, avatar, created_at, updated_at FROM "user" WHERE (name ILIKE $1 OR email ILIKE $1) AND created_at >= $2 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		pageSQL)
	assert.Len(t, args, 2)
}
