package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/user-directory/internal/domain/repository"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// profileWhere renders the WHERE clause for f with positional arguments
// starting at $1.
func profileWhere(f repository.ProfileFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// profileListQuery returns the count and page queries for a listing.
func profileListQuery(f repository.ProfileFilter, offset, limit int) (countSQL string, pageSQL string, args []any) {
	where, args := profileWhere(f)
	countSQL = `SELECT COUNT(*) FROM "user"` + where
	pageSQL = fmt.Sprintf(`SELECT %s FROM "user"%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		profileColumns, where, len(args)+1, len(args)+2)
	return countSQL, pageSQL, args
}
