// Package search builds portable case-insensitive substring filters.
package search

import (
	"strings"

	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/models"
)

// escapeChar works as LIKE escape on postgres, mysql and sqlite alike.
const escapeChar = "!"

var likeEscaper = strings.NewReplacer(
	escapeChar, escapeChar+escapeChar,
	"%", escapeChar+"%",
	"_", escapeChar+"_",
)

// Pattern returns a folded LIKE pattern matching q anywhere.
// Wildcards in q are matched literally.
func Pattern(q string) string {
	return "%" + likeEscaper.Replace(models.Fold(q)) + "%"
}

// Contains narrows tx to rows where any of the folded columns contains q.
// Columns must hold values passed through models.Fold, SQL LOWER only folds
// ASCII on sqlite. An empty q leaves tx unchanged.
func Contains(tx *gorm.DB, q string, foldedColumns ...string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" || len(foldedColumns) == 0 {
		return tx
	}

	pattern := Pattern(q)
	clauses := make([]string, 0, len(foldedColumns))
	args := make([]any, 0, len(foldedColumns))

	for _, col := range foldedColumns {
		clauses = append(clauses, col+" LIKE ? ESCAPE '"+escapeChar+"'")
		args = append(args, pattern)
	}

	return tx.Where(strings.Join(clauses, " OR "), args...)
}
