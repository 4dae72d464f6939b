package postgres

import (
	"fmt"
	"strings"

	"github.com/phrazzld/todo-api/internal/domain"
)

// Orderings for todo listings. The id tiebreak keeps pages stable when
// several items share a creation time.
const (
	orderOldestFirst = "created_at ASC, id ASC"
	orderNewestFirst = "created_at DESC, id DESC"
)

// todoFilter accumulates WHERE conditions with numbered placeholders.
type todoFilter struct {
	conds []string
	args  []any
}

// add appends a condition. Every "?" in cond is replaced by the placeholder
// of arg, so one argument can be referenced more than once.
func (f *todoFilter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(f.args))))
}

// where renders the WHERE clause, or an empty string when there are no conditions.
func (f *todoFilter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// nextPlaceholder returns the placeholder number for the next argument.
func (f *todoFilter) nextPlaceholder() int {
	return len(f.args) + 1
}

// buildTodoFilter translates a normalized query into SQL conditions.
// All set filters are combined conjunctively.
func buildTodoFilter(q domain.TodoQuery) *todoFilter {
	f := &todoFilter{}

	if q.SearchTerm != "" {
		f.add(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, "%"+escapeLike(q.SearchTerm)+"%")
	}
	if q.IsCompleted != nil {
		f.add("is_completed = ?", *q.IsCompleted)
	}
	if q.Priority != nil {
		f.add("priority = ?", q.Priority.String())
	}
	if q.Category != "" {
		f.add("category = ?", q.Category)
	}
	if q.DueDateFrom != nil {
		f.add("due_date >= ?", q.DueDateFrom.UTC())
	}
	if q.DueDateTo != nil {
		f.add("due_date <= ?", q.DueDateTo.UTC())
	}

	return f
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
