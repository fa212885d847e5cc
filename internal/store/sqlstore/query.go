package sqlstore

import (
	"strings"

	"github.com/snowman-se/bad-memo-app/internal/model"
)

const likeEscape = `\`

// escapeLike makes every character of s match itself inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// orderBy maps a sort key onto a fixed ORDER BY clause. Input never reaches the SQL text.
func orderBy(sort string) string {
	switch model.NormalizeSort(sort) {
	case model.SortOld:
		return " ORDER BY m.created_at ASC, m.id ASC"
	case model.SortTitle:
		return " ORDER BY m.title ASC, m.created_at DESC, m.id DESC"
	default:
		return " ORDER BY m.created_at DESC, m.id DESC"
	}
}

// listFilter is the WHERE clause of a memo listing plus its bound arguments.
type listFilter struct {
	where string
	args  []any
}

// buildFilter builds the parameterized filter for q. The text query and the tag
// are always bound as arguments; the text query is matched as a literal
// substring of title or body. Both go through model.CleanText so a NUL cannot
// cut the pattern short and Postgres never sees invalid UTF-8.
func buildFilter(d Dialect, q model.ListQuery) listFilter {
	var conds []string
	var args []any
	if q.Query != "" {
		pattern := "%" + escapeLike(model.CleanText(q.Query)) + "%"
		conds = append(conds, "(m.title "+d.LikeOp+" ? ESCAPE '"+likeEscape+"' OR m.body "+d.LikeOp+" ? ESCAPE '"+likeEscape+"')")
		args = append(args, pattern, pattern)
	}
	if q.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM memo_tags mt WHERE mt.memo_id = m.id AND mt.tag_name = ?)")
		args = append(args, model.CleanText(q.Tag))
	}
	if len(conds) == 0 {
		return listFilter{}
	}
	return listFilter{where: " WHERE " + strings.Join(conds, " AND "), args: args}
}

func countQuery(d Dialect, f listFilter) string {
	return d.Rebind("SELECT COUNT(*) FROM memos m" + f.where)
}

func pageQuery(d Dialect, f listFilter, sort string) string {
	return d.Rebind("SELECT m.id, m.title, m.body, m.created_at FROM memos m" + f.where + orderBy(sort) + " LIMIT ? OFFSET ?")
}

// inClause returns "(?, ?, ...)" with n placeholders.
func inClause(n int) string {
	if n <= 0 {
		return "(NULL)"
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}
