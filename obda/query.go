package obda

import (
	"strconv"
	"strings"

	"github.com/Feresey/onto2db/graph"
)

// ref колонка в SELECT. Пустая table означает основную таблицу запроса.
type ref struct {
	table  string
	column string
	as     string
}

type join struct {
	inner bool
	table string
	alias string
	fk    string
	key   string
}

type cond struct {
	ref
	value string
}

// query собирает SQL источника отображения.
type query struct {
	quote   func(string) string
	table   string
	items   []ref
	joins   []*join
	alts    [][]cond
	notNull []ref
	// all хотя бы одна альтернатива экстента без условий.
	all bool
}

func newQuery(quote func(string) string, table string) *query {
	return &query{quote: quote, table: table}
}

func (q *query) selectColumn(column string) {
	q.items = append(q.items, ref{column: column})
}

// joinLookup присоединяет справочник по внешнему ключу fk и возвращает псевдоним.
// Повторное присоединение по тому же ключу переиспользует соединение.
func (q *query) joinLookup(lk *graph.Node, fk, key string, inner bool) string {
	for _, j := range q.joins {
		if j.fk == fk {
			j.inner = j.inner || inner
			return j.alias
		}
	}
	alias := lk.Name
	for i := 2; q.aliasUsed(alias); i++ {
		alias = lk.Name + "_" + strconv.Itoa(i)
	}
	q.joins = append(q.joins, &join{inner: inner, table: lk.Name, alias: alias, fk: fk, key: key})
	return alias
}

func (q *query) aliasUsed(alias string) bool {
	if alias == q.table {
		return true
	}
	for _, j := range q.joins {
		if j.alias == alias {
			return true
		}
	}
	return false
}

func (q *query) render(r ref) string {
	s := q.quote(r.column)
	switch {
	case r.table != "":
		s = q.quote(r.table) + "." + s
	case len(q.joins) != 0:
		s = q.quote(q.table) + "." + s
	}
	if r.as != "" {
		s += " AS " + q.quote(r.as)
	}
	return s
}

func (q *query) where() string {
	var parts []string
	if !q.all && len(q.alts) != 0 {
		alts := make([]string, 0, len(q.alts))
		for _, alt := range q.alts {
			conds := make([]string, 0, len(alt))
			for _, c := range alt {
				conds = append(conds, q.render(c.ref)+" = "+c.value)
			}
			alts = append(alts, strings.Join(conds, " AND "))
		}
		switch {
		case len(alts) == 1 && len(q.notNull) == 0:
			parts = append(parts, alts[0])
		case len(alts) == 1:
			parts = append(parts, "("+alts[0]+")")
		default:
			expr := "(" + strings.Join(alts, ") OR (") + ")"
			if len(q.notNull) != 0 {
				expr = "(" + expr + ")"
			}
			parts = append(parts, expr)
		}
	}
	for _, r := range q.notNull {
		parts = append(parts, q.render(r)+" IS NOT NULL")
	}
	return strings.Join(parts, " AND ")
}

func (q *query) String() string {
	items := make([]string, 0, len(q.items))
	for _, r := range q.items {
		items = append(items, q.render(r))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(items, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(q.quote(q.table))
	for _, j := range q.joins {
		if j.inner {
			sb.WriteString(" INNER JOIN ")
		} else {
			sb.WriteString(" LEFT JOIN ")
		}
		sb.WriteString(q.quote(j.table))
		if j.alias != j.table {
			sb.WriteString(" " + q.quote(j.alias))
		}
		sb.WriteString(" ON " + q.quote(q.table) + "." + q.quote(j.fk) + " = " + q.quote(j.alias) + "." + q.quote(j.key))
	}
	if w := q.where(); w != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(w)
	}
	return sb.String()
}
