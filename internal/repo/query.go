package repo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tkarhu/fishing-log/internal/domain"
)

// colType tells the keyset renderer how to convert a cursor's string-encoded
// sort value back into a typed SQL argument.
type colType int

const (
	colTime colType = iota
	colInt
	colText
)

// sortField maps an API-level sort name onto a concrete column.
type sortField struct {
	column string
	typ    colType
}

// listQuery is a composable specification for one keyset-paginated list:
// predicates, sort, cursor, and limit, rendered to SQL by a single function.
// Business code builds the specification; only SQL() knows the wire shape.
// Keeping it a value makes the query shape unit-testable without a database.
type listQuery struct {
	selectCols string
	from       string
	idCol      string
	where      []string
	args       pgx.NamedArgs
	groupBy    string
	sort       sortField
	order      domain.Order
	cursor     *domain.Cursor
	limit      int
}

// newListQuery starts a specification with the given select list and FROM
// clause (which may include joins). The tie-breaking id column defaults to
// "id"; use tieBreak to qualify it when the FROM clause joins tables.
func newListQuery(selectCols, from string) *listQuery {
	return &listQuery{
		selectCols: selectCols,
		from:       from,
		idCol:      "id",
		args:       pgx.NamedArgs{},
		order:      domain.OrderDesc,
	}
}

// tieBreak overrides the tie-breaking primary key column.
func (q *listQuery) tieBreak(col string) *listQuery {
	q.idCol = col
	return q
}

// and appends a conjunctive predicate. Named arguments referenced by cond are
// supplied via arg.
func (q *listQuery) and(cond string) *listQuery {
	q.where = append(q.where, cond)
	return q
}

// arg binds one named argument value.
func (q *listQuery) arg(name string, value any) *listQuery {
	q.args[name] = value
	return q
}

// paginate applies the sort field, direction, cursor, and limit from p.
func (q *listQuery) paginate(p domain.ListParams, sort sortField) *listQuery {
	q.sort = sort
	q.order = p.Order
	q.cursor = p.Cursor
	q.limit = p.Limit
	return q
}

// SQL renders the specification. The keyset condition is
//
//	sort OP v OR (sort = v AND id OP cid)
//
// so rows sharing the sort value are tie-broken on id, and the query fetches
// limit+1 rows so the caller can tell whether another page exists.
// A cursor whose sort value cannot be parsed for the sort column's type is a
// validation_error.
func (q *listQuery) SQL() (string, pgx.NamedArgs, error) {
	where := make([]string, len(q.where))
	copy(where, q.where)

	op := ">"
	dir := "ASC"
	if q.order == domain.OrderDesc {
		op = "<"
		dir = "DESC"
	}

	if q.cursor != nil {
		v, err := parseSortValue(q.cursor.SortValue, q.sort.typ)
		if err != nil {
			return "", nil, domain.Validationf("invalid cursor")
		}
		where = append(where, fmt.Sprintf(
			"(%[1]s %[2]s @ks_v OR (%[1]s = @ks_v AND %[3]s %[2]s @ks_id))",
			q.sort.column, op, q.idCol))
		q.args["ks_v"] = v
		q.args["ks_id"] = q.cursor.ID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s\nFROM %s", q.selectCols, q.from)
	if len(where) > 0 {
		fmt.Fprintf(&b, "\nWHERE %s", strings.Join(where, " AND "))
	}
	if q.groupBy != "" {
		fmt.Fprintf(&b, "\nGROUP BY %s", q.groupBy)
	}
	fmt.Fprintf(&b, "\nORDER BY %s %s, %s %s", q.sort.column, dir, q.idCol, dir)
	fmt.Fprintf(&b, "\nLIMIT %d", q.limit+1)

	return b.String(), q.args, nil
}

// parseSortValue converts a cursor's string-encoded sort value into the typed
// argument the column comparison needs.
func parseSortValue(s string, typ colType) (any, error) {
	switch typ {
	case colTime:
		return time.Parse(time.RFC3339Nano, s)
	case colInt:
		return strconv.Atoi(s)
	}
	return s, nil
}

// formatSortTime renders a row's time sort value the way cursors carry it.
func formatSortTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// pageRows truncates a limit+1 result set to limit rows and builds the next
// cursor from the last retained row. A result of limit or fewer rows means
// this is the final page and the cursor is nil.
func pageRows[T any](rows []T, limit int, cursorOf func(T) domain.Cursor) ([]T, *domain.Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	c := cursorOf(rows[limit-1])
	return rows, &c
}
