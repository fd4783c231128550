package repo

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarhu/fishing-log/internal/domain"
)

func TestListQuery_FirstPage(t *testing.T) {
	q := newListQuery("id, title", "trips").
		and("owner_id = @owner_id").arg("owner_id", uuid.New()).
		paginate(domain.ListParams{Limit: 20, Order: domain.OrderDesc},
			sortField{column: "started_at", typ: colTime})

	sql, args, err := q.SQL()

	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE owner_id = @owner_id")
	assert.Contains(t, sql, "ORDER BY started_at DESC, id DESC")
	// limit+1 so the caller can detect whether another page exists.
	assert.Contains(t, sql, "LIMIT 21")
	assert.NotContains(t, sql, "ks_v")
	assert.NotContains(t, args, "ks_v")
}

func TestListQuery_CursorAddsKeysetCondition(t *testing.T) {
	at := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	cursor := &domain.Cursor{SortValue: formatSortTime(at), ID: uuid.New()}

	q := newListQuery("id", "trips").
		paginate(domain.ListParams{Limit: 10, Order: domain.OrderDesc, Cursor: cursor},
			sortField{column: "started_at", typ: colTime})

	sql, args, err := q.SQL()

	require.NoError(t, err)
	assert.Contains(t, sql, "(started_at < @ks_v OR (started_at = @ks_v AND id < @ks_id))")
	assert.Equal(t, at, args["ks_v"].(time.Time).UTC())
	assert.Equal(t, cursor.ID, args["ks_id"])
}

func TestListQuery_AscendingFlipsOperator(t *testing.T) {
	cursor := &domain.Cursor{SortValue: "42", ID: uuid.New()}

	q := newListQuery("c.id", "catches c").tieBreak("c.id").
		paginate(domain.ListParams{Limit: 10, Order: domain.OrderAsc, Cursor: cursor},
			sortField{column: "c.weight_grams", typ: colInt})

	sql, args, err := q.SQL()

	require.NoError(t, err)
	assert.Contains(t, sql, "(c.weight_grams > @ks_v OR (c.weight_grams = @ks_v AND c.id > @ks_id))")
	assert.Contains(t, sql, "ORDER BY c.weight_grams ASC, c.id ASC")
	assert.Equal(t, 42, args["ks_v"])
}

// TestListQuery_WeightSortIsNullSafe pins the weight sort to its COALESCE
// column. Sorting on the bare nullable column would make the keyset
// comparison evaluate to NULL for NULL-weight rows, silently dropping them
// once a page boundary lands inside the NULL block.
func TestListQuery_WeightSortIsNullSafe(t *testing.T) {
	sort := catchSortFields["weight_grams"]
	cursor := &domain.Cursor{SortValue: "0", ID: uuid.New()}

	q := newListQuery("c.id", "catches c").tieBreak("c.id").
		paginate(domain.ListParams{Limit: 10, Order: domain.OrderDesc, Cursor: cursor}, sort)

	sql, args, err := q.SQL()

	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY COALESCE(c.weight_grams, 0) DESC, c.id DESC")
	assert.Contains(t, sql,
		"(COALESCE(c.weight_grams, 0) < @ks_v OR (COALESCE(c.weight_grams, 0) = @ks_v AND c.id < @ks_id))")
	assert.Equal(t, 0, args["ks_v"])
}

// A NULL weight must render the same value COALESCE sorts it under.
func TestCatchSortValue_NullWeight(t *testing.T) {
	assert.Equal(t, "0", catchSortValue(domain.Catch{}, "weight_grams"))

	w := 1250
	assert.Equal(t, "1250", catchSortValue(domain.Catch{WeightGrams: &w}, "weight_grams"))
}

func TestListQuery_UnparsableCursorSortValue(t *testing.T) {
	cursor := &domain.Cursor{SortValue: "not-a-time", ID: uuid.New()}

	q := newListQuery("id", "trips").
		paginate(domain.ListParams{Limit: 10, Cursor: cursor},
			sortField{column: "started_at", typ: colTime})

	_, _, err := q.SQL()

	// A forged cursor must surface as a client error, not a SQL error.
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestParseSortValue(t *testing.T) {
	at, err := parseSortValue("2025-06-01T07:00:00Z", colTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC), at)

	n, err := parseSortValue("1250", colInt)
	require.NoError(t, err)
	assert.Equal(t, 1250, n)

	s, err := parseSortValue("anything", colText)
	require.NoError(t, err)
	assert.Equal(t, "anything", s)

	_, err = parseSortValue("NaN", colInt)
	assert.Error(t, err)
}

// TestPageRows_Completeness walks 3 rows with limit 2: the first page holds
// 2 rows plus a cursor, the second holds the remaining row with a nil cursor,
// and together the pages cover every row exactly once.
func TestPageRows_Completeness(t *testing.T) {
	type row struct {
		id     uuid.UUID
		weight int
	}
	cursorOf := func(r row) domain.Cursor {
		return domain.Cursor{SortValue: strconv.Itoa(r.weight), ID: r.id}
	}
	all := []row{
		{uuid.New(), 300},
		{uuid.New(), 200},
		{uuid.New(), 100},
	}

	// The repo fetches limit+1; simulate that over the sorted rows.
	first, next := pageRows(all[:3], 2, cursorOf)
	require.Len(t, first, 2)
	require.NotNil(t, next)
	assert.Equal(t, all[1].id, next.ID)
	assert.Equal(t, "200", next.SortValue)

	second, last := pageRows(all[2:], 2, cursorOf)
	require.Len(t, second, 1)
	assert.Nil(t, last)

	seen := map[uuid.UUID]bool{}
	for _, r := range append(first, second...) {
		assert.False(t, seen[r.id], "row appeared twice")
		seen[r.id] = true
	}
	assert.Len(t, seen, 3)
}

func TestPageRows_ExactLimitIsFinalPage(t *testing.T) {
	rows := []int{1, 2}

	got, next := pageRows(rows, 2, func(int) domain.Cursor { return domain.Cursor{} })

	assert.Len(t, got, 2)
	assert.Nil(t, next)
}
