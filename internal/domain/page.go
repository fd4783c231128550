package domain

// Order is the sort direction for list queries.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ListParams carries limit/cursor/sort/order values from the HTTP layer down
// to the repo layer. Build it with NewListParams, which normalizes defaults
// and decodes the cursor.
type ListParams struct {
	// Limit is the maximum number of items to return, 1..100, default 20.
	Limit int
	// Cursor is the decoded resume point, nil for the first page.
	Cursor *Cursor
	// Sort is the sort field name. Each service validates it against its
	// entity's fixed sort vocabulary and maps it to a column.
	Sort string
	// Order is asc or desc.
	Order Order
}

// NewListParams builds a ListParams from optional HTTP query values.
// Nil pointers fall back to defaults (limit=20, order=desc). The limit is
// capped at 100 to prevent runaway queries. A malformed cursor or order is a
// validation_error.
func NewListParams(limit *int, rawCursor *string, sort string, order *string) (ListParams, error) {
	p := ListParams{Limit: 20, Sort: sort, Order: OrderDesc}

	if limit != nil {
		if *limit < 1 {
			return ListParams{}, Validationf("limit must be at least 1")
		}
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}

	if order != nil {
		switch Order(*order) {
		case OrderAsc, OrderDesc:
			p.Order = Order(*order)
		default:
			return ListParams{}, Validationf("order must be asc or desc")
		}
	}

	if rawCursor != nil && *rawCursor != "" {
		c, err := DecodeCursor(*rawCursor)
		if err != nil {
			return ListParams{}, err
		}
		p.Cursor = &c
	}

	return p, nil
}

// Page is one page of a cursor-paginated list.
// NextCursor is nil on the final page.
type Page[T any] struct {
	Data       []T     `json:"data"`
	Limit      int     `json:"limit"`
	NextCursor *string `json:"next_cursor"`
}

// NewPage wraps rows and an optional next cursor into a Page.
// A nil rows slice becomes an empty one so callers can always range over Data.
func NewPage[T any](rows []T, limit int, next *Cursor) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	p := Page[T]{Data: rows, Limit: limit}
	if next != nil {
		token := next.Encode()
		p.NextCursor = &token
	}
	return p
}
