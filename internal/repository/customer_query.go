package repository

import (
	"fmt"
	"math"
	"strings"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

const customerColumns = "c.id, c.first_name, c.last_name, c.phone_number, c.created_at, c.updated_at"

// sortColumns maps the public sortBy values onto qualified columns. Anything not
// in this map is never written into a statement.
var sortColumns = map[string]string{
	"id":           "c.id",
	"first_name":   "c.first_name",
	"last_name":    "c.last_name",
	"phone_number": "c.phone_number",
	"created_at":   "c.created_at",
}

// ListStatements is a fetch/count pair built from one filter. Both statements
// bind FilterArgs as their leading parameters; FetchArgs appends limit and offset.
type ListStatements struct {
	FetchSQL   string
	CountSQL   string
	FilterArgs []any
	FetchArgs  []any
}

// BuildCustomerListQuery composes the paginated customer listing and the count of
// the same filtered set. The filter is expected to be normalized.
func BuildCustomerListQuery(f model.CustomerFilter) (*ListStatements, error) {
	orderCol, ok := sortColumns[f.SortBy]
	if !ok {
		return nil, appErrors.InvalidQuery("sortBy must be one of %s", strings.Join(model.SortableCustomerColumns, ", "))
	}
	order := strings.ToUpper(f.SortOrder)
	if order != "ASC" && order != "DESC" {
		return nil, appErrors.InvalidQuery("sortOrder must be ASC or DESC")
	}
	if f.Page < 1 || f.Limit < 1 {
		return nil, appErrors.InvalidQuery("page and limit must be positive")
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return nil, appErrors.InvalidQuery("page out of range")
	}

	from := " FROM customers c"
	if f.HasLocationFilter() {
		from += " JOIN addresses a ON a.customer_id = c.id"
	}

	var where []string
	args := []any{}
	argPos := 1

	if f.Search != "" {
		where = append(where, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.phone_number ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+escapeLike(f.Search)+"%")
		argPos++
	}
	for _, cond := range []struct{ col, val string }{
		{"a.city", f.City},
		{"a.state", f.State},
		{"a.pin_code", f.PinCode},
	} {
		if cond.val == "" {
			continue
		}
		where = append(where, fmt.Sprintf("%s = $%d", cond.col, argPos))
		args = append(args, cond.val)
		argPos++
	}

	filter := from
	if len(where) > 0 {
		filter += " WHERE " + strings.Join(where, " AND ")
	}

	selectKw := "SELECT "
	if f.HasLocationFilter() {
		// a customer with several matching addresses must appear once
		selectKw = "SELECT DISTINCT "
	}

	orderBy := fmt.Sprintf(" ORDER BY %s %s", orderCol, order)
	if orderCol != "c.id" {
		orderBy += ", c.id ASC"
	}

	fetch := selectKw + customerColumns + filter + orderBy +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)

	fetchArgs := make([]any, 0, len(args)+2)
	fetchArgs = append(fetchArgs, args...)
	fetchArgs = append(fetchArgs, f.Limit, f.Offset())

	return &ListStatements{
		FetchSQL:   fetch,
		CountSQL:   "SELECT COUNT(DISTINCT c.id)" + filter,
		FilterArgs: args,
		FetchArgs:  fetchArgs,
	}, nil
}

// escapeLike makes LIKE metacharacters in a search term match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// AddressCountView selects one of the fixed address-count listings.
type AddressCountView int

const (
	MultipleAddresses AddressCountView = iota
	SingleAddress
)

func (v AddressCountView) havingClause() string {
	if v == SingleAddress {
		return "COUNT(a.id) = 1"
	}
	return "COUNT(a.id) > 1"
}

func addressCountQuery(v AddressCountView) string {
	return `SELECT ` + customerColumns + `, COUNT(a.id) AS address_count
        FROM customers c
        JOIN addresses a ON a.customer_id = c.id
        GROUP BY c.id
        HAVING ` + v.havingClause() + `
        ORDER BY c.id`
}
