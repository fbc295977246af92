// internal/model/customer_filter.go
package model

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit inside int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit

	DefaultSortBy    = "id"
	DefaultSortOrder = "ASC"
)

// SortableCustomerColumns is the allow-list for the sortBy query parameter.
var SortableCustomerColumns = []string{"id", "first_name", "last_name", "phone_number", "created_at"}

// CustomerFilter carries the recognized list parameters of GET /customers.
type CustomerFilter struct {
	Page      int
	Limit     int
	Search    string
	City      string
	State     string
	PinCode   string
	SortBy    string
	SortOrder string
}

// Normalize fills defaults, clamps paging values and trims the search and
// location terms. It does not validate SortBy or SortOrder.
func (f CustomerFilter) Normalize() CustomerFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Search = strings.TrimSpace(f.Search)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PinCode = strings.TrimSpace(f.PinCode)
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortOrder == "" {
		f.SortOrder = DefaultSortOrder
	}
	f.SortOrder = strings.ToUpper(f.SortOrder)
	return f
}

func (f CustomerFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// HasLocationFilter reports whether the filter needs the addresses join.
func (f CustomerFilter) HasLocationFilter() bool {
	return f.City != "" || f.State != "" || f.PinCode != ""
}

func IsSortableCustomerColumn(col string) bool {
	for _, c := range SortableCustomerColumns {
		if c == col {
			return true
		}
	}
	return false
}

func IsSortOrder(order string) bool {
	o := strings.ToUpper(order)
	return o == "ASC" || o == "DESC"
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPagination computes page metadata for a filtered set of total items.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
