package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/repository/testutil"
)

func seedCustomer(t *testing.T, repo *repository.CustomerRepository, first, last, phone string) int64 {
	t.Helper()
	c := &model.Customer{FirstName: first, LastName: last, PhoneNumber: phone}
	require.NoError(t, repo.Create(context.Background(), c))
	return c.ID
}

func seedAddress(t *testing.T, repo *repository.AddressRepository, customerID int64, city, state, pin string) {
	t.Helper()
	a := &model.Address{CustomerID: customerID, AddressDetails: "1 Main St", City: city, State: state, PinCode: pin}
	require.NoError(t, repo.Create(context.Background(), a))
}

func TestPostgres_ListPartitionsFilteredSet(t *testing.T) {
	db := testutil.DB(t)
	customers := repository.NewCustomerRepository(db)
	addresses := repository.NewAddressRepository(db)
	ctx := context.Background()

	smith := seedCustomer(t, customers, "John", "Smith", "9000000001")
	gold := seedCustomer(t, customers, "Jane", "Goldsmith", "9000000002")
	seedCustomer(t, customers, "Ravi", "Blacksmith", "9000000003")
	seedCustomer(t, customers, "Asha", "Rao", "9000000004")

	// two matching addresses must not duplicate the customer
	seedAddress(t, addresses, smith, "Pune", "MH", "411001")
	seedAddress(t, addresses, smith, "Pune", "MH", "411002")
	seedAddress(t, addresses, gold, "Mumbai", "MH", "400001")

	_, total, err := customers.List(ctx, model.CustomerFilter{Search: "SMITH"}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	page2, total, err := customers.List(ctx, model.CustomerFilter{Search: "smith", Page: 2, Limit: 1}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, gold, page2[0].ID)

	byCity, total, err := customers.List(ctx, model.CustomerFilter{Search: "smith", City: "Pune"}.Normalize())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byCity, 1)
	assert.Equal(t, smith, byCity[0].ID)

	state := model.CustomerFilter{State: "MH", SortBy: "last_name", SortOrder: "desc", Limit: 1}
	seen := map[int64]bool{}
	for page := 1; page <= 3; page++ {
		state.Page = page
		rows, total, err := customers.List(ctx, state.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, c := range rows {
			assert.False(t, seen[c.ID], "customer %d on two pages", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 2)
}

func TestPostgres_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	customers := repository.NewCustomerRepository(db)

	seedCustomer(t, customers, "Ann", "Lee", "9000000001")

	_, total, err := customers.List(context.Background(), model.CustomerFilter{Search: "%"}.Normalize())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostgres_DeleteCascadesAndViews(t *testing.T) {
	db := testutil.DB(t)
	customers := repository.NewCustomerRepository(db)
	addresses := repository.NewAddressRepository(db)
	ctx := context.Background()

	a := seedCustomer(t, customers, "A", "A", "9000000001")
	b := seedCustomer(t, customers, "B", "B", "9000000002")
	seedCustomer(t, customers, "C", "C", "9000000003")
	seedAddress(t, addresses, a, "Pune", "MH", "411001")
	seedAddress(t, addresses, a, "Pune", "MH", "411002")
	seedAddress(t, addresses, b, "Goa", "GA", "403001")

	multi, err := customers.ListByAddressCount(ctx, repository.MultipleAddresses)
	require.NoError(t, err)
	require.Len(t, multi, 1)
	assert.Equal(t, a, multi[0].ID)
	assert.Equal(t, 2, multi[0].AddressCount)

	single, err := customers.ListByAddressCount(ctx, repository.SingleAddress)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, b, single[0].ID)

	require.NoError(t, customers.Delete(ctx, a))
	left, err := addresses.ListByCustomer(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, left)

	err = addresses.Create(ctx, &model.Address{CustomerID: a, AddressDetails: "x", City: "x", State: "x", PinCode: "123456"})
	assert.Equal(t, 404, appErrors.HTTPStatus(err))
}

func TestPostgres_DuplicatePhone(t *testing.T) {
	db := testutil.DB(t)
	customers := repository.NewCustomerRepository(db)

	seedCustomer(t, customers, "A", "A", "9000000001")
	err := customers.Create(context.Background(), &model.Customer{FirstName: "B", LastName: "B", PhoneNumber: "9000000001"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicatePhone)
}
