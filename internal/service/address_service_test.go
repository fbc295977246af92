package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

func TestAddAddress(t *testing.T) {
	customers, addresses := newServices()
	ctx := context.Background()
	c := mustCreate(t, customers, "A", "One", "9000000001")

	a, err := addresses.AddAddress(ctx, c.ID, model.AddressInput{
		AddressDetails: " 12 MG Road ",
		City:           "Pune",
		State:          "Maharashtra",
		PinCode:        "411001",
	})
	require.NoError(t, err)
	assert.Positive(t, a.ID)
	assert.Equal(t, c.ID, a.CustomerID)
	assert.Equal(t, "12 MG Road", a.AddressDetails)

	list, err := addresses.ListAddresses(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *a, list[0])
}

func TestAddAddress_UnknownCustomer(t *testing.T) {
	_, addresses := newServices()

	_, err := addresses.AddAddress(context.Background(), 77, model.AddressInput{
		AddressDetails: "x", City: "x", State: "x", PinCode: "123456",
	})
	var nf *appErrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Customer not found", appErrors.PublicMessage(err))
}

func TestAddAddress_Validation(t *testing.T) {
	customers, addresses := newServices()
	c := mustCreate(t, customers, "A", "One", "9000000001")

	_, err := addresses.AddAddress(context.Background(), c.ID, model.AddressInput{City: "Pune", State: "MH", PinCode: "411001"})
	var ve *appErrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "All address fields are required", ve.Message)

	for _, pin := range []string{"4110", "41100a", "4110011"} {
		_, err = addresses.AddAddress(context.Background(), c.ID, model.AddressInput{
			AddressDetails: "x", City: "Pune", State: "MH", PinCode: pin,
		})
		require.True(t, errors.As(err, &ve), pin)
		assert.Equal(t, "Please enter a valid 6-digit pin code", ve.Message)
	}

	// validation runs before the existence check
	_, err = addresses.AddAddress(context.Background(), 999, model.AddressInput{})
	assert.Equal(t, 400, appErrors.HTTPStatus(err))
}

func TestUpdateAddress(t *testing.T) {
	customers, addresses := newServices()
	ctx := context.Background()
	c := mustCreate(t, customers, "A", "One", "9000000001")
	a := mustAddAddress(t, addresses, c.ID, "Pune", "MH", "411001")

	updated, err := addresses.UpdateAddress(ctx, a.ID, model.AddressInput{
		AddressDetails: "New Place", City: "Panaji", State: "Goa", PinCode: "403001",
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.CustomerID)
	assert.Equal(t, "Panaji", updated.City)

	_, err = addresses.UpdateAddress(ctx, 999, model.AddressInput{
		AddressDetails: "x", City: "x", State: "x", PinCode: "123456",
	})
	assert.Equal(t, "Address not found", appErrors.PublicMessage(err))
}

func TestDeleteAddress(t *testing.T) {
	customers, addresses := newServices()
	ctx := context.Background()
	c := mustCreate(t, customers, "A", "One", "9000000001")
	keep := mustAddAddress(t, addresses, c.ID, "Pune", "MH", "411001")
	drop := mustAddAddress(t, addresses, c.ID, "Pune", "MH", "411002")

	require.NoError(t, addresses.DeleteAddress(ctx, drop.ID))

	list, err := addresses.ListAddresses(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	err = addresses.DeleteAddress(ctx, drop.ID)
	assert.Equal(t, 404, appErrors.HTTPStatus(err))
}

func TestListAddresses_UnknownCustomerIsEmpty(t *testing.T) {
	_, addresses := newServices()

	list, err := addresses.ListAddresses(context.Background(), 12345)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
