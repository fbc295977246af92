package repository

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

var customerRowColumns = []string{"id", "first_name", "last_name", "phone_number", "created_at", "updated_at"}

func newMockCustomerRepo(t *testing.T) (*CustomerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCustomerRepository(db), mock
}

func TestCustomerRepository_Create(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (first_name, last_name, phone_number)")).
		WithArgs("John", "Smith", "9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	c := &model.Customer{FirstName: "John", LastName: "Smith", PhoneNumber: "9876543210"}
	require.NoError(t, repo.Create(context.Background(), c))

	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, now, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_CreateDuplicatePhone(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "customers_phone_number_key"})

	err := repo.Create(context.Background(), &model.Customer{FirstName: "A", LastName: "B", PhoneNumber: "9876543210"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicatePhone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_GetByID(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(customerRowColumns).AddRow(int64(3), "Asha", "Rao", "9000000003", now, now))

	c, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Asha", c.FirstName)
	assert.Equal(t, "9000000003", c.PhoneNumber)
}

func TestCustomerRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(customerRowColumns))

	_, err := repo.GetByID(context.Background(), 99)
	var nf *appErrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Customer", nf.Resource)
	assert.Equal(t, int64(99), nf.ID)
}

func TestCustomerRepository_Exists(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM customers WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM customers WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	ok, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerRepository_Update(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockCustomerRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).
			WithArgs("A", "B", "9876543210", int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		err := repo.Update(context.Background(), &model.Customer{ID: 5, FirstName: "A", LastName: "B", PhoneNumber: "9876543210"})
		assert.Equal(t, http.StatusNotFound, appErrors.HTTPStatus(err))
	})

	t.Run("duplicate phone", func(t *testing.T) {
		repo, mock := newMockCustomerRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Update(context.Background(), &model.Customer{ID: 5, FirstName: "A", LastName: "B", PhoneNumber: "9876543210"})
		assert.ErrorIs(t, err, appErrors.ErrDuplicatePhone)
	})
}

func TestCustomerRepository_Delete(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 4))

	err := repo.Delete(context.Background(), 4)
	var nf *appErrors.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_List(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)
	now := time.Now().UTC()

	f := model.CustomerFilter{Search: "smith", City: "Pune", Page: 2, Limit: 1}.Normalize()
	stmts, err := BuildCustomerListQuery(f)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(stmts.CountSQL)).
		WithArgs("%smith%", "Pune").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(stmts.FetchSQL)).
		WithArgs("%smith%", "Pune", 1, 1).
		WillReturnRows(sqlmock.NewRows(customerRowColumns).AddRow(int64(2), "Jane", "Goldsmith", "9000000002", now, now))

	customers, total, err := repo.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Goldsmith", customers[0].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_ListEmptyIsNotNil(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)
	f := model.CustomerFilter{}.Normalize()
	stmts, err := BuildCustomerListQuery(f)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(stmts.CountSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(stmts.FetchSQL)).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(customerRowColumns))

	customers, total, err := repo.List(context.Background(), f)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestCustomerRepository_ListInvalidSortNeverQueries(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)

	_, _, err := repo.List(context.Background(), model.CustomerFilter{SortBy: "password"}.Normalize())
	assert.ErrorIs(t, err, appErrors.ErrInvalidQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_ListByAddressCount(t *testing.T) {
	repo, mock := newMockCustomerRepo(t)
	now := time.Now().UTC()

	cols := append(append([]string{}, customerRowColumns...), "address_count")
	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(a.id) > 1")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "A", "One", "9000000001", now, now, 2))

	rows, err := repo.ListByAddressCount(context.Background(), MultipleAddresses)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, 2, rows[0].AddressCount)
}
