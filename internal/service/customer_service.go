package service

import (
	"context"
	"strings"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/repository"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	eventPublisher
}

func NewCustomerService(repo repository.CustomerRepositoryInterface, q queue.Queue, topic string) *CustomerService {
	return &CustomerService{
		CustomerRepo:   repo,
		eventPublisher: eventPublisher{Queue: q, Topic: topic},
	}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	in = trimCustomerInput(in)
	if err := validateInput(in, "All fields are required"); err != nil {
		return nil, err
	}

	c := &model.Customer{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("Customer created", logger.Fields{"customer_id": c.ID})
	s.publish(model.EventCustomerCreated, c.ID, 0)
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.CustomerRepo.GetByID(ctx, id)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, in model.CustomerInput) (*model.Customer, error) {
	in = trimCustomerInput(in)
	if err := validateInput(in, "All fields are required"); err != nil {
		return nil, err
	}

	c := &model.Customer{
		ID:          id,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.CustomerRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.publish(model.EventCustomerUpdated, id, 0)
	return c, nil
}

// DeleteCustomer removes the customer and, through the store, all its addresses.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Customer deleted", logger.Fields{"customer_id": id})
	s.publish(model.EventCustomerDeleted, id, 0)
	return nil
}

// ListCustomers returns one page of the filtered customers with pagination
// metadata describing the whole filtered set.
func (s *CustomerService) ListCustomers(ctx context.Context, f model.CustomerFilter) ([]model.Customer, model.Pagination, error) {
	f = f.Normalize()
	if !model.IsSortableCustomerColumn(f.SortBy) {
		return nil, model.Pagination{}, appErrors.InvalidQuery("sortBy must be one of %s", strings.Join(model.SortableCustomerColumns, ", "))
	}
	if !model.IsSortOrder(f.SortOrder) {
		return nil, model.Pagination{}, appErrors.InvalidQuery("sortOrder must be ASC or DESC")
	}

	customers, total, err := s.CustomerRepo.List(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return customers, model.NewPagination(f.Page, f.Limit, total), nil
}

func (s *CustomerService) CustomersWithMultipleAddresses(ctx context.Context) ([]model.CustomerWithAddressCount, error) {
	return s.CustomerRepo.ListByAddressCount(ctx, repository.MultipleAddresses)
}

func (s *CustomerService) CustomersWithSingleAddress(ctx context.Context) ([]model.CustomerWithAddressCount, error) {
	return s.CustomerRepo.ListByAddressCount(ctx, repository.SingleAddress)
}
