package service

import (
	"context"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/queue"
	"github.com/unclebandit/crm-backend/internal/repository"
)

type AddressService struct {
	AddressRepo  repository.AddressRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	eventPublisher
}

func NewAddressService(addresses repository.AddressRepositoryInterface, customers repository.CustomerRepositoryInterface, q queue.Queue, topic string) *AddressService {
	return &AddressService{
		AddressRepo:    addresses,
		CustomerRepo:   customers,
		eventPublisher: eventPublisher{Queue: q, Topic: topic},
	}
}

// AddAddress checks the customer exists before inserting the address.
func (s *AddressService) AddAddress(ctx context.Context, customerID int64, in model.AddressInput) (*model.Address, error) {
	in = trimAddressInput(in)
	if err := validateInput(in, "All address fields are required"); err != nil {
		return nil, err
	}

	exists, err := s.CustomerRepo.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, appErrors.NewNotFound("Customer", customerID)
	}

	a := &model.Address{
		CustomerID:     customerID,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
	if err := s.AddressRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.publish(model.EventAddressCreated, customerID, a.ID)
	return a, nil
}

// ListAddresses returns an empty list for customers without addresses,
// including customers that no longer exist.
func (s *AddressService) ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	return s.AddressRepo.ListByCustomer(ctx, customerID)
}

func (s *AddressService) UpdateAddress(ctx context.Context, id int64, in model.AddressInput) (*model.Address, error) {
	in = trimAddressInput(in)
	if err := validateInput(in, "All address fields are required"); err != nil {
		return nil, err
	}

	a := &model.Address{
		ID:             id,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
	if err := s.AddressRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.publish(model.EventAddressUpdated, a.CustomerID, id)
	return a, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, id int64) error {
	customerID, err := s.AddressRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.publish(model.EventAddressDeleted, customerID, id)
	return nil
}
