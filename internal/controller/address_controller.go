package controller

import (
	"net/http"

	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

type AddressController struct {
	AddressService *service.AddressService
}

func NewAddressController(s *service.AddressService) *AddressController {
	return &AddressController{AddressService: s}
}

func (c *AddressController) AddAddress(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "Customer")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}

	address, err := c.AddressService.AddAddress(r.Context(), customerID, body)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Address added successfully",
		"id":      address.ID,
	})
}

func (c *AddressController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "Customer")
	if err != nil {
		// an id that cannot exist simply has no addresses
		WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "success", "data": []model.Address{}})
		return
	}

	addresses, err := c.AddressService.ListAddresses(r.Context(), customerID)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    addresses,
	})
}

func (c *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Address")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}

	if _, err := c.AddressService.UpdateAddress(r.Context(), id, body); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Address updated successfully"})
}

func (c *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Address")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := c.AddressService.DeleteAddress(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Address deleted successfully"})
}
