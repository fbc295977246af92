package controller

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/unclebandit/crm-backend/internal/model"
	"github.com/unclebandit/crm-backend/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

func NewCustomerController(s *service.CustomerService) *CustomerController {
	return &CustomerController{CustomerService: s}
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}

	customer, err := c.CustomerService.CreateCustomer(r.Context(), body)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Customer created successfully",
		"id":      customer.ID,
	})
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	filter := ParseCustomerFilter(r.URL.Query())

	customers, pagination, err := c.CustomerService.ListCustomers(r.Context(), filter)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "success",
		"data":       customers,
		"pagination": pagination,
	})
}

// ParseCustomerFilter reads the recognized list parameters. Non-numeric page or
// limit values are left zero so the service applies the defaults.
func ParseCustomerFilter(q url.Values) model.CustomerFilter {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.CustomerFilter{
		Page:      page,
		Limit:     limit,
		Search:    q.Get("search"),
		City:      q.Get("city"),
		State:     q.Get("state"),
		PinCode:   q.Get("pin_code"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Customer")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "success",
		"data":    customer,
	})
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Customer")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}

	if _, err := c.CustomerService.UpdateCustomer(r.Context(), id, body); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer updated successfully"})
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Customer")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := c.CustomerService.DeleteCustomer(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

func (c *CustomerController) CustomersWithMultipleAddresses(w http.ResponseWriter, r *http.Request) {
	rows, err := c.CustomerService.CustomersWithMultipleAddresses(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "success", "data": rows})
}

func (c *CustomerController) CustomersWithSingleAddress(w http.ResponseWriter, r *http.Request) {
	rows, err := c.CustomerService.CustomersWithSingleAddress(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "success", "data": rows})
}
