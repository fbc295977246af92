package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so field errors match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func trimCustomerInput(in model.CustomerInput) model.CustomerInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}

func trimAddressInput(in model.AddressInput) model.AddressInput {
	in.AddressDetails = strings.TrimSpace(in.AddressDetails)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.PinCode = strings.TrimSpace(in.PinCode)
	return in
}

// validateInput runs the struct tags on in and converts failures into an
// appErrors.ValidationError. summary is used when a required field is missing.
func validateInput(in any, summary string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	missing := false
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
		if fe.Tag() == "required" {
			missing = true
		}
	}
	msg := "Invalid input"
	if missing {
		msg = summary
	} else if len(verrs) == 1 {
		msg = fields[verrs[0].Field()]
	}
	return appErrors.NewValidation(msg, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "number", "len":
		switch fe.Field() {
		case "phone_number":
			return "Please enter a valid 10-digit phone number"
		case "pin_code":
			return "Please enter a valid 6-digit pin code"
		}
		return "has an invalid format"
	default:
		return "is invalid"
	}
}
