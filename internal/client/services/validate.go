package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/dmitrijs2005/ridehail/internal/client/client"
)

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type codeInput struct {
	Otp string `json:"otp" validate:"required,len=6,number"`
}

// ProfileInput is what the user submits to complete a profile. Phone is
// validated against CountryCode, an ISO 3166-1 alpha-2 code such as "GH".
type ProfileInput struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,min=2"`
	Password    []byte `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required,iso3166_1_alpha2"`
}

type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &inputValidator{v: v}
}

// check validates in and reports the first failing field as a
// client.ErrValidation error for op.
func (iv *inputValidator) check(op string, in any) error {
	err := iv.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &client.Error{Op: op, Kind: client.ErrValidation, Err: err}
	}
	fe := verrs[0]
	return client.NewValidationError(op, fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "email":
		return "Enter a valid email"
	case "otp":
		return "Please enter the complete 6-digit code"
	case "countryCode":
		return "Select a country"
	case "phone":
		return "Please enter a valid phone number"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Field() == "name" {
			return fmt.Sprintf("Name must be at least %s characters", fe.Param())
		}
		if fe.Field() == "password" {
			return fmt.Sprintf("Password must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// validPhone reports whether phone is a dialable number in region.
func validPhone(phone, region string) bool {
	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, strings.ToUpper(region))
}
