package dal

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/apperr"
)

// MinPrice is the lowest accepted listing price.
const MinPrice = 2000

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks a submitted car. Rules run in a fixed order and the first
// failure is returned as an *apperr.Error:
// required fields, make, price floor, transmission type, style.
func Validate(car Car) error {
	if err := CheckPresence(car); err != nil {
		return err
	}
	return CheckReferences(car)
}

// CheckPresence reports every empty listing field as one MissingData error.
func CheckPresence(car Car) error {
	err := structValidator.Struct(car)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return apperr.MissingData(missing...)
}

// CheckReferences runs the make, price, transmission and style rules in that
// order. Fields are assumed present.
func CheckReferences(car Car) error {
	if !IsKnownMake(car.Make) {
		return apperr.UnknownMake()
	}

	if car.Price < MinPrice {
		return apperr.PriceTooLow()
	}

	if !IsKnownTransmission(car.TransmissionType) {
		return apperr.UnknownTransmissionType()
	}

	if !IsKnownStyle(car.Style) {
		return apperr.UnknownStyle()
	}
	return nil
}
