// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"famledger/internal/models"
	"famledger/internal/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on an arbitrary validator instance.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("money", validateMoney)
}

// validateISODate accepts a YYYY-MM-DD calendar date.
func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}

// validateMoney accepts a decimal string with at most two fraction digits and
// an absolute value below 10000. Integer fields (money.Amount) are checked as
// cents.
func validateMoney(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		cents := field.Int()
		return cents >= -money.MaxCents && cents <= money.MaxCents
	case reflect.String:
		_, err := money.Parse(field.String())
		return err == nil
	}
	return false
}
