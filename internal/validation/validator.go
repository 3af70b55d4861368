// Package validation holds the request and storage validation profiles.
// Every profile is a pure function: raw input in, typed value or *apperrors.ValidationError out.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/finn_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata, so one instance serves every profile.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so details match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "accountname", func(fl validator.FieldLevel) bool {
		return domain.AccountNameProblem(fl.Field().String()) == ""
	})
	mustRegister(v, "accountdescription", func(fl validator.FieldLevel) bool {
		return domain.AccountDescriptionProblem(fl.Field().String()) == ""
	})
	mustRegister(v, "accounttype", func(fl validator.FieldLevel) bool {
		_, err := domain.ValidateAccountType(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "transactiontype", func(fl validator.FieldLevel) bool {
		t, err := domain.ValidateTransactionType(fl.Field().String())
		return err == nil && t != domain.TransactionUnknown
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// structDetails runs the tag rules on s and returns one "field: problem" entry per failure.
func structDetails(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fe.Field()+": "+describe(fe))
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isdefault":
		return "must not be provided"
	case "accountname":
		return domain.AccountNameProblem(stringValue(fe.Value()))
	case "accountdescription":
		return domain.AccountDescriptionProblem(stringValue(fe.Value()))
	case "accounttype":
		return "must be one of cash, debt"
	case "transactiontype":
		return "must be one of income, expense, transfer"
	case "uuid":
		return "must be a UUID"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}
