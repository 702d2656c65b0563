package command

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/wsapp/storefront/internal/core/domain"
)

// maxMoneyDigits is well past the DECIMAL(10,2) range checked by the money
// tags.
const maxMoneyDigits = 12

// requestValidator wraps go-playground/validator with the messages shown to
// the front end.
type requestValidator struct {
	v *validator.Validate
}

func newValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		if k := jsonKey(sf); k != "" {
			return k
		}
		return sf.Name
	})
	// Numeric rules on money fields compare against the value as it will be
	// stored, rounded to cents. Anything past maxMoneyDigits integer digits
	// is reported as ±Inf so it fails every bound.
	v.RegisterCustomTypeFunc(func(fv reflect.Value) any {
		d, ok := fv.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		if domain.IntegerDigits(d) > maxMoneyDigits {
			return math.Inf(d.Sign())
		}
		f, _ := domain.RoundMoney(d).Float64()
		return f
	}, decimal.Decimal{})
	return &requestValidator{v: v}
}

// Validate returns nil or an error whose message lists every failed field.
func (rv *requestValidator) Validate(i any) error {
	if err := rv.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
