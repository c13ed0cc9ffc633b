package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domcheckout "example.com/storefront/app/internal/domain/checkout"
	domshipping "example.com/storefront/app/internal/domain/shipping"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// addressErrors maps each invalid field to the message shown next to it.
func addressErrors(v *validator.Validate, addr domshipping.Address) map[domcheckout.Field]string {
	errs := make(map[domcheckout.Field]string)

	var verrs validator.ValidationErrors
	if err := v.Struct(addr); !errors.As(err, &verrs) {
		return errs
	}

	for _, fe := range verrs {
		field := domcheckout.Field(fe.Field())
		if _, seen := errs[field]; seen {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs[field] = field.Label() + " is required"
		case "oneof":
			errs[field] = field.Label() + " is not supported"
		default:
			errs[field] = field.Label() + " is invalid"
		}
	}
	return errs
}
