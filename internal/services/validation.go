package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/OwaisIslam/living-real/internal/platform/apierr"
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("rent", func(fl validator.FieldLevel) bool {
			_, err := ParseRent(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= maxPasswordBytes
		})
		validate = v
	})
	return validate
}

// ParseRent parses a monthly rent as entered. The value must be a finite,
// non-negative decimal.
func ParseRent(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("rent is empty")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("rent %q is not a number", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("rent %q is not finite", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("rent %q is negative", raw)
	}
	return f, nil
}

// RentMinorUnits is floor(rent) * 100.
func RentMinorUnits(raw string) (int64, error) {
	f, err := ParseRent(raw)
	if err != nil {
		return 0, err
	}
	whole := math.Floor(f)
	if whole > float64(math.MaxInt64/100) {
		return 0, fmt.Errorf("rent %q is too large", raw)
	}
	return int64(whole) * 100, nil
}

// trimmed returns a trimmed copy of *p. Patch fields are trimmed before
// validation so a blank value fails min=1.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// validateInput runs struct validation and folds the first failure into a
// ValidationError naming the field.
func validateInput(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apierr.Validation("%s: %s", fe.Field(), describeTag(fe))
	}
	return apierr.Validation("%s", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "rent":
		return "must be a non-negative number"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

var (
	errMissingOrigin   = errors.New("no origin could be determined for the request")
	errBadOriginScheme = errors.New("origin must be an http or https URL")
)
