package review

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/anikor-backend/internal/domain"
)

// Rating bounds match the catalog's 0-100 score scale.
const (
	MinRating = 0
	MaxRating = 100
)

// AddInput holds a review submission. Pointer fields distinguish "absent"
// from zero.
type AddInput struct {
	AnimeID  *int   `json:"animeId"  validate:"required,gt=0"`
	Rating   *int   `json:"rating"   validate:"required,gte=0,lte=100"`
	Text     string `json:"text"     validate:"max=5000"`
	Username string `json:"username" validate:"max=80"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks all fields and collects all errors.
func (i *AddInput) Validate() error {
	err := getValidator().Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate review: %w", err)
	}

	errs := make([]domain.FieldError, len(verrs))
	for n, fe := range verrs {
		errs[n] = domain.FieldError{Field: fe.Field(), Message: message(fe)}
	}
	return domain.NewValidationErrors(errs)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "lte":
		return fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)
	case "max":
		return "max " + fe.Param() + " characters"
	default:
		return "invalid"
	}
}
