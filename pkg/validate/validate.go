// Package validate runs go-playground/validator struct-tag rules and flattens
// the result into a field → message map keyed by the JSON field name.
//
//	type ListCommentsInput struct {
//	    ArticleID uint   `json:"articleId" validate:"required,gt=0"`
//	    Sort      string `json:"sort"      validate:"oneof=asc desc"`
//	}
//
//	errs := validate.Struct(in)
//	if validate.HasErrors(errs) { ... }
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Engine returns the shared validator instance.
func Engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns field → message. An empty map means valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := Engine().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: s was not a struct.
		return errs
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(fe)
	}
	return errs
}

// HasErrors reports whether errs contains at least one entry.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

// First returns the alphabetically first failing field and its message.
func First(errs map[string]string) (field, msg string) {
	if len(errs) == 0 {
		return "", ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0], errs[keys[0]]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag())
	}
}
