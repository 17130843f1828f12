// Package requests turns raw path, query and body values into typed inputs
// with their defaults applied. Every parse failure is an apperr.InvalidInput
// carrying the message the client sees.
package requests

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseID parses a positive integer path identifier.
func ParseID(raw, message string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperr.Invalid(message, err)
	}
	if id == 0 {
		return 0, apperr.Invalid(message, nil)
	}
	return uint(id), nil
}

// intParam reads key from q. An absent or blank value yields def.
func intParam(q url.Values, key string, def int, message string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(message, err)
	}
	return n, nil
}

// clampLimit caps an otherwise valid limit at MaxLimit.
func clampLimit(n int) int {
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// check runs the validate tags of in and reports the first failure with the
// message registered for that field.
func check(in interface{}, messages map[string]string) error {
	errs := validate.Struct(in)
	if !validate.HasErrors(errs) {
		return nil
	}
	field, detail := validate.First(errs)
	msg, ok := messages[field]
	if !ok {
		msg = "Invalid request"
	}
	return apperr.Invalid(msg, errors.New(field+": "+detail))
}
