package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertEmptyBody checks that nothing was written.
func AssertEmptyBody(t *testing.T, s *Scenario, got []byte) {
	t.Helper()
	assert.Empty(t, string(got), "[%s] expected an empty body", s.Name)
}

// AssertJSONBody compares actual against expected after decoding both, so key
// order and whitespace never matter. The scenario's ignored fields are removed
// from both sides first.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()

	var exp, act interface{}
	require.NoError(t, json.Unmarshal(expected, &exp),
		"[%s] expected response file is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &act),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return
	}

	ignore := make(map[string]bool, len(s.IgnoreFields))
	for _, f := range s.IgnoreFields {
		ignore[f] = true
	}
	assert.Equal(t, strip(exp, ignore), strip(act, ignore), "[%s] response body mismatch", s.Name)
}

// strip removes ignored keys from every object in v.
func strip(v interface{}, ignore map[string]bool) interface{} {
	if len(ignore) == 0 {
		return v
	}
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			if ignore[k] {
				continue
			}
			out[k] = strip(val, ignore)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = strip(val, ignore)
		}
		return out
	default:
		return v
	}
}
