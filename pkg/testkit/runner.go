package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// HandlerFactory builds the handler a scenario runs against. It is called once
// per scenario so each one starts from its own state.
type HandlerFactory func(t *testing.T, s *Scenario) http.Handler

// Run executes the scenario at path as a subtest.
func Run(t *testing.T, path string, newHandler HandlerFactory) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: %v", err)
	}
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, newHandler(t, s), s)
	})
}

// RunDir executes every scenario in dir as a subtest, in file name order.
// Scenario files that fail to load are reported as failures.
func RunDir(t *testing.T, dir string, newHandler HandlerFactory) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("testkit: %v", err)
	}
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, newHandler(t, s), s)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	body, err := s.RequestBodyBytes()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, reqBody)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	switch {
	case s.ExpectEmptyBody:
		AssertEmptyBody(t, s, rec.Body.Bytes())
	case s.ResponseFileName != "":
		expected, err := os.ReadFile(s.ResponseBodyPath())
		if err != nil {
			t.Errorf("[%s] read response file: %v", s.Name, err)
			return
		}
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}
}
