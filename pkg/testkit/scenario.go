// Package testkit drives REST API tests from JSON scenario files.
//
// Each scenario describes one request and what should come back:
//
//	testdata/
//	  create_product.json        ← scenario
//	  create_product_req.json    ← request body
//	  create_product_res.json    ← expected response body
//
// A scenario file:
//
//	{
//	  "name": "create product",
//	  "fixtures": ["products"],
//	  "requestMethod": "POST",
//	  "requestUrl": "/api/products",
//	  "requestFileName": "create_product_req.json",
//	  "expectedCode": 201,
//	  "responseFileName": "create_product_res.json",
//	  "ignoreFields": ["createdAt", "updatedAt"]
//	}
//
// and the test that runs a directory of them, each against a fresh handler:
//
//	testkit.RunDir(t, "testdata", func(t *testing.T, s *testkit.Scenario) http.Handler {
//	    db := openDB(t)
//	    seed(t, db, s.Fixtures)
//	    return buildHandler(db)
//	})
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scenario is a single REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Fixtures names the data sets the handler factory should load first.
	Fixtures []string `json:"fixtures"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int    `json:"expectedCode"`
	ResponseFileName string `json:"responseFileName"`
	// ExpectEmptyBody asserts the response has no body at all (204s).
	ExpectEmptyBody bool `json:"expectEmptyBody"`
	// IgnoreFields are object keys dropped at any depth before comparing
	// bodies, for values like timestamps that change per run.
	IgnoreFields []string `json:"ignoreFields"`

	dir string
}

// LoadScenario reads and validates the scenario at path.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestFileName != "" && len(s.RequestBody) > 0 {
		return fmt.Errorf("requestFileName and requestBody are mutually exclusive")
	}
	if s.ExpectEmptyBody && s.ResponseFileName != "" {
		return fmt.Errorf("expectEmptyBody and responseFileName are mutually exclusive")
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// RequestBodyBytes returns the request body, from the inline requestBody or
// the requestFileName file. Nil means no body.
func (s *Scenario) RequestBodyBytes() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// ResponseBodyPath returns the absolute path of the expected response file,
// or "" when none is set.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

// LoadAllFromDir loads every scenario file in dir, sorted by file name.
// Request and response bodies are recognised by their _req.json / _res.json
// suffix and skipped. Files that fail to load are returned as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, []error{fmt.Errorf("testkit: glob %q: %w", dir, err)}
	}
	sort.Strings(paths)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("testkit: no scenario files found in %q", dir))
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "_req.json") || strings.HasSuffix(base, "_res.json")
}
