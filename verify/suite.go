package verify

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Suite represents a complete YAML conformance file
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`

	// File is the path the suite was loaded from.
	File string `yaml:"-"`
}

// Case represents a single program within a suite
type Case struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Skip        string        `yaml:"skip,omitempty"`
	File        string        `yaml:"file,omitempty"`
	Source      string        `yaml:"source"`
	StackBase   int           `yaml:"stack_base,omitempty"`
	RAM         map[int]int16 `yaml:"ram,omitempty"`
	MaxSteps    int           `yaml:"max_steps,omitempty"`
	Static      bool          `yaml:"static_symbols,omitempty"`
	Expect      Expectation   `yaml:"expect"`
}

// Expectation defines the outcome a case must produce
type Expectation struct {
	// Stack is compared exactly when present. An empty list expects an
	// empty stack.
	Stack []int16 `yaml:"stack,omitempty"`

	// RAM lists addresses whose final values must match.
	RAM map[int]int16 `yaml:"ram,omitempty"`

	JumpCount *int `yaml:"jump_count,omitempty"`

	// Error names the failure the case must produce. See ErrorKinds.
	Error string `yaml:"error,omitempty"`
}

// Setup returns the simulation setup of the case.
func (c Case) Setup() Setup {
	return Setup{
		FileName:      c.File,
		StackBase:     c.StackBase,
		RAM:           c.RAM,
		MaxSteps:      c.MaxSteps,
		StaticSymbols: c.Static,
	}
}

// LoadSuite parses a single YAML file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read suite")
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, errors.Wrapf(err, "parse suite %s", path)
	}

	if suite.Name == "" {
		suite.Name = filepath.Base(path)
	}
	suite.File = path

	for i, c := range suite.Cases {
		if c.Name == "" {
			return nil, errors.Errorf("%s: case %d has no name", path, i)
		}
		if c.Expect.Error != "" {
			if _, ok := ErrorKinds[c.Expect.Error]; !ok {
				return nil, errors.Errorf("%s: case %s expects unknown error %q",
					path, c.Name, c.Expect.Error)
			}
		}
	}

	return &suite, nil
}

// LoadSuites loads every .yaml file in dir, in name order.
func LoadSuites(dir string) ([]*Suite, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "list suites")
	}
	sort.Strings(paths)

	suites := make([]*Suite, 0, len(paths))
	for _, path := range paths {
		suite, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}

	return suites, nil
}
