package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Suite is the top-level lattice.yaml configuration: the inference policy
// shared by every case plus the cases themselves.
type Suite struct {
	// Unit names the compilation unit being checked. Opaque types declared in
	// this unit are local; all others are foreign.
	Unit string `yaml:"unit,omitempty"`

	// DefineOpaqueTypes allows the hidden type of local opaque types to be
	// constrained. It is false when checking signatures rather than bodies.
	// Defaults to true.
	DefineOpaqueTypes *bool `yaml:"define_opaque_types,omitempty"`

	// Variances declares the variance of each constructor parameter, e.g.
	//
	//   variances:
	//     Cell: [invariant]
	//     Fn1: [contravariant, covariant]
	//
	// Constructors not listed are covariant in every parameter.
	Variances map[string][]string `yaml:"variances,omitempty"`

	// Trace enables debug logging of every relation step.
	Trace bool `yaml:"trace,omitempty"`

	// Cases are the lattice queries to run.
	Cases []Case `yaml:"cases"`
}

// Case is one join or meet query.
type Case struct {
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"` // "join" or "meet"
	A         string `yaml:"a"`
	B         string `yaml:"b"`

	// Expect, when set, is the fully resolved result the case must produce.
	Expect string `yaml:"expect,omitempty"`

	// ExpectError marks cases that must fail with a relation error.
	ExpectError bool `yaml:"expect_error,omitempty"`

	// Obligations, when set, is the number of deferred obligations the case
	// must produce.
	Obligations *int `yaml:"obligations,omitempty"`
}

// LoadSuite reads and parses a lattice.yaml file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}
	return ParseSuite(data, path)
}

// ParseSuite parses lattice.yaml content from bytes.
// The path argument is used only for error messages.
func ParseSuite(data []byte, path string) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	return &s, nil
}

// FindSuite searches for a suite file starting from dir and walking up to
// parent directories. It returns "" and a nil error when none is found.
func FindSuite(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range SuiteFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// OpaqueTypesAllowed reports the effective define_opaque_types policy.
func (s *Suite) OpaqueTypesAllowed() bool {
	return s.DefineOpaqueTypes == nil || *s.DefineOpaqueTypes
}

func (s *Suite) validate(path string) error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("%s: no cases defined", path)
	}
	for name, vs := range s.Variances {
		for j, v := range vs {
			if !IsVarianceName(v) {
				return fmt.Errorf("%s: variances.%s[%d]: unknown variance %q", path, name, j, v)
			}
		}
	}
	seen := make(map[string]int)
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("%s: cases[%d]: name is required", path, i)
		}
		if prev, ok := seen[c.Name]; ok {
			return fmt.Errorf("%s: cases[%d]: name %q already used by cases[%d]", path, i, c.Name, prev)
		}
		seen[c.Name] = i
		switch c.Direction {
		case "", DirectionJoin, DirectionMeet:
		default:
			return fmt.Errorf("%s: cases[%d] (%s): direction must be %q or %q", path, i, c.Name, DirectionJoin, DirectionMeet)
		}
		if c.A == "" || c.B == "" {
			return fmt.Errorf("%s: cases[%d] (%s): both a and b are required", path, i, c.Name)
		}
		if c.ExpectError && c.Expect != "" {
			return fmt.Errorf("%s: cases[%d] (%s): expect and expect_error are mutually exclusive", path, i, c.Name)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (s *Suite) setDefaults() {
	if s.Unit == "" {
		s.Unit = DefaultUnit
	}
	for i := range s.Cases {
		if s.Cases[i].Direction == "" {
			s.Cases[i].Direction = DirectionJoin
		}
	}
}
