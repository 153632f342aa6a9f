package helmholtz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Fluid parameter files
// ============================================================

// Fluid is a named pair of ideal-gas and residual term collections.
type Fluid struct {
	Name   string
	Alpha0 Terms
	AlphaR Terms
}

type fluidFile struct {
	Name   string                   `yaml:"name"`
	Alpha0 []map[string]interface{} `yaml:"alpha0"`
	AlphaR []map[string]interface{} `yaml:"alphar"`
}

// ParseFluid reads a fluid description. The format is YAML; since JSON is
// a subset, JSON files parse as well. Each term uses the serialization
// records of FromMap.
//
//	name: Example
//	alpha0:
//	  - {type: IdealGasHelmholtzLead, a1: -1.2, a2: 3.4}
//	alphar:
//	  - {type: ResidualHelmholtzPower, n: [1.2198], d: [1], t: [1], l: [0]}
func ParseFluid(data []byte) (*Fluid, error) {
	var raw fluidFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	collect := func(section string, records []map[string]interface{}) (Terms, error) {
		ts := make(Terms, 0, len(records))
		for i, rec := range records {
			t, err := FromMap(rec)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", raw.Name, section, i, err)
			}
			ts = append(ts, t)
		}
		return ts, nil
	}
	alpha0, err := collect("alpha0", raw.Alpha0)
	if err != nil {
		return nil, err
	}
	alphar, err := collect("alphar", raw.AlphaR)
	if err != nil {
		return nil, err
	}
	return &Fluid{Name: raw.Name, Alpha0: alpha0, AlphaR: alphar}, nil
}

// LoadFluid reads and parses the fluid file at path.
func LoadFluid(path string) (*Fluid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFluid(data)
}

// Evaluate returns the ideal-gas and residual aggregates at (tau, delta).
func (f *Fluid) Evaluate(tau, delta float64) (ideal, residual Derivatives) {
	return f.Alpha0.Evaluate(tau, delta), f.AlphaR.Evaluate(tau, delta)
}

// Named labels every term of f as section[index]:Kind, the form used by
// CheckTerms reports.
func (f *Fluid) Named() map[string]Term {
	out := make(map[string]Term, len(f.Alpha0)+len(f.AlphaR))
	for i, t := range f.Alpha0 {
		out[fmt.Sprintf("alpha0[%d]:%s", i, t.Kind())] = t
	}
	for i, t := range f.AlphaR {
		out[fmt.Sprintf("alphar[%d]:%s", i, t.Kind())] = t
	}
	return out
}
