package helmholtz

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Finite-difference consistency harness
// ============================================================

// CheckResult compares one closed-form derivative with a central
// difference of the accessor one order below it.
type CheckResult struct {
	Kind      DerivativeKind `json:"-"`
	Name      string         `json:"kind"`
	Numerical float64        `json:"numerical"`
	Analytic  float64        `json:"analytic"`
	Error     float64        `json:"error"`
}

// Passed reports whether the relative error is under tol.
func (r CheckResult) Passed(tol float64) bool { return r.Error < tol }

// RelativeError is |a-b|/|b|, or |a-b| when |b| is below 1e-15.
func RelativeError(a, b float64) float64 {
	if math.Abs(b) < 1e-15 {
		return math.Abs(a - b)
	}
	return math.Abs(a-b) / math.Abs(b)
}

// lower returns the accessor differentiated to obtain k and the variable
// it is differentiated in.
func lower(k DerivativeKind) (DerivativeKind, bool) {
	switch k {
	case KindDTau:
		return KindBase, true
	case KindDTau2:
		return KindDTau, true
	case KindDTau3:
		return KindDTau2, true
	case KindDDelta:
		return KindBase, false
	case KindDDelta2:
		return KindDDelta, false
	case KindDDelta3:
		return KindDDelta2, false
	case KindDDeltaDTau:
		return KindDTau, false
	case KindDDeltaDTau2:
		return KindDTau2, false
	case KindDDelta2DTau:
		return KindDDeltaDTau, false
	}
	return KindBase, false
}

// Check evaluates the central difference with step h at (tau, delta).
func Check(t Term, k DerivativeKind, tau, delta, h float64) CheckResult {
	below, inTau := lower(k)
	var num float64
	if inTau {
		num = (Derivative(t, below, tau+h, delta) - Derivative(t, below, tau-h, delta)) / (2 * h)
	} else {
		num = (Derivative(t, below, tau, delta+h) - Derivative(t, below, tau, delta-h)) / (2 * h)
	}
	analytic := Derivative(t, k, tau, delta)
	return CheckResult{
		Kind:      k,
		Name:      k.String(),
		Numerical: num,
		Analytic:  analytic,
		Error:     RelativeError(num, analytic),
	}
}

// CheckOptions configures CheckTerms. Zero fields take the defaults of
// DefaultCheckOptions.
type CheckOptions struct {
	Tau       float64
	Delta     float64
	Step      float64
	Tolerance float64
	Workers   int

	// Steps overrides Step for the named terms. A term whose lower
	// derivative is much larger than the one checked needs a wider step
	// to keep roundoff in the difference under the tolerance.
	Steps map[string]float64
}

func DefaultCheckOptions() CheckOptions {
	return CheckOptions{Tau: 1.3, Delta: 0.7, Step: 1e-7, Tolerance: 1e-6}
}

func (o CheckOptions) withDefaults() CheckOptions {
	def := DefaultCheckOptions()
	if o.Tau == 0 {
		o.Tau = def.Tau
	}
	if o.Delta == 0 {
		o.Delta = def.Delta
	}
	if o.Step == 0 {
		o.Step = def.Step
	}
	if o.Tolerance == 0 {
		o.Tolerance = def.Tolerance
	}
	return o
}

// stepFor returns the difference step used for the named term.
func (o CheckOptions) stepFor(name string) float64 {
	if h, ok := o.Steps[name]; ok && h > 0 {
		return h
	}
	return o.Step
}

// CheckReport holds the nine checks of one named term.
type CheckReport struct {
	Name    string        `json:"name"`
	Kind    string        `json:"type"`
	Step    float64       `json:"step"`
	Results []CheckResult `json:"results"`
	Passed  bool          `json:"passed"`
}

// Failures lists the results at or above tol.
func (r CheckReport) Failures(tol float64) []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if !res.Passed(tol) {
			out = append(out, res)
		}
	}
	return out
}

// CheckAll runs every derivative kind against t.
func CheckAll(t Term, tau, delta, h float64) []CheckResult {
	out := make([]CheckResult, len(DerivativeKinds))
	for i, k := range DerivativeKinds {
		out[i] = Check(t, k, tau, delta, h)
	}
	return out
}

// CheckTerms checks every named term concurrently, one goroutine per
// term, and returns the reports sorted by name. Workers bounds the number
// of goroutines when positive.
func CheckTerms(ctx context.Context, terms map[string]Term, opts CheckOptions) ([]CheckReport, error) {
	opts = opts.withDefaults()
	if opts.Step < 0 || opts.Tau <= 0 || opts.Delta <= 0 {
		return nil, fmt.Errorf("%w: check needs positive tau, delta and step", ErrInvalidParameter)
	}
	for name, h := range opts.Steps {
		if h < 0 {
			return nil, fmt.Errorf("%w: negative step %g for %s", ErrInvalidParameter, h, name)
		}
	}
	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]CheckReport, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, name := range names {
		i, name := i, name
		t := terms[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h := opts.stepFor(name)
			results := CheckAll(t, opts.Tau, opts.Delta, h)
			passed := true
			for _, r := range results {
				passed = passed && r.Passed(opts.Tolerance)
			}
			reports[i] = CheckReport{Name: name, Kind: t.Kind(), Step: h, Results: results, Passed: passed}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
