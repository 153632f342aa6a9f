// Package helmholtz evaluates the reduced Helmholtz free energy of a pure
// fluid as a sum of independently pluggable analytic terms, together with
// every partial derivative up to third order in tau and delta.
//
// Design goals:
//   - Closed-form derivatives; finite differences only in the consistency harness
//   - Total functions: degenerate math propagates IEEE values, never panics
//   - Terms are immutable after construction and safe for concurrent use
//   - Every term can describe itself as JSON and be rebuilt from it
package helmholtz

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrLengthMismatch    = errors.New("helmholtz: coefficient arrays differ in length")
	ErrUnknownTerm       = errors.New("helmholtz: unknown term type")
	ErrUnknownDerivative = errors.New("helmholtz: unknown derivative")
	ErrInvalidParameter  = errors.New("helmholtz: invalid parameter")
)

// epsilon is the double precision machine epsilon.
const epsilon = 0x1p-52

// tolerance is the width of the critical-region and exact-exponent tests.
const tolerance = 10 * epsilon

// ============================================================
// Derivatives
// ============================================================

// Derivatives holds a free-energy value and its nine partial derivatives
// up to third order. It is mutated only by additive accumulation.
type Derivatives struct {
	Value       float64 `json:"alpha"`
	DTau        float64 `json:"dalpha_dtau"`
	DDelta      float64 `json:"dalpha_ddelta"`
	DTau2       float64 `json:"d2alpha_dtau2"`
	DDelta2     float64 `json:"d2alpha_ddelta2"`
	DDeltaDTau  float64 `json:"d2alpha_ddelta_dtau"`
	DTau3       float64 `json:"d3alpha_dtau3"`
	DDelta3     float64 `json:"d3alpha_ddelta3"`
	DDelta2DTau float64 `json:"d3alpha_ddelta2_dtau"`
	DDeltaDTau2 float64 `json:"d3alpha_ddelta_dtau2"`
}

// Add accumulates o into d.
func (d *Derivatives) Add(o Derivatives) {
	d.Value += o.Value
	d.DTau += o.DTau
	d.DDelta += o.DDelta
	d.DTau2 += o.DTau2
	d.DDelta2 += o.DDelta2
	d.DDeltaDTau += o.DDeltaDTau
	d.DTau3 += o.DTau3
	d.DDelta3 += o.DDelta3
	d.DDelta2DTau += o.DDelta2DTau
	d.DDeltaDTau2 += o.DDeltaDTau2
}

// Scale returns every quantity of d multiplied by k.
func (d Derivatives) Scale(k float64) Derivatives {
	return Derivatives{
		Value: k * d.Value, DTau: k * d.DTau, DDelta: k * d.DDelta,
		DTau2: k * d.DTau2, DDelta2: k * d.DDelta2, DDeltaDTau: k * d.DDeltaDTau,
		DTau3: k * d.DTau3, DDelta3: k * d.DDelta3,
		DDelta2DTau: k * d.DDelta2DTau, DDeltaDTau2: k * d.DDeltaDTau2,
	}
}

// Get returns the quantity selected by k.
func (d Derivatives) Get(k DerivativeKind) float64 {
	switch k {
	case KindBase:
		return d.Value
	case KindDTau:
		return d.DTau
	case KindDTau2:
		return d.DTau2
	case KindDTau3:
		return d.DTau3
	case KindDDelta:
		return d.DDelta
	case KindDDelta2:
		return d.DDelta2
	case KindDDelta3:
		return d.DDelta3
	case KindDDeltaDTau:
		return d.DDeltaDTau
	case KindDDeltaDTau2:
		return d.DDeltaDTau2
	case KindDDelta2DTau:
		return d.DDelta2DTau
	}
	return 0
}

// ============================================================
// DerivativeKind
// ============================================================

// DerivativeKind names the value or one of the nine partial derivatives.
type DerivativeKind int

const (
	KindBase DerivativeKind = iota
	KindDTau
	KindDTau2
	KindDTau3
	KindDDelta
	KindDDelta2
	KindDDelta3
	KindDDeltaDTau
	KindDDeltaDTau2
	KindDDelta2DTau
)

var kindNames = [...]string{
	KindBase:        "base",
	KindDTau:        "dTau",
	KindDTau2:       "dTau2",
	KindDTau3:       "dTau3",
	KindDDelta:      "dDelta",
	KindDDelta2:     "dDelta2",
	KindDDelta3:     "dDelta3",
	KindDDeltaDTau:  "dDelta_dTau",
	KindDDeltaDTau2: "dDelta_dTau2",
	KindDDelta2DTau: "dDelta2_dTau",
}

// DerivativeKinds lists the nine derivative accessors in harness order.
var DerivativeKinds = []DerivativeKind{
	KindDTau, KindDTau2, KindDTau3,
	KindDDelta, KindDDelta2, KindDDelta3,
	KindDDeltaDTau, KindDDeltaDTau2, KindDDelta2DTau,
}

func (k DerivativeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("DerivativeKind(%d)", int(k))
	}
	return kindNames[k]
}

// Order is the total differentiation order of k.
func (k DerivativeKind) Order() int {
	switch k {
	case KindBase:
		return 0
	case KindDTau, KindDDelta:
		return 1
	case KindDTau2, KindDDelta2, KindDDeltaDTau:
		return 2
	}
	return 3
}

// ParseDerivativeKind is the inverse of DerivativeKind.String. Unknown
// names wrap ErrUnknownDerivative.
func ParseDerivativeKind(name string) (DerivativeKind, error) {
	for k, n := range kindNames {
		if n == name {
			return DerivativeKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDerivative, name)
}

// ============================================================
// Term contract
// ============================================================

// Term is one additive contributor to the reduced free energy. All
// methods are pure in (tau, delta); All adds its ten quantities into d.
type Term interface {
	Base(tau, delta float64) float64
	DTau(tau, delta float64) float64
	DTau2(tau, delta float64) float64
	DTau3(tau, delta float64) float64
	DDelta(tau, delta float64) float64
	DDelta2(tau, delta float64) float64
	DDelta3(tau, delta float64) float64
	DDeltaDTau(tau, delta float64) float64
	DDeltaDTau2(tau, delta float64) float64
	DDelta2DTau(tau, delta float64) float64
	All(tau, delta float64, d *Derivatives)
	Kind() string
}

// Evaluate runs the fused pass of t into a fresh aggregate.
func Evaluate(t Term, tau, delta float64) Derivatives {
	var d Derivatives
	t.All(tau, delta, &d)
	return d
}

// Derivative calls the individual accessor of t selected by k.
func Derivative(t Term, k DerivativeKind, tau, delta float64) float64 {
	switch k {
	case KindBase:
		return t.Base(tau, delta)
	case KindDTau:
		return t.DTau(tau, delta)
	case KindDTau2:
		return t.DTau2(tau, delta)
	case KindDTau3:
		return t.DTau3(tau, delta)
	case KindDDelta:
		return t.DDelta(tau, delta)
	case KindDDelta2:
		return t.DDelta2(tau, delta)
	case KindDDelta3:
		return t.DDelta3(tau, delta)
	case KindDDeltaDTau:
		return t.DDeltaDTau(tau, delta)
	case KindDDeltaDTau2:
		return t.DDeltaDTau2(tau, delta)
	case KindDDelta2DTau:
		return t.DDelta2DTau(tau, delta)
	}
	return 0
}

// ============================================================
// Terms
// ============================================================

// Terms sums its members. It satisfies Term, so collections nest.
type Terms []Term

func (ts Terms) Kind() string { return "Terms" }

func (ts Terms) All(tau, delta float64, d *Derivatives) {
	for _, t := range ts {
		t.All(tau, delta, d)
	}
}

func (ts Terms) Evaluate(tau, delta float64) Derivatives { return Evaluate(ts, tau, delta) }

// sum adds the members' k derivatives largest first, so the result does
// not depend on member order.
func (ts Terms) sum(k DerivativeKind, tau, delta float64) float64 {
	xs := make([]float64, len(ts))
	for i, t := range ts {
		xs[i] = Derivative(t, k, tau, delta)
	}
	return SortedKahanSum(xs)
}

func (ts Terms) Base(tau, delta float64) float64        { return ts.sum(KindBase, tau, delta) }
func (ts Terms) DTau(tau, delta float64) float64        { return ts.sum(KindDTau, tau, delta) }
func (ts Terms) DTau2(tau, delta float64) float64       { return ts.sum(KindDTau2, tau, delta) }
func (ts Terms) DTau3(tau, delta float64) float64       { return ts.sum(KindDTau3, tau, delta) }
func (ts Terms) DDelta(tau, delta float64) float64      { return ts.sum(KindDDelta, tau, delta) }
func (ts Terms) DDelta2(tau, delta float64) float64     { return ts.sum(KindDDelta2, tau, delta) }
func (ts Terms) DDelta3(tau, delta float64) float64     { return ts.sum(KindDDelta3, tau, delta) }
func (ts Terms) DDeltaDTau(tau, delta float64) float64  { return ts.sum(KindDDeltaDTau, tau, delta) }
func (ts Terms) DDeltaDTau2(tau, delta float64) float64 { return ts.sum(KindDDeltaDTau2, tau, delta) }
func (ts Terms) DDelta2DTau(tau, delta float64) float64 { return ts.sum(KindDDelta2DTau, tau, delta) }

// ============================================================
// Chain and product rules on (tau, delta)
// ============================================================

// deltaVariable is delta itself.
func deltaVariable(delta float64) Derivatives { return Derivatives{Value: delta, DDelta: 1} }

// product applies the Leibniz rule to f*g.
func product(f, g Derivatives) Derivatives {
	return Derivatives{
		Value:   f.Value * g.Value,
		DTau:    f.DTau*g.Value + f.Value*g.DTau,
		DDelta:  f.DDelta*g.Value + f.Value*g.DDelta,
		DTau2:   f.DTau2*g.Value + 2*f.DTau*g.DTau + f.Value*g.DTau2,
		DDelta2: f.DDelta2*g.Value + 2*f.DDelta*g.DDelta + f.Value*g.DDelta2,
		DDeltaDTau: f.DDeltaDTau*g.Value + f.DDelta*g.DTau +
			f.DTau*g.DDelta + f.Value*g.DDeltaDTau,
		DTau3:   f.DTau3*g.Value + 3*f.DTau2*g.DTau + 3*f.DTau*g.DTau2 + f.Value*g.DTau3,
		DDelta3: f.DDelta3*g.Value + 3*f.DDelta2*g.DDelta + 3*f.DDelta*g.DDelta2 + f.Value*g.DDelta3,
		DDelta2DTau: f.DDelta2DTau*g.Value + f.DDelta2*g.DTau +
			2*f.DDeltaDTau*g.DDelta + 2*f.DDelta*g.DDeltaDTau +
			f.DTau*g.DDelta2 + f.Value*g.DDelta2DTau,
		DDeltaDTau2: f.DDeltaDTau2*g.Value + f.DTau2*g.DDelta +
			2*f.DDeltaDTau*g.DTau + 2*f.DTau*g.DDeltaDTau +
			f.DDelta*g.DTau2 + f.Value*g.DDeltaDTau2,
	}
}

// compose applies the chain rule to phi(w), where phi[k] is the k-th
// derivative of phi evaluated at w.Value.
func compose(phi [4]float64, w Derivatives) Derivatives {
	f1, f2, f3 := phi[1], phi[2], phi[3]
	wt, wd := w.DTau, w.DDelta
	return Derivatives{
		Value:      phi[0],
		DTau:       f1 * wt,
		DDelta:     f1 * wd,
		DTau2:      f2*wt*wt + f1*w.DTau2,
		DDelta2:    f2*wd*wd + f1*w.DDelta2,
		DDeltaDTau: f2*wd*wt + f1*w.DDeltaDTau,
		DTau3:      f3*wt*wt*wt + 3*f2*wt*w.DTau2 + f1*w.DTau3,
		DDelta3:    f3*wd*wd*wd + 3*f2*wd*w.DDelta2 + f1*w.DDelta3,
		DDelta2DTau: f3*wd*wd*wt + f2*(w.DDelta2*wt+2*wd*w.DDeltaDTau) +
			f1*w.DDelta2DTau,
		DDeltaDTau2: f3*wd*wt*wt + f2*(w.DTau2*wd+2*wt*w.DDeltaDTau) +
			f1*w.DDeltaDTau2,
	}
}

// sameLength reports ErrLengthMismatch unless all arrays share one length.
func sameLength(kind string, arrays ...[]float64) error {
	for i := 1; i < len(arrays); i++ {
		if len(arrays[i]) != len(arrays[0]) {
			return fmt.Errorf("%w: %s: array %d has length %d, want %d",
				ErrLengthMismatch, kind, i, len(arrays[i]), len(arrays[0]))
		}
	}
	return nil
}
