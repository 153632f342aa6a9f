package helmholtz

import "math"

// ============================================================
// NonAnalytic: critical-region term
// ============================================================

// NonAnalyticElement is one row of
//
//	n * DELTA^b * delta * PSI
//	PSI   = exp(-C(delta-1)^2 - D(tau-1)^2)
//	DELTA = theta^2 + B((delta-1)^2)^a
//	theta = (1-tau) + A((delta-1)^2)^(1/(2 beta))
type NonAnalyticElement struct {
	N      float64
	SmallA float64 // a
	SmallB float64 // b
	Beta   float64
	A, B   float64
	C, D   float64
}

// NonAnalytic sums critical-region elements. It holds no scratch state:
// individual accessors sum into a buffer owned by the call.
type NonAnalytic struct {
	Elements []NonAnalyticElement
}

func NewNonAnalytic(n, a, b, beta, A, B, C, D []float64) (*NonAnalytic, error) {
	if err := sameLength("non-analytic", n, a, b, beta, A, B, C, D); err != nil {
		return nil, err
	}
	els := make([]NonAnalyticElement, len(n))
	for i := range n {
		els[i] = NonAnalyticElement{
			N: n[i], SmallA: a[i], SmallB: b[i], Beta: beta[i],
			A: A[i], B: B[i], C: C[i], D: D[i],
		}
	}
	return &NonAnalytic{Elements: els}, nil
}

func (na *NonAnalytic) Kind() string { return "ResidualHelmholtzNonAnalytic" }

// evenPower returns the first three derivatives of ((x)^2)^p = |x|^(2p)
// with respect to x, given q = x^2.
func evenPower(x, q, p float64) (d1, d2, d3 float64) {
	d1 = 2 * p * x * math.Pow(q, p-1)
	d2 = 2 * p * (2*p - 1) * math.Pow(q, p-1)
	d3 = 2 * p * (2*p - 1) * (2*p - 2) * x * math.Pow(q, p-2)
	return d1, d2, d3
}

// powerOuter returns v^b and its first three derivatives. At the critical
// point, where |v| falls under the tolerance, derivatives whose exponent
// is negative would divide by zero and are set to zero instead.
func powerOuter(v, b float64) [4]float64 {
	out := [4]float64{
		math.Pow(v, b),
		b * math.Pow(v, b-1),
		b * (b - 1) * math.Pow(v, b-2),
		b * (b - 1) * (b - 2) * math.Pow(v, b-3),
	}
	if math.Abs(v) < tolerance {
		for k := 1; k <= 3; k++ {
			if b-float64(k) < 0 {
				out[k] = 0
			}
		}
	}
	return out
}

// derivatives evaluates one element with all its partials.
func (el *NonAnalyticElement) derivatives(tau, delta float64) Derivatives {
	x := delta - 1
	q := x * x
	p := 1 / (2 * el.Beta)

	theta := Derivatives{Value: (1 - tau) + el.A*math.Pow(q, p), DTau: -1}
	well := Derivatives{Value: el.B * math.Pow(q, el.SmallA)}
	// Within the tolerance of delta = 1 the fractional powers of (delta-1)^2
	// are singular; their delta derivatives are taken as exactly zero.
	if math.Abs(x) >= tolerance {
		t1, t2, t3 := evenPower(x, q, p)
		theta.DDelta, theta.DDelta2, theta.DDelta3 = el.A*t1, el.A*t2, el.A*t3
		w1, w2, w3 := evenPower(x, q, el.SmallA)
		well.DDelta, well.DDelta2, well.DDelta3 = el.B*w1, el.B*w2, el.B*w3
	}

	dist := compose([4]float64{theta.Value * theta.Value, 2 * theta.Value, 2, 0}, theta)
	dist.Add(well)
	distB := compose(powerOuter(dist.Value, el.SmallB), dist)

	y := tau - 1
	bell := Derivatives{
		Value:   -el.C*q - el.D*y*y,
		DDelta:  -2 * el.C * x,
		DDelta2: -2 * el.C,
		DTau:    -2 * el.D * y,
		DTau2:   -2 * el.D,
	}
	psi := math.Exp(bell.Value)
	bellExp := compose([4]float64{psi, psi, psi, psi}, bell)

	return product(product(distB, deltaVariable(delta)), bellExp).Scale(el.N)
}

func (na *NonAnalytic) All(tau, delta float64, d *Derivatives) {
	for i := range na.Elements {
		d.Add(na.Elements[i].derivatives(tau, delta))
	}
}

// sum evaluates k for every element and adds them with compensation.
func (na *NonAnalytic) sum(k DerivativeKind, tau, delta float64) float64 {
	if len(na.Elements) == 0 {
		return 0
	}
	s := make([]float64, len(na.Elements))
	for i := range na.Elements {
		s[i] = na.Elements[i].derivatives(tau, delta).Get(k)
	}
	return KahanSum(s)
}

func (na *NonAnalytic) Base(tau, delta float64) float64    { return na.sum(KindBase, tau, delta) }
func (na *NonAnalytic) DTau(tau, delta float64) float64    { return na.sum(KindDTau, tau, delta) }
func (na *NonAnalytic) DTau2(tau, delta float64) float64   { return na.sum(KindDTau2, tau, delta) }
func (na *NonAnalytic) DTau3(tau, delta float64) float64   { return na.sum(KindDTau3, tau, delta) }
func (na *NonAnalytic) DDelta(tau, delta float64) float64  { return na.sum(KindDDelta, tau, delta) }
func (na *NonAnalytic) DDelta2(tau, delta float64) float64 { return na.sum(KindDDelta2, tau, delta) }
func (na *NonAnalytic) DDelta3(tau, delta float64) float64 { return na.sum(KindDDelta3, tau, delta) }
func (na *NonAnalytic) DDeltaDTau(tau, delta float64) float64 {
	return na.sum(KindDDeltaDTau, tau, delta)
}
func (na *NonAnalytic) DDeltaDTau2(tau, delta float64) float64 {
	return na.sum(KindDDeltaDTau2, tau, delta)
}
func (na *NonAnalytic) DDelta2DTau(tau, delta float64) float64 {
	return na.sum(KindDDelta2DTau, tau, delta)
}
