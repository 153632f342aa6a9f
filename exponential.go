package helmholtz

import "math"

// ============================================================
// GeneralizedExponential: power, Gaussian and exponential terms
// ============================================================

// ExponentialElement is one row n * delta^d * tau^t * exp(u(delta, tau)).
// Modifier parameters left NaN are not configured and contribute nothing
// to u.
type ExponentialElement struct {
	N, D, T float64

	// density cutoff: u += -c*delta^l
	LInt    int
	LDouble float64
	C       float64

	// temperature cutoff: u += -omega*tau^m
	MDouble float64
	Omega   float64

	// density wells: u += -eta1*(delta-epsilon1) - eta2*(delta-epsilon2)^2
	Eta1, Epsilon1 float64
	Eta2, Epsilon2 float64

	// temperature wells: u += -beta1*(tau-gamma1) - beta2*(tau-gamma2)^2
	Beta1, Gamma1 float64
	Beta2, Gamma2 float64
}

// NewExponentialElement returns the plain power-law element n*delta^d*tau^t.
func NewExponentialElement(n, d, t float64) ExponentialElement {
	nan := math.NaN()
	return ExponentialElement{
		N: n, D: d, T: t,
		LDouble: nan, C: nan,
		MDouble: nan, Omega: nan,
		Eta1: nan, Epsilon1: nan, Eta2: nan, Epsilon2: nan,
		Beta1: nan, Gamma1: nan, Beta2: nan, Gamma2: nan,
	}
}

// GeneralizedExponential sums exponential elements. The set of active
// modifiers is resolved once, whenever elements are added, so elements
// only enter through the Add methods.
type GeneralizedExponential struct {
	elements []ExponentialElement

	deltaLInU, tauMInU bool
	eta1InU, eta2InU   bool
	beta1InU, beta2InU bool
	mods               []modifier
}

// NewGeneralizedExponential returns an empty sum; it contributes nothing
// until elements are added.
func NewGeneralizedExponential() *GeneralizedExponential { return &GeneralizedExponential{} }

// Elements returns a copy of the stored elements.
func (g *GeneralizedExponential) Elements() []ExponentialElement {
	return append([]ExponentialElement(nil), g.elements...)
}

func (g *GeneralizedExponential) Kind() string { return "ResidualHelmholtzGeneralizedExponential" }

// AddElements appends fully specified elements.
func (g *GeneralizedExponential) AddElements(els ...ExponentialElement) {
	g.elements = append(g.elements, els...)
	g.resolve()
}

// AddPower appends n*delta^d*tau^t*exp(-delta^l), the cutoff omitted where l <= 0.
func (g *GeneralizedExponential) AddPower(n, d, t, l []float64) error {
	if err := sameLength("power", n, d, t, l); err != nil {
		return err
	}
	for i := range n {
		el := NewExponentialElement(n[i], d[i], t[i])
		el.LDouble, el.LInt = l[i], int(l[i])
		el.C = 0
		if l[i] > 0 {
			el.C = 1
		}
		g.elements = append(g.elements, el)
	}
	g.resolve()
	return nil
}

// AddExponential appends n*delta^d*tau^t*exp(-g*delta^l).
func (g *GeneralizedExponential) AddExponential(n, d, t, gamma, l []float64) error {
	if err := sameLength("exponential", n, d, t, gamma, l); err != nil {
		return err
	}
	for i := range n {
		el := NewExponentialElement(n[i], d[i], t[i])
		el.LDouble, el.LInt, el.C = l[i], int(l[i]), gamma[i]
		g.elements = append(g.elements, el)
	}
	g.resolve()
	return nil
}

// AddLemmon2005 appends n*delta^d*tau^t*exp(-delta^l)*exp(-tau^m).
func (g *GeneralizedExponential) AddLemmon2005(n, d, t, l, m []float64) error {
	if err := sameLength("Lemmon2005", n, d, t, l, m); err != nil {
		return err
	}
	for i := range n {
		el := NewExponentialElement(n[i], d[i], t[i])
		el.LDouble, el.LInt = l[i], int(l[i])
		el.C = 0
		if l[i] > 0 {
			el.C = 1
		}
		el.MDouble = m[i]
		el.Omega = 0
		if math.Abs(m[i]) > 0 {
			el.Omega = 1
		}
		g.elements = append(g.elements, el)
	}
	g.resolve()
	return nil
}

// AddGaussian appends the bell n*delta^d*tau^t*exp(-eta*(delta-epsilon)^2 - beta*(tau-gamma)^2).
func (g *GeneralizedExponential) AddGaussian(n, d, t, eta, eps, beta, gamma []float64) error {
	if err := sameLength("Gaussian", n, d, t, eta, eps, beta, gamma); err != nil {
		return err
	}
	for i := range n {
		el := NewExponentialElement(n[i], d[i], t[i])
		el.Eta2, el.Epsilon2 = eta[i], eps[i]
		el.Beta2, el.Gamma2 = beta[i], gamma[i]
		g.elements = append(g.elements, el)
	}
	g.resolve()
	return nil
}

// AddGERG2008Gaussian appends n*delta^d*tau^t*exp(-eta*(delta-epsilon)^2 - beta*(delta-gamma)).
func (g *GeneralizedExponential) AddGERG2008Gaussian(n, d, t, eta, eps, beta, gamma []float64) error {
	if err := sameLength("GERG2008Gaussian", n, d, t, eta, eps, beta, gamma); err != nil {
		return err
	}
	for i := range n {
		el := NewExponentialElement(n[i], d[i], t[i])
		el.Eta2, el.Epsilon2 = eta[i], eps[i]
		el.Eta1, el.Epsilon1 = beta[i], gamma[i]
		g.elements = append(g.elements, el)
	}
	g.resolve()
	return nil
}

// resolve raises the presence flags from the stored elements and hoists
// them into the ordered modifier list used by the inner loop.
func (g *GeneralizedExponential) resolve() {
	for i := range g.elements {
		el := &g.elements[i]
		g.deltaLInU = g.deltaLInU || validNumber(el.LDouble)
		g.tauMInU = g.tauMInU || validNumber(el.MDouble)
		g.eta1InU = g.eta1InU || validNumber(el.Eta1)
		g.eta2InU = g.eta2InU || validNumber(el.Eta2)
		g.beta1InU = g.beta1InU || validNumber(el.Beta1)
		g.beta2InU = g.beta2InU || validNumber(el.Beta2)
	}
	g.mods = g.mods[:0]
	if g.deltaLInU {
		g.mods = append(g.mods, densityCutoff)
	}
	if g.tauMInU {
		g.mods = append(g.mods, temperatureCutoff)
	}
	if g.eta1InU {
		g.mods = append(g.mods, linearDensityWell)
	}
	if g.eta2InU {
		g.mods = append(g.mods, quadraticDensityWell)
	}
	if g.beta1InU {
		g.mods = append(g.mods, linearTemperatureWell)
	}
	if g.beta2InU {
		g.mods = append(g.mods, quadraticTemperatureWell)
	}
}

func validNumber(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// ============================================================
// Exponent modifiers
// ============================================================

// exponent accumulates u and its pure derivatives. No modifier depends on
// both variables, so the mixed derivatives of u are identically zero.
type exponent struct {
	u                        float64
	dDelta, dDelta2, dDelta3 float64
	dTau, dTau2, dTau3       float64
}

type modifier func(el *ExponentialElement, tau, delta float64, u *exponent)

func densityCutoff(el *ExponentialElement, tau, delta float64, u *exponent) {
	if !validNumber(el.LDouble) || el.LInt <= 0 {
		return
	}
	l := el.LDouble
	v := -el.C * math.Pow(delta, l)
	d1 := l * v / delta
	d2 := (l - 1) * d1 / delta
	d3 := (l - 2) * d2 / delta
	u.u += v
	u.dDelta += d1
	u.dDelta2 += d2
	u.dDelta3 += d3
}

func temperatureCutoff(el *ExponentialElement, tau, delta float64, u *exponent) {
	m := el.MDouble
	if !validNumber(m) || math.Abs(m) == 0 {
		return
	}
	v := -el.Omega * math.Pow(tau, m)
	d1 := m * v / tau
	d2 := (m - 1) * d1 / tau
	d3 := (m - 2) * d2 / tau
	u.u += v
	u.dTau += d1
	u.dTau2 += d2
	u.dTau3 += d3
}

func linearDensityWell(el *ExponentialElement, tau, delta float64, u *exponent) {
	if !validNumber(el.Eta1) {
		return
	}
	u.u += -el.Eta1 * (delta - el.Epsilon1)
	u.dDelta += -el.Eta1
}

func quadraticDensityWell(el *ExponentialElement, tau, delta float64, u *exponent) {
	if !validNumber(el.Eta2) {
		return
	}
	x := delta - el.Epsilon2
	u.u += -el.Eta2 * x * x
	u.dDelta += -2 * el.Eta2 * x
	u.dDelta2 += -2 * el.Eta2
}

func linearTemperatureWell(el *ExponentialElement, tau, delta float64, u *exponent) {
	if !validNumber(el.Beta1) {
		return
	}
	u.u += -el.Beta1 * (tau - el.Gamma1)
	u.dTau += -el.Beta1
}

func quadraticTemperatureWell(el *ExponentialElement, tau, delta float64, u *exponent) {
	if !validNumber(el.Beta2) {
		return
	}
	x := tau - el.Gamma2
	u.u += -el.Beta2 * x * x
	u.dTau += -2 * el.Beta2 * x
	u.dTau2 += -2 * el.Beta2
}

// ============================================================
// Evaluation
// ============================================================

// bFactors returns the logarithmic derivative factors of x^p*exp(u(x)):
// its k-th derivative is term*B_k/x^k. With u and its derivatives zero
// they reduce to p, p(p-1) and p(p-1)(p-2).
func bFactors(p, x, du, d2u, d3u float64) (b1, b2, b3 float64) {
	xu := x * du
	x2 := x * x
	x3 := x2 * x
	b1 = xu + p
	b2 = x2*(d2u+du*du) + 2*p*xu + p*(p-1)
	b3 = x3*d3u + 3*p*x2*d2u + 3*x3*d2u*du + 3*p*xu*xu + 3*p*(p-1)*xu + p*(p-1)*(p-2) + xu*xu*xu
	return b1, b2, b3
}

// All accumulates the contribution of every element. Sums are built
// relative to delta and tau and rescaled once before being added to d.
func (g *GeneralizedExponential) All(tau, delta float64, d *Derivatives) {
	if len(g.elements) == 0 {
		return
	}
	logTau, logDelta := math.Log(tau), math.Log(delta)
	// one division each; the rescale below multiplies
	oneOverTau, oneOverDelta := 1/tau, 1/delta
	mods := g.mods

	var s Derivatives
	for i := range g.elements {
		el := &g.elements[i]
		var u exponent
		for _, m := range mods {
			m(el, tau, delta, &u)
		}
		ndteu := el.N * math.Exp(el.T*logTau+el.D*logDelta+u.u)
		bDelta, bDelta2, bDelta3 := bFactors(el.D, delta, u.dDelta, u.dDelta2, u.dDelta3)
		bTau, bTau2, bTau3 := bFactors(el.T, tau, u.dTau, u.dTau2, u.dTau3)

		s.Value += ndteu
		s.DDelta += ndteu * bDelta
		s.DTau += ndteu * bTau
		s.DDelta2 += ndteu * bDelta2
		s.DDeltaDTau += ndteu * bDelta * bTau
		s.DTau2 += ndteu * bTau2
		s.DDelta3 += ndteu * bDelta3
		s.DDelta2DTau += ndteu * bDelta2 * bTau
		s.DDeltaDTau2 += ndteu * bDelta * bTau2
		s.DTau3 += ndteu * bTau3
	}
	s.DDelta *= oneOverDelta
	s.DTau *= oneOverTau
	s.DDelta2 *= oneOverDelta * oneOverDelta
	s.DTau2 *= oneOverTau * oneOverTau
	s.DDeltaDTau *= oneOverDelta * oneOverTau
	s.DDelta3 *= oneOverDelta * oneOverDelta * oneOverDelta
	s.DTau3 *= oneOverTau * oneOverTau * oneOverTau
	s.DDelta2DTau *= oneOverDelta * oneOverDelta * oneOverTau
	s.DDeltaDTau2 *= oneOverDelta * oneOverTau * oneOverTau
	d.Add(s)
}

func (g *GeneralizedExponential) Base(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).Value
}
func (g *GeneralizedExponential) DTau(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DTau
}
func (g *GeneralizedExponential) DTau2(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DTau2
}
func (g *GeneralizedExponential) DTau3(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DTau3
}
func (g *GeneralizedExponential) DDelta(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDelta
}
func (g *GeneralizedExponential) DDelta2(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDelta2
}
func (g *GeneralizedExponential) DDelta3(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDelta3
}
func (g *GeneralizedExponential) DDeltaDTau(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDeltaDTau
}
func (g *GeneralizedExponential) DDeltaDTau2(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDeltaDTau2
}
func (g *GeneralizedExponential) DDelta2DTau(tau, delta float64) float64 {
	return Evaluate(g, tau, delta).DDelta2DTau
}
