package helmholtz

import "math"

// ============================================================
// SAFTAssociating: association term with one bonding site
// ============================================================

// SAFTAssociating is m*a*(ln X - X/2 + 1/2), X being the fraction of
// non-bonded sites:
//
//	X         = 2 / (sqrt(1 + 4*Deltabar*delta) + 1)
//	Deltabar  = g(eta) * (exp(epsilonbar*tau) - 1) * kappabar
//	eta       = vbarn * delta
//	g(eta)    = (1/2)(2 - eta) / (1 - eta)^3
//
// X is the root of w*X^2 + X - 1 = 0 with w = delta*Deltabar, so every
// partial of X follows from implicit differentiation in w and the chain
// rule through w(tau, delta).
type SAFTAssociating struct {
	A          float64
	M          float64
	EpsilonBar float64
	VBarN      float64
	KappaBar   float64
	Disabled   bool
}

func NewSAFTAssociating(a, m, epsilonbar, vbarn, kappabar float64) *SAFTAssociating {
	return &SAFTAssociating{A: a, M: m, EpsilonBar: epsilonbar, VBarN: vbarn, KappaBar: kappabar}
}

func (s *SAFTAssociating) Kind() string { return "ResidualHelmholtzSAFTAssociating" }

// Disable turns the term into an exact zero.
func (s *SAFTAssociating) Disable() { s.Disabled = true }

func (s *SAFTAssociating) eta(delta float64) float64 { return s.VBarN * delta }

func g(eta float64) float64      { return 0.5 * (2 - eta) / math.Pow(1-eta, 3) }
func dgDeta(eta float64) float64 { return 0.5 * (5 - 2*eta) / math.Pow(1-eta, 4) }
func d2gDeta2(eta float64) float64 {
	return 3 * (3 - eta) / math.Pow(1-eta, 5)
}
func d3gDeta3(eta float64) float64 {
	return 6 * (7 - 2*eta) / math.Pow(1-eta, 6)
}

// Deltabar is the reduced association strength.
func (s *SAFTAssociating) Deltabar(tau, delta float64) float64 {
	return g(s.eta(delta)) * (math.Exp(s.EpsilonBar*tau) - 1) * s.KappaBar
}

// X is the non-bonded site fraction at fixed delta and Deltabar.
func (s *SAFTAssociating) X(delta, deltabar float64) float64 {
	return 2 / (math.Sqrt(1+4*deltabar*delta) + 1)
}

// deltabar returns Deltabar with its partials; it separates into a
// function of delta times a function of tau.
func (s *SAFTAssociating) deltabar(tau, delta float64) Derivatives {
	eta, v := s.eta(delta), s.VBarN
	density := Derivatives{
		Value:   g(eta),
		DDelta:  dgDeta(eta) * v,
		DDelta2: d2gDeta2(eta) * v * v,
		DDelta3: d3gDeta3(eta) * v * v * v,
	}
	e, eps := math.Exp(s.EpsilonBar*tau), s.EpsilonBar
	strength := Derivatives{
		Value: (e - 1) * s.KappaBar,
		DTau:  eps * e * s.KappaBar,
		DTau2: eps * eps * e * s.KappaBar,
		DTau3: eps * eps * eps * e * s.KappaBar,
	}
	return product(density, strength)
}

// siteFractionOuter returns X(w) and its first three derivatives in w.
// Differentiating w*X^2 + X - 1 = 0 gives, with s = 1 + 2wX,
//
//	X'   = -X^2 / s
//	X''  = -2X'(2X + wX') / s
//	X''' = -6(X''(X + wX') + X'^2) / s
func siteFractionOuter(w float64) [4]float64 {
	x := 2 / (math.Sqrt(1+4*w) + 1)
	s := 1 + 2*w*x
	x1 := -x * x / s
	x2 := -2 * x1 * (2*x + w*x1) / s
	x3 := -6 * (x2*(x+w*x1) + x1*x1) / s
	return [4]float64{x, x1, x2, x3}
}

// SiteFraction returns X with its partials in tau and delta. Holding
// Deltabar fixed, dX/ddelta = X'(w)*Deltabar and dX/dDeltabar = X'(w)*delta,
// so the two chain-rule paths of X collapse onto the single path through w.
func (s *SAFTAssociating) SiteFraction(tau, delta float64) Derivatives {
	w := product(deltaVariable(delta), s.deltabar(tau, delta))
	return compose(siteFractionOuter(w.Value), w)
}

func (s *SAFTAssociating) All(tau, delta float64, d *Derivatives) {
	if s.Disabled {
		return
	}
	x := s.SiteFraction(tau, delta)
	X := x.Value
	ma := s.M * s.A
	outer := [4]float64{
		ma * (math.Log(X) - X/2 + 0.5),
		ma * (1/X - 0.5),
		-ma / (X * X),
		2 * ma / (X * X * X),
	}
	d.Add(compose(outer, x))
}

func (s *SAFTAssociating) Base(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).Value
}
func (s *SAFTAssociating) DTau(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DTau
}
func (s *SAFTAssociating) DTau2(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DTau2
}
func (s *SAFTAssociating) DTau3(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DTau3
}
func (s *SAFTAssociating) DDelta(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDelta
}
func (s *SAFTAssociating) DDelta2(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDelta2
}
func (s *SAFTAssociating) DDelta3(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDelta3
}
func (s *SAFTAssociating) DDeltaDTau(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDeltaDTau
}
func (s *SAFTAssociating) DDeltaDTau2(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDeltaDTau2
}
func (s *SAFTAssociating) DDelta2DTau(tau, delta float64) float64 {
	return Evaluate(s, tau, delta).DDelta2DTau
}
