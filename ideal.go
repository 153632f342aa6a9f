package helmholtz

import (
	"fmt"
	"math"
)

// ============================================================
// Ideal-gas terms
// ============================================================

// Ideal-gas terms other than the lead term depend on tau only. They embed
// tauOnly, which supplies the identically zero delta derivatives, and
// describe themselves through tauDerivatives.

type tauOnly struct{}

func (tauOnly) DDelta(tau, delta float64) float64      { return 0 }
func (tauOnly) DDelta2(tau, delta float64) float64     { return 0 }
func (tauOnly) DDelta3(tau, delta float64) float64     { return 0 }
func (tauOnly) DDeltaDTau(tau, delta float64) float64  { return 0 }
func (tauOnly) DDeltaDTau2(tau, delta float64) float64 { return 0 }
func (tauOnly) DDelta2DTau(tau, delta float64) float64 { return 0 }

// addTau adds f(tau) and its three tau derivatives into d.
func addTau(d *Derivatives, f [4]float64) {
	d.Value += f[0]
	d.DTau += f[1]
	d.DTau2 += f[2]
	d.DTau3 += f[3]
}

// ---- Lead ----

// IdealLead is ln(delta) + a1 + a2*tau.
type IdealLead struct {
	A1, A2 float64
}

func (l *IdealLead) Kind() string { return "IdealGasHelmholtzLead" }

func (l *IdealLead) Base(tau, delta float64) float64        { return math.Log(delta) + l.A1 + l.A2*tau }
func (l *IdealLead) DTau(tau, delta float64) float64        { return l.A2 }
func (l *IdealLead) DTau2(tau, delta float64) float64       { return 0 }
func (l *IdealLead) DTau3(tau, delta float64) float64       { return 0 }
func (l *IdealLead) DDelta(tau, delta float64) float64      { return 1 / delta }
func (l *IdealLead) DDelta2(tau, delta float64) float64     { return -1 / (delta * delta) }
func (l *IdealLead) DDelta3(tau, delta float64) float64     { return 2 / (delta * delta * delta) }
func (l *IdealLead) DDeltaDTau(tau, delta float64) float64  { return 0 }
func (l *IdealLead) DDeltaDTau2(tau, delta float64) float64 { return 0 }
func (l *IdealLead) DDelta2DTau(tau, delta float64) float64 { return 0 }

func (l *IdealLead) All(tau, delta float64, d *Derivatives) {
	d.Value += l.Base(tau, delta)
	d.DTau += l.A2
	d.DDelta += 1 / delta
	d.DDelta2 += -1 / (delta * delta)
	d.DDelta3 += 2 / (delta * delta * delta)
}

// ---- LogTau ----

// IdealLogTau is a1*ln(tau).
type IdealLogTau struct {
	tauOnly
	A1 float64
}

func (l *IdealLogTau) Kind() string { return "IdealGasHelmholtzLogTau" }

func (l *IdealLogTau) tauDerivatives(tau float64) [4]float64 {
	return [4]float64{
		l.A1 * math.Log(tau),
		l.A1 / tau,
		-l.A1 / (tau * tau),
		2 * l.A1 / (tau * tau * tau),
	}
}

func (l *IdealLogTau) Base(tau, delta float64) float64  { return l.tauDerivatives(tau)[0] }
func (l *IdealLogTau) DTau(tau, delta float64) float64  { return l.tauDerivatives(tau)[1] }
func (l *IdealLogTau) DTau2(tau, delta float64) float64 { return l.tauDerivatives(tau)[2] }
func (l *IdealLogTau) DTau3(tau, delta float64) float64 { return l.tauDerivatives(tau)[3] }
func (l *IdealLogTau) All(tau, delta float64, d *Derivatives) {
	addTau(d, l.tauDerivatives(tau))
}

// ---- Power ----

// IdealPower is sum n_i*tau^t_i.
type IdealPower struct {
	tauOnly
	N, T []float64
}

func NewIdealPower(n, t []float64) (*IdealPower, error) {
	if err := sameLength("ideal power", n, t); err != nil {
		return nil, err
	}
	return &IdealPower{N: n, T: t}, nil
}

func (p *IdealPower) Kind() string { return "IdealGasHelmholtzPower" }

func (p *IdealPower) tauDerivatives(tau float64) [4]float64 {
	var f [4]float64
	for i, n := range p.N {
		t := p.T[i]
		v := n * math.Pow(tau, t)
		f[0] += v
		f[1] += t * v / tau
		f[2] += t * (t - 1) * v / (tau * tau)
		f[3] += t * (t - 1) * (t - 2) * v / (tau * tau * tau)
	}
	return f
}

func (p *IdealPower) Base(tau, delta float64) float64  { return p.tauDerivatives(tau)[0] }
func (p *IdealPower) DTau(tau, delta float64) float64  { return p.tauDerivatives(tau)[1] }
func (p *IdealPower) DTau2(tau, delta float64) float64 { return p.tauDerivatives(tau)[2] }
func (p *IdealPower) DTau3(tau, delta float64) float64 { return p.tauDerivatives(tau)[3] }
func (p *IdealPower) All(tau, delta float64, d *Derivatives) {
	addTau(d, p.tauDerivatives(tau))
}

// ---- Planck-Einstein ----

// IdealPlanckEinstein is sum n_i*ln(c_i + d_i*exp(t_i*tau)).
type IdealPlanckEinstein struct {
	tauOnly
	N, T, C, D []float64
}

func NewIdealPlanckEinstein(n, t, c, d []float64) (*IdealPlanckEinstein, error) {
	if err := sameLength("Planck-Einstein", n, t, c, d); err != nil {
		return nil, err
	}
	return &IdealPlanckEinstein{N: n, T: t, C: c, D: d}, nil
}

func (p *IdealPlanckEinstein) Kind() string { return "IdealGasHelmholtzPlanckEinsteinGeneralized" }

func (p *IdealPlanckEinstein) tauDerivatives(tau float64) [4]float64 {
	var f [4]float64
	for i, n := range p.N {
		t, c, dd := p.T[i], p.C[i], p.D[i]
		e := math.Exp(t * tau)
		den := c + dd*e
		f[0] += n * math.Log(den)
		f[1] += n * t * dd * e / den
		f[2] += n * t * t * c * dd * e / (den * den)
		f[3] += n * t * t * t * c * dd * e * (c - dd*e) / (den * den * den)
	}
	return f
}

func (p *IdealPlanckEinstein) Base(tau, delta float64) float64  { return p.tauDerivatives(tau)[0] }
func (p *IdealPlanckEinstein) DTau(tau, delta float64) float64  { return p.tauDerivatives(tau)[1] }
func (p *IdealPlanckEinstein) DTau2(tau, delta float64) float64 { return p.tauDerivatives(tau)[2] }
func (p *IdealPlanckEinstein) DTau3(tau, delta float64) float64 { return p.tauDerivatives(tau)[3] }
func (p *IdealPlanckEinstein) All(tau, delta float64, d *Derivatives) {
	addTau(d, p.tauDerivatives(tau))
}

// ---- CP0 constant ----

// IdealCP0Constant integrates a constant cp0/R between T0 and T.
type IdealCP0Constant struct {
	tauOnly
	CpOverR float64
	Tc, T0  float64
}

func (c *IdealCP0Constant) Kind() string { return "IdealGasHelmholtzCP0Constant" }

func (c *IdealCP0Constant) tauDerivatives(tau float64) [4]float64 {
	cp, tau0 := c.CpOverR, c.Tc/c.T0
	return [4]float64{
		cp - cp*tau/tau0 + cp*math.Log(tau/tau0),
		cp/tau - cp/tau0,
		-cp / (tau * tau),
		2 * cp / (tau * tau * tau),
	}
}

func (c *IdealCP0Constant) Base(tau, delta float64) float64  { return c.tauDerivatives(tau)[0] }
func (c *IdealCP0Constant) DTau(tau, delta float64) float64  { return c.tauDerivatives(tau)[1] }
func (c *IdealCP0Constant) DTau2(tau, delta float64) float64 { return c.tauDerivatives(tau)[2] }
func (c *IdealCP0Constant) DTau3(tau, delta float64) float64 { return c.tauDerivatives(tau)[3] }
func (c *IdealCP0Constant) All(tau, delta float64, d *Derivatives) {
	addTau(d, c.tauDerivatives(tau))
}

// ---- CP0 polynomial ----

// IdealCP0PolyT integrates cp0/R = sum c_i*T^t_i between T0 and T.
type IdealCP0PolyT struct {
	tauOnly
	C, T   []float64
	Tc, T0 float64
}

func NewIdealCP0PolyT(c, t []float64, Tc, T0 float64) (*IdealCP0PolyT, error) {
	if err := sameLength("CP0 polynomial", c, t); err != nil {
		return nil, err
	}
	return &IdealCP0PolyT{C: c, T: t, Tc: Tc, T0: T0}, nil
}

func (p *IdealCP0PolyT) Kind() string { return "IdealGasCP0Poly" }

// tauDerivatives selects one of three antiderivatives per coefficient:
// exponent 0 gives a logarithm, exponent -1 gives tau*ln(tau), anything
// else a power law.
func (p *IdealCP0PolyT) tauDerivatives(tau float64) [4]float64 {
	var k [4]Kahan
	Tc, T0 := p.Tc, p.T0
	tau0 := Tc / T0
	for i, c := range p.C {
		t := p.T[i]
		switch {
		case math.Abs(t) < tolerance:
			k[0].Add(c - c*tau/tau0 + c*math.Log(tau/tau0))
			k[1].Add(c/tau - c/tau0)
			k[2].Add(-c / (tau * tau))
			k[3].Add(2 * c / (tau * tau * tau))
		case math.Abs(t+1) < tolerance:
			k[0].Add(c*tau/Tc*math.Log(tau0/tau) + c/Tc*(tau-tau0))
			k[1].Add(c / Tc * math.Log(tau0/tau))
			k[2].Add(-c / (tau * Tc))
			k[3].Add(c / (tau * tau * Tc))
		default:
			k[0].Add(-c*math.Pow(Tc, t)*math.Pow(tau, -t)/(t*(t+1)) -
				c*math.Pow(T0, t+1)*tau/(Tc*(t+1)) + c*math.Pow(T0, t)/t)
			k[1].Add(c*math.Pow(Tc, t)*math.Pow(tau, -t-1)/(t+1) -
				c*math.Pow(Tc, t)/(math.Pow(tau0, t+1)*(t+1)))
			k[2].Add(-c * math.Pow(Tc/tau, t) / (tau * tau))
			k[3].Add(c * math.Pow(Tc/tau, t) * (t + 2) / (tau * tau * tau))
		}
	}
	return [4]float64{k[0].Sum(), k[1].Sum(), k[2].Sum(), k[3].Sum()}
}

func (p *IdealCP0PolyT) Base(tau, delta float64) float64  { return p.tauDerivatives(tau)[0] }
func (p *IdealCP0PolyT) DTau(tau, delta float64) float64  { return p.tauDerivatives(tau)[1] }
func (p *IdealCP0PolyT) DTau2(tau, delta float64) float64 { return p.tauDerivatives(tau)[2] }
func (p *IdealCP0PolyT) DTau3(tau, delta float64) float64 { return p.tauDerivatives(tau)[3] }
func (p *IdealCP0PolyT) All(tau, delta float64, d *Derivatives) {
	addTau(d, p.tauDerivatives(tau))
}

// ---- CP0 Aly-Lee ----

// IdealCP0AlyLee integrates
//
//	cp0/R = c0 + c1*(c2/T / sinh(c2/T))^2 + c3*(c4/T / cosh(c4/T))^2
//
// between T0 and T. A zero value is disabled and contributes nothing.
type IdealCP0AlyLee struct {
	tauOnly
	C       [5]float64
	Tc, T0  float64
	Enabled bool
}

func NewIdealCP0AlyLee(c []float64, Tc, T0 float64) (*IdealCP0AlyLee, error) {
	if len(c) != 5 {
		return nil, fmt.Errorf("%w: Aly-Lee needs 5 coefficients, got %d", ErrInvalidParameter, len(c))
	}
	a := &IdealCP0AlyLee{Tc: Tc, T0: T0, Enabled: true}
	copy(a.C[:], c)
	return a, nil
}

func (a *IdealCP0AlyLee) Kind() string { return "IdealGasHelmholtzCP0AlyLee" }

// antiderivTau2 is the antiderivative of cp0/(R*tau^2) in tau.
func (a *IdealCP0AlyLee) antiderivTau2(tau float64) float64 {
	k, m := a.C[2]/a.Tc, a.C[4]/a.Tc
	return -a.C[0]/tau - a.C[1]*k/math.Tanh(k*tau) + a.C[3]*m*math.Tanh(m*tau)
}

// antiderivTau is the antiderivative of cp0/(R*tau) in tau.
func (a *IdealCP0AlyLee) antiderivTau(tau float64) float64 {
	k, m := a.C[2]/a.Tc, a.C[4]/a.Tc
	x, y := k*tau, m*tau
	return a.C[0]*math.Log(tau) +
		a.C[1]*(-x/math.Tanh(x)+math.Log(math.Sinh(x))) +
		a.C[3]*(y*math.Tanh(y)-math.Log(math.Cosh(y)))
}

func (a *IdealCP0AlyLee) tauDerivatives(tau float64) [4]float64 {
	if !a.Enabled {
		return [4]float64{}
	}
	tau0 := a.Tc / a.T0
	k, m := a.C[2]/a.Tc, a.C[4]/a.Tc
	sk, ck := math.Sinh(k*tau), math.Cosh(k*tau)
	sm, cm := math.Sinh(m*tau), math.Cosh(m*tau)
	a2 := a.antiderivTau2(tau) - a.antiderivTau2(tau0)
	a1 := a.antiderivTau(tau) - a.antiderivTau(tau0)
	return [4]float64{
		-tau*a2 + a1,
		-a2,
		-a.C[0]/(tau*tau) - a.C[1]*(k/sk)*(k/sk) - a.C[3]*(m/cm)*(m/cm),
		2*a.C[0]/(tau*tau*tau) + 2*a.C[1]*k*k*k*ck/(sk*sk*sk) + 2*a.C[3]*m*m*m*sm/(cm*cm*cm),
	}
}

func (a *IdealCP0AlyLee) Base(tau, delta float64) float64  { return a.tauDerivatives(tau)[0] }
func (a *IdealCP0AlyLee) DTau(tau, delta float64) float64  { return a.tauDerivatives(tau)[1] }
func (a *IdealCP0AlyLee) DTau2(tau, delta float64) float64 { return a.tauDerivatives(tau)[2] }
func (a *IdealCP0AlyLee) DTau3(tau, delta float64) float64 { return a.tauDerivatives(tau)[3] }
func (a *IdealCP0AlyLee) All(tau, delta float64, d *Derivatives) {
	addTau(d, a.tauDerivatives(tau))
}
