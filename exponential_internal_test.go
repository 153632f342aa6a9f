package helmholtz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBFactors_PlainPower(t *testing.T) {
	for _, p := range []float64{0, 1, 2.5, -0.75} {
		b1, b2, b3 := bFactors(p, 0.7, 0, 0, 0)
		assert.Equal(t, p, b1)
		assert.Equal(t, p*(p-1), b2)
		assert.InDelta(t, p*(p-1)*(p-2), b3, 1e-15)
	}
}

func TestBFactors_Exponential(t *testing.T) {
	// x^p*exp(-x): u' = -1, u'' = u''' = 0.
	p, x := 2.0, 0.7
	f := func(x float64) float64 { return math.Pow(x, p) * math.Exp(-x) }
	b1, b2, b3 := bFactors(p, x, -1, 0, 0)
	d1 := (p*math.Pow(x, p-1) - math.Pow(x, p)) * math.Exp(-x)
	assert.InEpsilon(t, d1, f(x)*b1/x, 1e-14)
	d2 := (p*(p-1)*math.Pow(x, p-2) - 2*p*math.Pow(x, p-1) + math.Pow(x, p)) * math.Exp(-x)
	assert.InEpsilon(t, d2, f(x)*b2/(x*x), 1e-14)
	d3 := (p*(p-1)*(p-2)*math.Pow(x, p-3) - 3*p*(p-1)*math.Pow(x, p-2) + 3*p*math.Pow(x, p-1) - math.Pow(x, p)) * math.Exp(-x)
	assert.InEpsilon(t, d3, f(x)*b3/(x*x*x), 1e-13)
}

func TestProduct_DeltaTimesTau(t *testing.T) {
	tau, delta := 1.3, 0.7
	got := product(deltaVariable(delta), Derivatives{Value: tau, DTau: 1})
	assert.Equal(t, Derivatives{Value: delta * tau, DTau: delta, DDelta: tau, DDeltaDTau: 1}, got)
}

func TestCompose_Exp(t *testing.T) {
	// exp(delta*tau): every partial is a polynomial in delta and tau times e.
	tau, delta := 1.3, 0.7
	w := product(deltaVariable(delta), Derivatives{Value: tau, DTau: 1})
	e := math.Exp(w.Value)
	got := compose([4]float64{e, e, e, e}, w)

	assert.InEpsilon(t, e, got.Value, 1e-15)
	assert.InEpsilon(t, delta*e, got.DTau, 1e-15)
	assert.InEpsilon(t, tau*tau*e, got.DDelta2, 1e-15)
	assert.InEpsilon(t, (1+delta*tau)*e, got.DDeltaDTau, 1e-15)
	assert.InEpsilon(t, delta*delta*delta*e, got.DTau3, 1e-15)
	assert.InEpsilon(t, (2*tau+delta*tau*tau)*e, got.DDelta2DTau, 1e-14)
	assert.InEpsilon(t, (2*delta+delta*delta*tau)*e, got.DDeltaDTau2, 1e-14)
}

func TestResolve_OnlyConfiguredModifiers(t *testing.T) {
	g := NewGeneralizedExponential()
	assert.Empty(t, g.mods)
	assert.NoError(t, g.AddGaussian([]float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}))
	assert.Len(t, g.mods, 2)
	assert.NoError(t, g.AddPower([]float64{1}, []float64{1}, []float64{1}, []float64{1}))
	assert.Len(t, g.mods, 3)
}
