package helmholtz_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

func saftFixture() *helmholtz.SAFTAssociating {
	return helmholtz.NewSAFTAssociating(1, 1.01871348, 12.2735737, 0.0444215309, 1.09117041e-05)
}

func TestSAFT_SiteFractionIsRoot(t *testing.T) {
	s := saftFixture()
	for _, delta := range []float64{0.1, testDelta, 1.5} {
		db := s.Deltabar(testTau, delta)
		x := s.X(delta, db)
		w := delta * db
		assert.InDelta(t, 0, w*x*x+x-1, 1e-13)
		assert.InDelta(t, x, s.SiteFraction(testTau, delta).Value, 1e-15)
		assert.True(t, x > 0 && x <= 1)
	}
}

func TestSAFT_Deltabar(t *testing.T) {
	s := saftFixture()
	eta := 0.0444215309 * testDelta
	g := 0.5 * (2 - eta) / math.Pow(1-eta, 3)
	want := g * (math.Exp(12.2735737*testTau) - 1) * 1.09117041e-05
	assert.InEpsilon(t, want, s.Deltabar(testTau, testDelta), 1e-14)
}

func TestSAFT_Value(t *testing.T) {
	s := saftFixture()
	x := s.X(testDelta, s.Deltabar(testTau, testDelta))
	want := 1.01871348 * (math.Log(x) - x/2 + 0.5)
	assert.InEpsilon(t, want, s.Base(testTau, testDelta), 1e-13)
}

func TestSAFT_ZeroStrength(t *testing.T) {
	// kappabar = 0 leaves every site free: X = 1 and the term vanishes.
	s := helmholtz.NewSAFTAssociating(1, 2, 12, 0.04, 0)
	assert.Equal(t, 1.0, s.SiteFraction(testTau, testDelta).Value)
	d := helmholtz.Evaluate(s, testTau, testDelta)
	assert.InDelta(t, 0, d.Value, 1e-16)
	assert.InDelta(t, 0, d.DDelta, 1e-16)
	assert.InDelta(t, 0, d.DTau3, 1e-16)
}

func TestSAFT_Disable(t *testing.T) {
	s := saftFixture()
	assert.NotZero(t, s.Base(testTau, testDelta))
	s.Disable()
	assert.True(t, s.Disabled)
	assert.Equal(t, helmholtz.Derivatives{}, helmholtz.Evaluate(s, testTau, testDelta))
}
