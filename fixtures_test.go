package helmholtz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

const (
	testTau   = 1.3
	testDelta = 0.7
)

// fixtureSteps widens the difference step where the lower derivative
// dwarfs the checked one. For Exponential, dTau is about -2.8 against a
// dDelta_dTau of 0.016, so roundoff at h=1e-7 reaches 2e-6 relative.
var fixtureSteps = map[string]float64{"Exponential": 1e-6}

func fixtureStep(name string) float64 {
	if h, ok := fixtureSteps[name]; ok {
		return h
	}
	return helmholtz.DefaultCheckOptions().Step
}

// fixtureTerms returns one configured instance of every term kind, keyed
// by a descriptive name.
func fixtureTerms(t *testing.T) map[string]helmholtz.Term {
	t.Helper()
	out := map[string]helmholtz.Term{}

	gaussian := helmholtz.NewGeneralizedExponential()
	require.NoError(t, gaussian.AddGaussian(
		[]float64{1.2198, -0.4883, -0.0033293, -0.0035387, -0.51172, -0.16882},
		[]float64{1, 1, 2, 2, 3, 3},
		[]float64{1, 2.124, 0.4, 3.5, 0.5, 2.7},
		[]float64{0.9667, 1.5154, 1.0591, 1.6642, 12.4856, 0.9662},
		[]float64{0.6734, 0.9239, 0.8636, 1.0507, 0.8482, 0.7522},
		[]float64{1.24, 0.821, 15.45, 2.21, 437, 0.743},
		[]float64{1.2827, 0.4317, 1.1217, 1.1871, 1.1243, 0.4203},
	))
	out["Gaussian"] = gaussian

	lemmon := helmholtz.NewGeneralizedExponential()
	require.NoError(t, lemmon.AddLemmon2005(
		[]float64{5.28076, -8.67658, 0.7501127, 0.7590023, 0.01451899, 4.777189, -3.330988, 3.775673, -2.290919, 0.8888268, -0.6234864, -0.04127263, -0.08455389, -0.1308752, 0.008344962, -1.532005, -0.05883649, 0.02296658},
		[]float64{1, 1, 1, 2, 4, 1, 1, 2, 2, 3, 4, 5, 1, 5, 1, 2, 3, 5},
		[]float64{0.669, 1.05, 2.75, 0.956, 1, 2, 2.75, 2.38, 3.37, 3.47, 2.63, 3.45, 0.72, 4.23, 0.2, 4.5, 29, 24},
		[]float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 2, 2, 3, 2, 3, 3},
		[]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1.7, 7, 6},
	))
	out["Lemmon2005"] = lemmon

	power := helmholtz.NewGeneralizedExponential()
	require.NoError(t, power.AddPower(
		[]float64{1.0038, -2.7662, 0.42921, 0.081363, 0.00024174, 0.48246, 0.75542, -0.00743, -0.4146, -0.016558, -0.10644, -0.021704},
		[]float64{1, 1, 1, 3, 7, 1, 2, 5, 1, 1, 4, 2},
		[]float64{0.25, 1.25, 1.5, 0.25, 0.875, 2.375, 2, 2.125, 3.5, 6.5, 4.75, 12.5},
		[]float64{0, 0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 3},
	))
	out["Power"] = power

	exponential := helmholtz.NewGeneralizedExponential()
	g := 1.65533788
	require.NoError(t, exponential.AddExponential(
		[]float64{-3.821884669859, 8.30345065618981, -4.4832307260286, -1.02590136933231, 2.20786016506394, -1.07889905203761},
		[]float64{2, 2, 2, 0, 0, 0},
		[]float64{3, 4, 5, 3, 4, 5},
		[]float64{g, g, g, g, g, g},
		[]float64{2, 2, 2, 2, 2, 2},
	))
	out["Exponential"] = exponential

	gerg := helmholtz.NewGeneralizedExponential()
	require.NoError(t, gerg.AddGERG2008Gaussian(
		[]float64{-0.0098038985517335, 0.00042487270143005, -0.034800214576142, -0.13333813013896, -0.011993694974627, 0.069243379775168, -0.31022508148249, 0.24495491753226, 0.22369816716981},
		[]float64{1, 4, 1, 2, 2, 2, 2, 2, 3},
		[]float64{0, 1.85, 7.85, 5.4, 0, 0.75, 2.8, 4.45, 4.25},
		[]float64{0, 0, 1, 1, 0.25, 0, 0, 0, 0},
		[]float64{0, 0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		[]float64{0, 0, 1, 1, 2.5, 3, 3, 3, 3},
		[]float64{0, 0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	))
	out["GERG2008"] = gerg

	na, err := helmholtz.NewNonAnalytic(
		[]float64{-0.666422765408, 0.726086323499, 0.0550686686128},
		[]float64{3.5, 3.5, 3},
		[]float64{0.875, 0.925, 0.875},
		[]float64{0.3, 0.3, 0.3},
		[]float64{0.7, 0.7, 0.7},
		[]float64{0.3, 0.3, 1},
		[]float64{10, 10, 12.5},
		[]float64{275, 275, 275},
	)
	require.NoError(t, err)
	out["NonAnalytic"] = na

	out["SAFT"] = helmholtz.NewSAFTAssociating(1, 1.01871348, 12.2735737, 0.0444215309, 1.09117041e-05)

	out["Lead"] = &helmholtz.IdealLead{A1: 1, A2: 3}
	out["LogTau"] = &helmholtz.IdealLogTau{A1: 1.5}

	igPower, err := helmholtz.NewIdealPower([]float64{-0.1, 0, 0.1, 0}, []float64{1, -1, -2, 2})
	require.NoError(t, err)
	out["IGPower"] = igPower

	pe, err := helmholtz.NewIdealPlanckEinstein(
		[]float64{0.1, 0, 0.5, 0},
		[]float64{-1.5, -1, -2, -2},
		[]float64{1, 1, 1, 1},
		[]float64{-1, -1, -1, -1},
	)
	require.NoError(t, err)
	out["PlanckEinstein"] = pe

	out["CP0Constant"] = &helmholtz.IdealCP0Constant{CpOverR: 4 / 8.314472, Tc: 300, T0: 250}

	poly, err := helmholtz.NewIdealCP0PolyT([]float64{1.0578}, []float64{0.33}, 345.857, 273.15)
	require.NoError(t, err)
	out["CP0PolyT"] = poly

	polyLog, err := helmholtz.NewIdealCP0PolyT([]float64{2.5, 0.01, 300}, []float64{0, 1, -1}, 345.857, 273.15)
	require.NoError(t, err)
	out["CP0PolyTBranches"] = polyLog

	aly, err := helmholtz.NewIdealCP0AlyLee([]float64{3, 5, 1200, 2.5, 550}, 400, 298.15)
	require.NoError(t, err)
	out["AlyLee"] = aly

	return out
}
