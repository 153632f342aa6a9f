package helmholtz_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

// ============================================================
// JSON round trip
// ============================================================

func assertSameDerivatives(t *testing.T, want, got helmholtz.Derivatives, msg string) {
	t.Helper()
	for _, k := range append([]helmholtz.DerivativeKind{helmholtz.KindBase}, helmholtz.DerivativeKinds...) {
		w := want.Get(k)
		assert.InDeltaf(t, w, got.Get(k), 1e-14*math.Max(1, math.Abs(w)), "%s %s", msg, k)
	}
}

func TestJSON_RoundTripEveryTerm(t *testing.T) {
	for name, term := range fixtureTerms(t) {
		data, err := helmholtz.ToJSON(term)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), `"type":"`+term.Kind()+`"`, name)

		back, err := helmholtz.FromJSON(data)
		require.NoError(t, err, name)
		assert.Equal(t, term.Kind(), back.Kind(), name)
		assertSameDerivatives(t,
			helmholtz.Evaluate(term, testTau, testDelta),
			helmholtz.Evaluate(back, testTau, testDelta), name)

		again, err := helmholtz.ToJSON(back)
		require.NoError(t, err, name)
		assert.JSONEq(t, string(data), string(again), name)
	}
}

func TestJSON_TermsNested(t *testing.T) {
	terms := fixtureTerms(t)
	all := helmholtz.Terms{terms["Lead"], helmholtz.Terms{terms["SAFT"], terms["NonAnalytic"]}}
	data, err := helmholtz.ToJSON(all)
	require.NoError(t, err)

	back, err := helmholtz.FromJSON(data)
	require.NoError(t, err)
	ts, ok := back.(helmholtz.Terms)
	require.True(t, ok)
	require.Len(t, ts, 2)
	assert.Equal(t, "Terms", ts[1].Kind())
	assertSameDerivatives(t, all.Evaluate(testTau, testDelta), ts.Evaluate(testTau, testDelta), "nested")
}

func TestJSON_UnconfiguredModifiersAreNull(t *testing.T) {
	g := helmholtz.NewGeneralizedExponential()
	require.NoError(t, g.AddPower([]float64{1.2198}, []float64{1}, []float64{1}, []float64{0}))
	data, err := helmholtz.ToJSON(g)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, []interface{}{nil}, m["omega"])
	assert.Equal(t, []interface{}{1.2198}, m["n"])
}

func TestJSON_DisabledFlagsSurvive(t *testing.T) {
	saft := helmholtz.NewSAFTAssociating(1, 2, 12, 0.04, 1e-5)
	saft.Disable()
	data, err := helmholtz.ToJSON(saft)
	require.NoError(t, err)
	back, err := helmholtz.FromJSON(data)
	require.NoError(t, err)
	assert.True(t, back.(*helmholtz.SAFTAssociating).Disabled)

	aly := &helmholtz.IdealCP0AlyLee{C: [5]float64{3, 5, 1200, 2.5, 550}, Tc: 400, T0: 298.15}
	data, err = helmholtz.ToJSON(aly)
	require.NoError(t, err)
	back, err = helmholtz.FromJSON(data)
	require.NoError(t, err)
	assert.False(t, back.(*helmholtz.IdealCP0AlyLee).Enabled)
}

// ============================================================
// Builder records
// ============================================================

func TestFromJSON_BuilderRecords(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"power", `{"type":"ResidualHelmholtzPower","n":[2],"d":[1],"t":[1],"l":[0]}`,
			2 * testDelta * testTau},
		{"power with exponential", `{"type":"ResidualHelmholtzPower","n":[2],"d":[1],"t":[1],"l":[1]}`,
			2 * testDelta * testTau * math.Exp(-testDelta)},
		{"exponential", `{"type":"ResidualHelmholtzExponential","n":[2],"d":[1],"t":[1],"g":[0.5],"l":[2]}`,
			2 * testDelta * testTau * math.Exp(-0.5*testDelta*testDelta)},
		{"lemmon", `{"type":"ResidualHelmholtzLemmon2005","n":[2],"d":[1],"t":[1],"l":[1],"m":[2]}`,
			2 * testDelta * testTau * math.Exp(-testDelta-testTau*testTau)},
		{"gaussian", `{"type":"ResidualHelmholtzGaussian","n":[2],"d":[1],"t":[1],"eta":[1],"epsilon":[1],"beta":[1],"gamma":[1]}`,
			2 * testDelta * testTau * math.Exp(-(testDelta-1)*(testDelta-1)-(testTau-1)*(testTau-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := helmholtz.FromJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, "ResidualHelmholtzGeneralizedExponential", term.Kind())
			assert.InEpsilon(t, tt.want, term.Base(testTau, testDelta), 1e-14)
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := helmholtz.FromJSON([]byte(`{"type":"ResidualHelmholtzXYZ"}`))
	assert.ErrorIs(t, err, helmholtz.ErrUnknownTerm)
	assert.True(t, strings.Contains(err.Error(), "ResidualHelmholtzXYZ"))

	_, err = helmholtz.FromJSON([]byte(`{"type":"ResidualHelmholtzPower","n":[1,2],"d":[1],"t":[1],"l":[0]}`))
	assert.ErrorIs(t, err, helmholtz.ErrLengthMismatch)

	_, err = helmholtz.FromJSON([]byte(`{"type":"ResidualHelmholtzNonAnalytic","n":[1],"a":[1],"b":[1],"beta":[1],"A":[1],"B":[1],"C":[1],"D":[1,2]}`))
	assert.ErrorIs(t, err, helmholtz.ErrLengthMismatch)

	for _, bad := range []string{
		`not json`,
		`{"n":[1]}`,
		`{"type":""}`,
		`{"type":"IdealGasHelmholtzLead","a1":1}`,
		`{"type":"IdealGasHelmholtzLead","a1":"x","a2":1}`,
		`{"type":"IdealGasHelmholtzPower","n":1,"t":[1]}`,
		`{"type":"IdealGasHelmholtzCP0AlyLee","c":[1,2],"Tc":1,"T0":1}`,
		`{"type":"ResidualHelmholtzSAFTAssociating","a":1,"m":1,"epsilonbar":1,"vbarn":1,"kappabar":1,"disabled":"yes"}`,
		`{"type":"Terms","terms":[{"type":"IdealGasHelmholtzLogTau"}]}`,
	} {
		_, err := helmholtz.FromJSON([]byte(bad))
		assert.ErrorIsf(t, err, helmholtz.ErrInvalidParameter, "%s", bad)
	}
}

func TestFromMap_Nil(t *testing.T) {
	_, err := helmholtz.FromMap(nil)
	assert.ErrorIs(t, err, helmholtz.ErrInvalidParameter)
}
