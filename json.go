package helmholtz

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON describes t as a JSON object carrying a "type" tag.
func ToJSON(t Term) ([]byte, error) {
	return json.Marshal(t)
}

// FromJSON rebuilds a term from the output of ToJSON. Builder tags such
// as ResidualHelmholtzPower or ResidualHelmholtzGaussian are accepted as
// well and produce a generalized-exponential term.
func FromJSON(data []byte) (Term, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return FromMap(m)
}

// nullable writes non-finite values as JSON null.
func nullable(xs []float64) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		if validNumber(x) {
			out[i] = x
		}
	}
	return out
}

// built drops t when construction failed, so a nil pointer never
// escapes inside a non-nil Term.
func built[T Term](t T, err error) (Term, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func (g *GeneralizedExponential) MarshalJSON() ([]byte, error) {
	col := func(f func(el *ExponentialElement) float64) []interface{} {
		xs := make([]float64, len(g.elements))
		for i := range g.elements {
			xs[i] = f(&g.elements[i])
		}
		return nullable(xs)
	}
	return json.Marshal(map[string]interface{}{
		"type":     g.Kind(),
		"n":        col(func(el *ExponentialElement) float64 { return el.N }),
		"d":        col(func(el *ExponentialElement) float64 { return el.D }),
		"t":        col(func(el *ExponentialElement) float64 { return el.T }),
		"l":        col(func(el *ExponentialElement) float64 { return el.LDouble }),
		"c":        col(func(el *ExponentialElement) float64 { return el.C }),
		"m":        col(func(el *ExponentialElement) float64 { return el.MDouble }),
		"omega":    col(func(el *ExponentialElement) float64 { return el.Omega }),
		"eta1":     col(func(el *ExponentialElement) float64 { return el.Eta1 }),
		"epsilon1": col(func(el *ExponentialElement) float64 { return el.Epsilon1 }),
		"eta2":     col(func(el *ExponentialElement) float64 { return el.Eta2 }),
		"epsilon2": col(func(el *ExponentialElement) float64 { return el.Epsilon2 }),
		"beta1":    col(func(el *ExponentialElement) float64 { return el.Beta1 }),
		"gamma1":   col(func(el *ExponentialElement) float64 { return el.Gamma1 }),
		"beta2":    col(func(el *ExponentialElement) float64 { return el.Beta2 }),
		"gamma2":   col(func(el *ExponentialElement) float64 { return el.Gamma2 }),
	})
}

func (na *NonAnalytic) MarshalJSON() ([]byte, error) {
	col := func(f func(el NonAnalyticElement) float64) []interface{} {
		xs := make([]float64, len(na.Elements))
		for i, el := range na.Elements {
			xs[i] = f(el)
		}
		return nullable(xs)
	}
	return json.Marshal(map[string]interface{}{
		"type": na.Kind(),
		"n":    col(func(el NonAnalyticElement) float64 { return el.N }),
		"a":    col(func(el NonAnalyticElement) float64 { return el.SmallA }),
		"b":    col(func(el NonAnalyticElement) float64 { return el.SmallB }),
		"beta": col(func(el NonAnalyticElement) float64 { return el.Beta }),
		"A":    col(func(el NonAnalyticElement) float64 { return el.A }),
		"B":    col(func(el NonAnalyticElement) float64 { return el.B }),
		"C":    col(func(el NonAnalyticElement) float64 { return el.C }),
		"D":    col(func(el NonAnalyticElement) float64 { return el.D }),
	})
}

func (s *SAFTAssociating) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":       s.Kind(),
		"a":          s.A,
		"m":          s.M,
		"epsilonbar": s.EpsilonBar,
		"vbarn":      s.VBarN,
		"kappabar":   s.KappaBar,
		"disabled":   s.Disabled,
	})
}

func (l *IdealLead) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{"type": l.Kind(), "a1": l.A1, "a2": l.A2})
}

func (l *IdealLogTau) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{"type": l.Kind(), "a1": l.A1})
}

func (p *IdealPower) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{"type": p.Kind(), "n": nullable(p.N), "t": nullable(p.T)})
}

func (p *IdealPlanckEinstein) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": p.Kind(),
		"n":    nullable(p.N),
		"t":    nullable(p.T),
		"c":    nullable(p.C),
		"d":    nullable(p.D),
	})
}

func (c *IdealCP0Constant) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": c.Kind(), "cp_over_R": c.CpOverR, "Tc": c.Tc, "T0": c.T0,
	})
}

func (p *IdealCP0PolyT) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": p.Kind(), "c": nullable(p.C), "t": nullable(p.T), "Tc": p.Tc, "T0": p.T0,
	})
}

func (a *IdealCP0AlyLee) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": a.Kind(), "c": nullable(a.C[:]), "Tc": a.Tc, "T0": a.T0, "enabled": a.Enabled,
	})
}

func (ts Terms) MarshalJSON() ([]byte, error) {
	members := make([]json.RawMessage, len(ts))
	for i, t := range ts {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		members[i] = b
	}
	return json.Marshal(map[string]interface{}{"type": ts.Kind(), "terms": members})
}

// FromMap rebuilds a term from a decoded JSON or YAML object.
func FromMap(data map[string]interface{}) (Term, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: term must be an object", ErrInvalidParameter)
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing 'type' field", ErrInvalidParameter)
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrInvalidParameter)
	}

	subFloat := func(field string) (float64, error) {
		v, ok := data[field]
		if !ok {
			return 0, fmt.Errorf("%w: %s: missing %q", ErrInvalidParameter, typ, field)
		}
		x, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("%w: %s: %q must be a number", ErrInvalidParameter, typ, field)
		}
		return x, nil
	}

	subFloats := func(field string) ([]float64, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing %q", ErrInvalidParameter, typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an array", ErrInvalidParameter, typ, field)
		}
		out := make([]float64, len(raw))
		for i, it := range raw {
			x, ok := toFloat(it)
			if !ok {
				return nil, fmt.Errorf("%w: %s: %q[%d] must be a number or null", ErrInvalidParameter, typ, field, i)
			}
			out[i] = x
		}
		return out, nil
	}

	// optFloats fills a missing column with NaN.
	optFloats := func(field string, n int) ([]float64, error) {
		if _, ok := data[field]; !ok {
			out := make([]float64, n)
			for i := range out {
				out[i] = math.NaN()
			}
			return out, nil
		}
		return subFloats(field)
	}

	subBool := func(field string, def bool) (bool, error) {
		v, ok := data[field]
		if !ok {
			return def, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("%w: %s: %q must be a boolean", ErrInvalidParameter, typ, field)
		}
		return b, nil
	}

	floatsOf := func(fields ...string) ([][]float64, error) {
		out := make([][]float64, len(fields))
		for i, f := range fields {
			xs, err := subFloats(f)
			if err != nil {
				return nil, err
			}
			out[i] = xs
		}
		return out, nil
	}

	floatOf := func(fields ...string) ([]float64, error) {
		out := make([]float64, len(fields))
		for i, f := range fields {
			x, err := subFloat(f)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	}

	switch typ {
	case "Terms":
		v, ok := data["terms"]
		if !ok {
			return nil, fmt.Errorf("%w: Terms: missing \"terms\"", ErrInvalidParameter)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: Terms: \"terms\" must be an array", ErrInvalidParameter)
		}
		ts := make(Terms, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: Terms: terms[%d] must be an object", ErrInvalidParameter, i)
			}
			t, err := FromMap(m)
			if err != nil {
				return nil, fmt.Errorf("Terms: terms[%d]: %w", i, err)
			}
			ts[i] = t
		}
		return ts, nil

	case "ResidualHelmholtzGeneralizedExponential":
		cols, err := floatsOf("n", "d", "t")
		if err != nil {
			return nil, err
		}
		n := len(cols[0])
		names := []string{"l", "c", "m", "omega", "eta1", "epsilon1", "eta2", "epsilon2",
			"beta1", "gamma1", "beta2", "gamma2"}
		for _, name := range names {
			xs, err := optFloats(name, n)
			if err != nil {
				return nil, err
			}
			cols = append(cols, xs)
		}
		if err := sameLength(typ, cols...); err != nil {
			return nil, err
		}
		els := make([]ExponentialElement, n)
		for i := range els {
			el := ExponentialElement{
				N: cols[0][i], D: cols[1][i], T: cols[2][i],
				LDouble: cols[3][i], C: cols[4][i],
				MDouble: cols[5][i], Omega: cols[6][i],
				Eta1: cols[7][i], Epsilon1: cols[8][i],
				Eta2: cols[9][i], Epsilon2: cols[10][i],
				Beta1: cols[11][i], Gamma1: cols[12][i],
				Beta2: cols[13][i], Gamma2: cols[14][i],
			}
			if validNumber(el.LDouble) {
				el.LInt = int(el.LDouble)
			}
			els[i] = el
		}
		g := NewGeneralizedExponential()
		g.AddElements(els...)
		return g, nil

	case "ResidualHelmholtzPower":
		c, err := floatsOf("n", "d", "t", "l")
		if err != nil {
			return nil, err
		}
		g := NewGeneralizedExponential()
		return built(g, g.AddPower(c[0], c[1], c[2], c[3]))

	case "ResidualHelmholtzExponential":
		c, err := floatsOf("n", "d", "t", "g", "l")
		if err != nil {
			return nil, err
		}
		g := NewGeneralizedExponential()
		return built(g, g.AddExponential(c[0], c[1], c[2], c[3], c[4]))

	case "ResidualHelmholtzLemmon2005":
		c, err := floatsOf("n", "d", "t", "l", "m")
		if err != nil {
			return nil, err
		}
		g := NewGeneralizedExponential()
		return built(g, g.AddLemmon2005(c[0], c[1], c[2], c[3], c[4]))

	case "ResidualHelmholtzGaussian", "ResidualHelmholtzGERG2008Gaussian":
		c, err := floatsOf("n", "d", "t", "eta", "epsilon", "beta", "gamma")
		if err != nil {
			return nil, err
		}
		g := NewGeneralizedExponential()
		if typ == "ResidualHelmholtzGaussian" {
			err = g.AddGaussian(c[0], c[1], c[2], c[3], c[4], c[5], c[6])
		} else {
			err = g.AddGERG2008Gaussian(c[0], c[1], c[2], c[3], c[4], c[5], c[6])
		}
		if err != nil {
			return nil, err
		}
		return g, nil

	case "ResidualHelmholtzNonAnalytic":
		c, err := floatsOf("n", "a", "b", "beta", "A", "B", "C", "D")
		if err != nil {
			return nil, err
		}
		return built(NewNonAnalytic(c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7]))

	case "ResidualHelmholtzSAFTAssociating":
		p, err := floatOf("a", "m", "epsilonbar", "vbarn", "kappabar")
		if err != nil {
			return nil, err
		}
		s := NewSAFTAssociating(p[0], p[1], p[2], p[3], p[4])
		if s.Disabled, err = subBool("disabled", false); err != nil {
			return nil, err
		}
		return s, nil

	case "IdealGasHelmholtzLead":
		p, err := floatOf("a1", "a2")
		if err != nil {
			return nil, err
		}
		return &IdealLead{A1: p[0], A2: p[1]}, nil

	case "IdealGasHelmholtzLogTau":
		a1, err := subFloat("a1")
		if err != nil {
			return nil, err
		}
		return &IdealLogTau{A1: a1}, nil

	case "IdealGasHelmholtzPower":
		c, err := floatsOf("n", "t")
		if err != nil {
			return nil, err
		}
		return built(NewIdealPower(c[0], c[1]))

	case "IdealGasHelmholtzPlanckEinsteinGeneralized":
		c, err := floatsOf("n", "t", "c", "d")
		if err != nil {
			return nil, err
		}
		return built(NewIdealPlanckEinstein(c[0], c[1], c[2], c[3]))

	case "IdealGasHelmholtzCP0Constant":
		p, err := floatOf("cp_over_R", "Tc", "T0")
		if err != nil {
			return nil, err
		}
		return &IdealCP0Constant{CpOverR: p[0], Tc: p[1], T0: p[2]}, nil

	case "IdealGasCP0Poly":
		c, err := floatsOf("c", "t")
		if err != nil {
			return nil, err
		}
		p, err := floatOf("Tc", "T0")
		if err != nil {
			return nil, err
		}
		return built(NewIdealCP0PolyT(c[0], c[1], p[0], p[1]))

	case "IdealGasHelmholtzCP0AlyLee":
		c, err := subFloats("c")
		if err != nil {
			return nil, err
		}
		p, err := floatOf("Tc", "T0")
		if err != nil {
			return nil, err
		}
		a, err := NewIdealCP0AlyLee(c, p[0], p[1])
		if err != nil {
			return nil, err
		}
		if a.Enabled, err = subBool("enabled", true); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTerm, typ)
}
