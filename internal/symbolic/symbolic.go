// Package symbolic is a small float64 expression kernel with symbolic
// differentiation. It exists to produce reference derivatives by tree
// differentiation, independent of the closed forms in package helmholtz.
package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	String() string
	Diff(varName string) Expr
	Eval(env map[string]float64) (float64, error)
}

// ============================================================
// Constant
// ============================================================

type Constant struct{ val float64 }

func Num(v float64) Expr { return &Constant{val: v} }

func (c *Constant) Value() float64                           { return c.val }
func (c *Constant) Diff(string) Expr                         { return Num(0) }
func (c *Constant) Eval(map[string]float64) (float64, error) { return c.val, nil }
func (c *Constant) String() string                           { return strconv.FormatFloat(c.val, 'g', -1, 64) }

func isConst(e Expr, v float64) bool {
	c, ok := e.(*Constant)
	return ok && c.val == v
}

// ============================================================
// Symbol
// ============================================================

type Symbol struct{ name string }

func Sym(name string) Expr { return &Symbol{name: name} }

func (s *Symbol) Name() string   { return s.name }
func (s *Symbol) String() string { return s.name }
func (s *Symbol) Diff(varName string) Expr {
	if s.name == varName {
		return Num(1)
	}
	return Num(0)
}
func (s *Symbol) Eval(env map[string]float64) (float64, error) {
	v, ok := env[s.name]
	if !ok {
		return 0, fmt.Errorf("symbolic: unbound symbol %q", s.name)
	}
	return v, nil
}

// ============================================================
// Sum
// ============================================================

type Sum struct{ terms []Expr }

// Add flattens nested sums, folds constants and drops zeros.
func Add(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	acc := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case *Sum:
			for _, st := range v.terms {
				if c, ok := st.(*Constant); ok {
					acc += c.val
					continue
				}
				flat = append(flat, st)
			}
		case *Constant:
			acc += v.val
		default:
			flat = append(flat, t)
		}
	}
	if acc != 0 {
		flat = append(flat, Num(acc))
	}
	switch len(flat) {
	case 0:
		return Num(0)
	case 1:
		return flat[0]
	}
	return &Sum{terms: flat}
}

func Neg(e Expr) Expr    { return Mul(Num(-1), e) }
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

func (s *Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

func (s *Sum) Diff(varName string) Expr {
	d := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		d[i] = t.Diff(varName)
	}
	return Add(d...)
}

func (s *Sum) Eval(env map[string]float64) (float64, error) {
	acc := 0.0
	for _, t := range s.terms {
		v, err := t.Eval(env)
		if err != nil {
			return 0, err
		}
		acc += v
	}
	return acc, nil
}

// ============================================================
// Product
// ============================================================

type Product struct{ factors []Expr }

// Mul flattens nested products, folds constants and collapses on zero.
func Mul(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	coeff := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case *Product:
			for _, pf := range v.factors {
				if c, ok := pf.(*Constant); ok {
					coeff *= c.val
					continue
				}
				flat = append(flat, pf)
			}
		case *Constant:
			coeff *= v.val
		default:
			flat = append(flat, f)
		}
	}
	if coeff == 0 {
		return Num(0)
	}
	if coeff != 1 {
		flat = append([]Expr{Num(coeff)}, flat...)
	}
	switch len(flat) {
	case 0:
		return Num(1)
	case 1:
		return flat[0]
	}
	return &Product{factors: flat}
}

func Div(a, b Expr) Expr { return Mul(a, Pow(b, Num(-1))) }

func (p *Product) String() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = f.String()
	}
	return strings.Join(parts, "*")
}

// Diff applies the product rule over all factors.
func (p *Product) Diff(varName string) Expr {
	terms := make([]Expr, 0, len(p.factors))
	for i := range p.factors {
		df := p.factors[i].Diff(varName)
		if isConst(df, 0) {
			continue
		}
		fs := make([]Expr, len(p.factors))
		copy(fs, p.factors)
		fs[i] = df
		terms = append(terms, Mul(fs...))
	}
	return Add(terms...)
}

func (p *Product) Eval(env map[string]float64) (float64, error) {
	acc := 1.0
	for _, f := range p.factors {
		v, err := f.Eval(env)
		if err != nil {
			return 0, err
		}
		acc *= v
	}
	return acc, nil
}

// ============================================================
// Power
// ============================================================

type Power struct{ base, exp Expr }

func Pow(base, exp Expr) Expr {
	if isConst(exp, 0) {
		return Num(1)
	}
	if isConst(exp, 1) {
		return base
	}
	if b, ok := base.(*Constant); ok {
		if e, ok := exp.(*Constant); ok {
			return Num(math.Pow(b.val, e.val))
		}
	}
	return &Power{base: base, exp: exp}
}

func Sqrt(e Expr) Expr { return Pow(e, Num(0.5)) }

func (p *Power) String() string { return "(" + p.base.String() + ")^(" + p.exp.String() + ")" }

func (p *Power) Diff(varName string) Expr {
	db := p.base.Diff(varName)
	de := p.exp.Diff(varName)
	var terms []Expr
	if !isConst(db, 0) {
		terms = append(terms, Mul(p.exp, Pow(p.base, Add(p.exp, Num(-1))), db))
	}
	if !isConst(de, 0) {
		terms = append(terms, Mul(p, Ln(p.base), de))
	}
	return Add(terms...)
}

func (p *Power) Eval(env map[string]float64) (float64, error) {
	b, err := p.base.Eval(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(env)
	if err != nil {
		return 0, err
	}
	return math.Pow(b, e), nil
}

// ============================================================
// Functions
// ============================================================

type Func struct {
	name string
	arg  Expr
}

var funcs = map[string]func(float64) float64{
	"exp":  math.Exp,
	"ln":   math.Log,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
}

func funcOf(name string, arg Expr) Expr {
	if c, ok := arg.(*Constant); ok {
		return Num(funcs[name](c.val))
	}
	return &Func{name: name, arg: arg}
}

func Exp(arg Expr) Expr  { return funcOf("exp", arg) }
func Ln(arg Expr) Expr   { return funcOf("ln", arg) }
func Sinh(arg Expr) Expr { return funcOf("sinh", arg) }
func Cosh(arg Expr) Expr { return funcOf("cosh", arg) }

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isConst(du, 0) {
		return Num(0)
	}
	var outer Expr
	switch f.name {
	case "exp":
		outer = f
	case "ln":
		outer = Pow(f.arg, Num(-1))
	case "sinh":
		outer = Cosh(f.arg)
	case "cosh":
		outer = Sinh(f.arg)
	}
	return Mul(outer, du)
}

func (f *Func) Eval(env map[string]float64) (float64, error) {
	v, err := f.arg.Eval(env)
	if err != nil {
		return 0, err
	}
	return funcs[f.name](v), nil
}

// ============================================================
// Helpers
// ============================================================

// DiffN differentiates e once for every name in vars, in order.
func DiffN(e Expr, vars ...string) Expr {
	for _, v := range vars {
		e = e.Diff(v)
	}
	return e
}

// FreeSymbols returns the sorted symbol names appearing in e.
func FreeSymbols(e Expr) []string {
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Symbol:
			seen[v.name] = true
		case *Sum:
			for _, t := range v.terms {
				walk(t)
			}
		case *Product:
			for _, f := range v.factors {
				walk(f)
			}
		case *Power:
			walk(v.base)
			walk(v.exp)
		case *Func:
			walk(v.arg)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
