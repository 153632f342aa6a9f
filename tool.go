package helmholtz

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

var toolNames = []string{"evaluate", "derivative", "check", "describe", "evaluate_fluid", "tool_spec"}

// IsTool reports whether HandleToolCall knows name.
func IsTool(name string) bool {
	for _, n := range toolNames {
		if n == name {
			return true
		}
	}
	return false
}

// HandleToolCall runs one tool against the terms carried in req.Params.
// Terms are passed as serialization records (see FromMap).
func HandleToolCall(req ToolRequest) ToolResponse {
	getTerm := func(key string) (Term, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be a term object", key)
		}
		return FromMap(m)
	}
	getNumber := func(key string, def float64, required bool) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			if required {
				return 0, fmt.Errorf("missing param: %s", key)
			}
			return def, nil
		}
		x, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return x, nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getState := func() (tau, delta float64, err error) {
		if tau, err = getNumber("tau", 0, true); err != nil {
			return 0, 0, err
		}
		if delta, err = getNumber("delta", 0, true); err != nil {
			return 0, 0, err
		}
		return tau, delta, nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "evaluate":
		t, err := getTerm("term")
		if err != nil {
			return fail(err)
		}
		tau, delta, err := getState()
		if err != nil {
			return fail(err)
		}
		d := Evaluate(t, tau, delta)
		return ToolResponse{Result: d, String: fmt.Sprintf("%s at tau=%g delta=%g", t.Kind(), tau, delta)}

	case "derivative":
		t, err := getTerm("term")
		if err != nil {
			return fail(err)
		}
		name, err := getString("kind")
		if err != nil {
			return fail(err)
		}
		k, err := ParseDerivativeKind(name)
		if err != nil {
			return fail(err)
		}
		tau, delta, err := getState()
		if err != nil {
			return fail(err)
		}
		v := Derivative(t, k, tau, delta)
		return ToolResponse{Result: v, String: fmt.Sprintf("%s = %.17g", k, v)}

	case "check":
		t, err := getTerm("term")
		if err != nil {
			return fail(err)
		}
		def := DefaultCheckOptions()
		opts := def
		if opts.Tau, err = getNumber("tau", def.Tau, false); err != nil {
			return fail(err)
		}
		if opts.Delta, err = getNumber("delta", def.Delta, false); err != nil {
			return fail(err)
		}
		if opts.Step, err = getNumber("step", def.Step, false); err != nil {
			return fail(err)
		}
		if opts.Tolerance, err = getNumber("tolerance", def.Tolerance, false); err != nil {
			return fail(err)
		}
		results := CheckAll(t, opts.Tau, opts.Delta, opts.Step)
		failed := 0
		for _, r := range results {
			if !r.Passed(opts.Tolerance) {
				failed++
			}
		}
		return ToolResponse{
			Result: results,
			String: fmt.Sprintf("%d of %d derivatives consistent", len(results)-failed, len(results)),
		}

	case "describe":
		t, err := getTerm("term")
		if err != nil {
			return fail(err)
		}
		b, err := ToJSON(t)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: json.RawMessage(b), String: t.Kind()}

	case "evaluate_fluid":
		src, err := getString("fluid")
		if err != nil {
			return fail(err)
		}
		f, err := ParseFluid([]byte(src))
		if err != nil {
			return fail(err)
		}
		tau, delta, err := getState()
		if err != nil {
			return fail(err)
		}
		ideal, residual := f.Evaluate(tau, delta)
		return ToolResponse{
			Result: map[string]interface{}{"alpha0": ideal, "alphar": residual},
			String: f.Name,
		}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolSpec returns the JSON schema of every tool.
func ToolSpec() string {
	state := map[string]string{"term": "object", "tau": "number", "delta": "number"}
	tools := []map[string]interface{}{
		ts("evaluate", "Value and all nine derivatives of a term", []string{"term", "tau", "delta"}, state),
		ts("derivative", "One derivative of a term, kind one of base, dTau, dTau2, dTau3, dDelta, dDelta2, dDelta3, dDelta_dTau, dDelta_dTau2, dDelta2_dTau",
			[]string{"term", "kind", "tau", "delta"},
			map[string]string{"term": "object", "kind": "string", "tau": "number", "delta": "number"}),
		ts("check", "Finite-difference consistency of all nine derivatives. Optional: tau, delta, step, tolerance",
			[]string{"term"},
			map[string]string{"term": "object", "tau": "number", "delta": "number", "step": "number", "tolerance": "number"}),
		ts("describe", "Canonical serialization record of a term", []string{"term"}, map[string]string{"term": "object"}),
		ts("evaluate_fluid", "Ideal and residual aggregates of a YAML or JSON fluid file",
			[]string{"fluid", "tau", "delta"},
			map[string]string{"fluid": "string", "tau": "number", "delta": "number"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
