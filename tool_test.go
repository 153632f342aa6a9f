package helmholtz_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

// powerRecord is a decoded ResidualHelmholtzPower record for 1.2198*delta*tau.
func powerRecord() map[string]interface{} {
	return map[string]interface{}{
		"type": "ResidualHelmholtzPower",
		"n":    []interface{}{1.2198},
		"d":    []interface{}{1.0},
		"t":    []interface{}{1.0},
		"l":    []interface{}{0.0},
	}
}

func call(tool string, params map[string]interface{}) helmholtz.ToolResponse {
	return helmholtz.HandleToolCall(helmholtz.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Evaluate(t *testing.T) {
	resp := call("evaluate", map[string]interface{}{"term": powerRecord(), "tau": testTau, "delta": testDelta})
	require.Empty(t, resp.Error)
	d, ok := resp.Result.(helmholtz.Derivatives)
	require.True(t, ok)
	assert.InEpsilon(t, 1.2198*testTau*testDelta, d.Value, 1e-14)
	assert.InEpsilon(t, 1.2198, d.DDeltaDTau, 1e-14)
	assert.Contains(t, resp.String, "ResidualHelmholtzGeneralizedExponential")
}

func TestTool_Derivative(t *testing.T) {
	resp := call("derivative", map[string]interface{}{
		"term": powerRecord(), "kind": "dDelta", "tau": testTau, "delta": testDelta,
	})
	require.Empty(t, resp.Error)
	assert.InEpsilon(t, 1.2198*testTau, resp.Result.(float64), 1e-14)
	assert.True(t, strings.HasPrefix(resp.String, "dDelta = "))

	resp = call("derivative", map[string]interface{}{
		"term": powerRecord(), "kind": "dGamma", "tau": testTau, "delta": testDelta,
	})
	assert.Contains(t, resp.Error, "unknown derivative")
}

func TestTool_Check(t *testing.T) {
	resp := call("check", map[string]interface{}{"term": powerRecord()})
	require.Empty(t, resp.Error)
	results, ok := resp.Result.([]helmholtz.CheckResult)
	require.True(t, ok)
	assert.Len(t, results, 9)
	assert.Equal(t, "9 of 9 derivatives consistent", resp.String)

	resp = call("check", map[string]interface{}{"term": powerRecord(), "tau": "high"})
	assert.Equal(t, "param tau must be a number", resp.Error)
}

func TestTool_Describe(t *testing.T) {
	resp := call("describe", map[string]interface{}{"term": map[string]interface{}{
		"type": "IdealGasHelmholtzLead", "a1": 1.0, "a2": 3.0,
	}})
	require.Empty(t, resp.Error)
	assert.Equal(t, "IdealGasHelmholtzLead", resp.String)
	raw, ok := resp.Result.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"type":"IdealGasHelmholtzLead","a1":1,"a2":3}`, string(raw))
}

func TestTool_EvaluateFluid(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "example.json"))
	require.NoError(t, err)
	resp := call("evaluate_fluid", map[string]interface{}{"fluid": string(src), "tau": testTau, "delta": testDelta})
	require.Empty(t, resp.Error)
	assert.Equal(t, "Example JSON", resp.String)
	out := resp.Result.(map[string]interface{})
	assert.Contains(t, out, "alpha0")
	assert.Contains(t, out, "alphar")
}

func TestTool_Errors(t *testing.T) {
	tests := []struct {
		tool   string
		params map[string]interface{}
		want   string
	}{
		{"evaluate", map[string]interface{}{"tau": 1.0, "delta": 1.0}, "missing param: term"},
		{"evaluate", map[string]interface{}{"term": "power", "tau": 1.0, "delta": 1.0}, "param term must be a term object"},
		{"evaluate", map[string]interface{}{"term": powerRecord(), "tau": 1.0}, "missing param: delta"},
		{"derivative", map[string]interface{}{"term": powerRecord(), "tau": 1.0, "delta": 1.0}, "missing param: kind"},
		{"evaluate_fluid", map[string]interface{}{"fluid": 3.0}, "param fluid must be a string"},
		{"nope", nil, "unknown tool: nope"},
	}
	for _, tt := range tests {
		resp := call(tt.tool, tt.params)
		assert.Equal(t, tt.want, resp.Error, tt.tool)
		assert.Nil(t, resp.Result, tt.tool)
	}

	resp := call("evaluate", map[string]interface{}{
		"term": map[string]interface{}{"type": "Mystery"}, "tau": 1.0, "delta": 1.0,
	})
	assert.Contains(t, resp.Error, "unknown term type")
}

func TestToolSpec(t *testing.T) {
	resp := call("tool_spec", nil)
	require.Empty(t, resp.Error)
	var spec struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Result.(string)), &spec))
	names := make([]string, 0, len(spec.Tools))
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"evaluate", "derivative", "check", "describe", "evaluate_fluid", "tool_spec"}, names)
	for _, name := range names {
		assert.True(t, helmholtz.IsTool(name), name)
	}
	assert.False(t, helmholtz.IsTool("nope"))
	assert.Equal(t, []string{"term", "kind", "tau", "delta"}, spec.Tools[1].InputSchema.Required)
}
