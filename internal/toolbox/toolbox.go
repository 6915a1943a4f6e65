// Package toolbox holds the locally-simulated tool handlers the demo
// scenarios expose to the agent service. Every handler is a deterministic
// lookup with no real network or database behind it; a collaborator could
// swap in live integrations without changing the dispatch contract.
package toolbox

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pranavj13/agentdesk/internal/dispatch"
)

// DefaultRegistry returns a registry with every simulated tool wired.
func DefaultRegistry(logger *zap.Logger) *dispatch.Registry {
	r := dispatch.NewRegistry(logger)
	r.MustRegister(WeatherTool())
	r.MustRegister(StockTool())
	r.MustRegister(KnowledgeTool())
	r.MustRegister(OrderTool())
	return r
}

// stringArg extracts a required string argument.
func stringArg(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", key)
	}
	return s, nil
}

// intArg extracts an optional integer argument, returning def when absent.
// JSON numbers decode as float64, so both are accepted.
func intArg(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
}
