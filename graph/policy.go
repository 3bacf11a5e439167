package graph

import (
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

// NodePolicy configures per-node execution behavior. Zero values fall back
// to engine defaults.
type NodePolicy struct {
	// Timeout bounds a single node execution. Zero uses the engine's
	// DefaultNodeTimeout; if that is also zero, execution is unbounded.
	Timeout time.Duration

	// Retry re-runs the node on error according to the policy. Nil means a
	// failing node fails the run on the first attempt. Retries re-execute
	// the node against the same pre-node state, so nodes under a retry
	// policy must be safe to repeat.
	Retry *retry.Policy
}

// nodeTimeout resolves the effective timeout for a node: per-node override
// first, then the engine default, then unbounded.
func nodeTimeout(policy NodePolicy, defaultTimeout time.Duration) time.Duration {
	if policy.Timeout > 0 {
		return policy.Timeout
	}
	return defaultTimeout
}
