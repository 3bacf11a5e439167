package graph

import (
	"context"
	"fmt"
	"time"
)

// runWithTimeout executes a node under the resolved timeout. A timeout of
// zero runs the node directly. When the deadline fires, the result's Err is
// replaced with an EngineError so the caller sees which node timed out.
func runWithTimeout[S any](
	ctx context.Context,
	node Node[S],
	nodeID string,
	state S,
	timeout time.Duration,
) NodeResult[S] {
	if timeout <= 0 {
		return node.Run(ctx, state)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := node.Run(timeoutCtx, state)

	if timeoutCtx.Err() == context.DeadlineExceeded {
		result.Err = &EngineError{
			Message: fmt.Sprintf("node %s exceeded timeout of %v", nodeID, timeout),
			Code:    "NODE_TIMEOUT",
			Cause:   context.DeadlineExceeded,
		}
	}

	return result
}
