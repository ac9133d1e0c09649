package sindri

import "context"

// jobState is the client-side view of a job derived from its status
// string. A job is in exactly one state per observation.
type jobState int

const (
	statePending jobState = iota
	stateReady
	stateFailed
)

// classifyStatus maps a remote status string onto a jobState. The status
// string alone decides terminality: "Ready" and "Failed" are terminal and
// every other non-empty value means the job is still processing. An empty
// status is an anomalous response, never pending.
func classifyStatus(status string) (jobState, error) {
	switch status {
	case "":
		return statePending, newError(KindMalformedResponse,
			"status response is missing the status field")
	case StatusReady:
		return stateReady, nil
	case StatusFailed:
		return stateFailed, nil
	default:
		return statePending, nil
	}
}

// statusFetch retrieves the current status string for a job.
type statusFetch func(ctx context.Context) (string, error)

// waitForTerminal polls fetch at the configured fixed interval until a
// terminal state is observed, the iteration budget is exhausted, or ctx is
// done. Fetch errors propagate immediately; retries happen only at the
// transport level. Exhausting the budget yields KindPollTimeout.
func (c *Client) waitForTerminal(ctx context.Context, fetch statusFetch) (jobState, error) {
	for i := 0; i < c.maxPollIterations; i++ {
		if err := ctx.Err(); err != nil {
			return statePending, err
		}

		status, err := fetch(ctx)
		if err != nil {
			return statePending, err
		}

		state, err := classifyStatus(status)
		if err != nil {
			return statePending, err
		}
		if state != statePending {
			return state, nil
		}

		c.logger.Debug().Str("status", status).Int("iteration", i).
			Msg("job still processing")
		c.sleep(c.pollInterval)
	}

	return statePending, newError(KindPollTimeout,
		"polling budget exhausted before the job reached a terminal state")
}
