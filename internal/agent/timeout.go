package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentix/studio/pkg/models"
)

// ErrExecuteTimeout is returned when an agent does not finish its
// assignment within the allotted time.
var ErrExecuteTimeout = errors.New("agent execution timed out")

// ExecuteWithTimeout runs an assignment with an upper time bound. The
// agent's context is cancelled at the deadline, so a well-behaved agent
// stops generating; the result of a timed-out execution is discarded.
func ExecuteWithTimeout(ctx context.Context, a Agent, assignment models.TaskAssignment, timeout time.Duration) (*models.TaskResult, error) {
	if timeout <= 0 {
		return a.ExecuteTask(ctx, assignment)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result *models.TaskResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := a.ExecuteTask(ctx, assignment)
		done <- outcome{result, err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrExecuteTimeout, timeout)
		}
		return nil, ctx.Err()
	}
}
