package executor

import (
	"context"
	"time"

	"github.com/omerlefaruk/CasareRPA-sub022/pkg/models"
)

// WorkRequest is handed to a worker for one subtask.
type WorkRequest struct {
	AgentType      models.AgentType `json:"agent_type"`
	Prompt         string           `json:"prompt"`
	SubtaskID      string           `json:"subtask_id"`
	PhaseIndex     int              `json:"phase_index"`
	TimeoutSeconds int              `json:"timeout_seconds"`
}

// WorkResponse is what a worker reports back. The executor interprets
// only the success/failure/token signal; Data is opaque.
type WorkResponse struct {
	Success      bool                   `json:"success"`
	Data         map[string]interface{} `json:"data,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	TokensUsed   int64                  `json:"tokens_used,omitempty"`
}

// Worker performs the actual agent work for a subtask. Implementations
// must honor ctx cancellation; a returned error is converted into a
// failed subtask result, never propagated.
type Worker interface {
	Run(ctx context.Context, req WorkRequest) (*WorkResponse, error)
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context, req WorkRequest) (*WorkResponse, error)

// Run implements Worker.
func (f WorkerFunc) Run(ctx context.Context, req WorkRequest) (*WorkResponse, error) {
	return f(ctx, req)
}

// simulatedWorker is the built-in offline mode used when no worker is
// injected: a brief pause followed by a deterministic synthetic
// success.
type simulatedWorker struct {
	pause time.Duration
}

func newSimulatedWorker() *simulatedWorker {
	return &simulatedWorker{pause: 10 * time.Millisecond}
}

func (w *simulatedWorker) Run(ctx context.Context, req WorkRequest) (*WorkResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(w.pause):
	}

	// Token counts derive from the prompt so repeated runs agree.
	tokens := int64(len(req.Prompt)/4 + 64)

	return &WorkResponse{
		Success: true,
		Data: map[string]interface{}{
			"simulated":  true,
			"subtask_id": req.SubtaskID,
			"agent_type": string(req.AgentType),
		},
		TokensUsed: tokens,
	}, nil
}
