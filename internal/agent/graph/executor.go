package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/nutripal/server/internal/agent/graph/steps"
	"github.com/nutripal/server/internal/agent/model"
	logx "github.com/nutripal/server/pkg/logger"
)

var (
	// ErrTurnInFlight reports a second turn started for a thread that already
	// has one running. Callers own per-thread serialization; this guard turns
	// a contract violation into an error instead of corrupted state.
	ErrTurnInFlight = errors.New("turn already in flight for thread")

	// ErrMaxSteps reports a turn that exceeded the step budget. The graph is
	// loop-free apart from the bounded item loop, so this only trips on
	// wiring bugs.
	ErrMaxSteps = errors.New("max steps exceeded")
)

// Executor drives one conversation turn to completion: load the latest
// checkpoint, append the new input, then repeat step → merge → checkpoint →
// route until a router returns the terminal marker.
//
// A step failure aborts the turn with no checkpoint for the failed step; the
// previous checkpoint remains the durable resume point and the whole turn is
// safe to retry against it. The executor itself never retries.
type Executor struct {
	steps       map[string]steps.Func
	routers     map[string]RouterFunc
	entry       string
	store       model.CheckpointStore
	stepTimeout time.Duration
	maxSteps    int
	now         func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// RunTurn executes one full turn for the thread and returns the final state.
func (e *Executor) RunTurn(ctx context.Context, threadID string, input *schema.Message) (*model.State, error) {
	if threadID == "" {
		return nil, fmt.Errorf("thread id is empty")
	}
	if err := e.acquire(threadID); err != nil {
		return nil, err
	}
	defer e.release(threadID)

	state, err := e.loadState(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if input != nil {
		if err := state.Apply(model.Update{AppendMessages: []*schema.Message{input}}); err != nil {
			return nil, err
		}
	}

	cursor := e.entry
	for n := 0; ; n++ {
		if n >= e.maxSteps {
			return nil, fmt.Errorf("%w: %d steps on thread %s", ErrMaxSteps, n, threadID)
		}
		// turns may be cancelled between steps, never mid-step
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fn, ok := e.steps[cursor]
		if !ok {
			return nil, fmt.Errorf("unknown step %q", cursor)
		}

		stepCtx, cancel := context.WithTimeout(ctx, e.stepTimeout)
		upd, err := fn(stepCtx, state)
		cancel()
		if err != nil {
			logx.Error().Err(err).Str("thread_id", threadID).Str("step", cursor).Msg("step failed, turn aborted")
			return nil, fmt.Errorf("step %s: %w", cursor, err)
		}

		if err := state.Apply(upd); err != nil {
			// an invariant-violating update is a step-logic bug; refuse to
			// persist it rather than checkpoint corrupt state
			logx.Error().Err(err).Str("thread_id", threadID).Str("step", cursor).Msg("update rejected")
			return nil, fmt.Errorf("step %s produced invalid update: %w", cursor, err)
		}

		if err := e.checkpoint(ctx, threadID, cursor, state); err != nil {
			return nil, err
		}

		router, ok := e.routers[cursor]
		if !ok {
			return nil, fmt.Errorf("no router for step %q", cursor)
		}
		next := router(state)
		logx.Debug().Str("thread_id", threadID).Str("step", cursor).Str("next", next).Msg("step completed")

		if next == steps.End {
			return state, nil
		}
		cursor = next
	}
}

func (e *Executor) loadState(ctx context.Context, threadID string) (*model.State, error) {
	cp, err := e.store.Latest(ctx, threadID)
	if err != nil {
		if errors.Is(err, model.ErrNoCheckpoint) {
			return model.NewState(), nil
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return cp.State.Clone(), nil
}

func (e *Executor) checkpoint(ctx context.Context, threadID, step string, state *model.State) error {
	cp := &model.Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Step:      step,
		State:     state.Clone(),
		CreatedAt: e.now().UTC(),
	}
	if err := e.store.Save(ctx, cp); err != nil {
		return fmt.Errorf("save checkpoint after %s: %w", step, err)
	}
	return nil
}

func (e *Executor) acquire(threadID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[threadID]; busy {
		return fmt.Errorf("%w: %s", ErrTurnInFlight, threadID)
	}
	e.inFlight[threadID] = struct{}{}
	return nil
}

func (e *Executor) release(threadID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, threadID)
}
