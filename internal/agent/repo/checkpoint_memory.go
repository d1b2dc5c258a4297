package repo

import (
	"context"
	"sync"

	"github.com/nutripal/server/internal/agent/model"
)

// MemoryCheckpointStore is the in-process store used by tests and local runs.
// It holds the same per-thread append-only chain the Redis store does.
type MemoryCheckpointStore struct {
	mu     sync.Mutex
	chains map[string][]*model.Checkpoint
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{chains: make(map[string][]*model.Checkpoint)}
}

func (m *MemoryCheckpointStore) Save(ctx context.Context, cp *model.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	chain := m.chains[cp.ThreadID]
	cp.Seq = int64(len(chain)) + 1

	// snapshot the state so later turn steps cannot mutate stored history
	stored := *cp
	stored.State = cp.State.Clone()
	m.chains[cp.ThreadID] = append(chain, &stored)
	return nil
}

func (m *MemoryCheckpointStore) Latest(ctx context.Context, threadID string) (*model.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	chain := m.chains[threadID]
	if len(chain) == 0 {
		return nil, model.ErrNoCheckpoint
	}
	return copyCheckpoint(chain[len(chain)-1]), nil
}

func (m *MemoryCheckpointStore) History(ctx context.Context, threadID string) ([]*model.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	chain := m.chains[threadID]
	cps := make([]*model.Checkpoint, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		cps = append(cps, copyCheckpoint(chain[i]))
	}
	return cps, nil
}

func copyCheckpoint(cp *model.Checkpoint) *model.Checkpoint {
	c := *cp
	c.State = cp.State.Clone()
	return &c
}

var _ model.CheckpointStore = (*MemoryCheckpointStore)(nil)
