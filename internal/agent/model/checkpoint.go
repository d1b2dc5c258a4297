package model

import (
	"context"
	"errors"
	"time"
)

// ErrNoCheckpoint is returned by Latest for a thread that has never been
// checkpointed.
var ErrNoCheckpoint = errors.New("no checkpoint for thread")

// Checkpoint is one immutable snapshot of a thread's state, written after
// every completed step. Snapshots form a strictly ordered chain per thread;
// Seq is assigned by the store and increases monotonically.
type Checkpoint struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Seq       int64     `json:"seq"`
	Step      string    `json:"step"`
	State     *State    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckpointStore persists state snapshots per thread.
//
// Save must be durable before returning and must never reorder writes within
// a thread; callers guarantee at most one in-flight turn per thread, which
// stands in for locking. History returns snapshots newest first.
type CheckpointStore interface {
	Save(ctx context.Context, cp *Checkpoint) error
	Latest(ctx context.Context, threadID string) (*Checkpoint, error)
	History(ctx context.Context, threadID string) ([]*Checkpoint, error)
}
