package persist

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hollowroot/jungeon/internal/game"
)

// Worker writes scheduled snapshots in the background, in order. It
// implements game.SnapshotScheduler, so Schedule must never block: the
// engine calls it while holding the world lock.
type Worker struct {
	repo *Repository

	mu      sync.Mutex
	pending []*game.Snapshot
	wake    chan struct{}
	running atomic.Bool
}

func NewWorker(repo *Repository) *Worker {
	return &Worker{
		repo: repo,
		wake: make(chan struct{}, 1),
	}
}

// Schedule queues a snapshot for writing. If the worker loop isn't running
// the snapshot is written synchronously instead of silently lost. Every
// scheduled snapshot is eventually written, in FIFO order, so an older
// snapshot can never overwrite a newer one.
func (w *Worker) Schedule(snap *game.Snapshot) {
	if !w.running.Load() {
		w.write(snap)
		return
	}

	w.mu.Lock()
	w.pending = append(w.pending, snap)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Start drains the queue until the context is cancelled, then flushes
// whatever is still pending so shutdown never drops a scheduled save.
func (w *Worker) Start(ctx context.Context) error {
	w.running.Store(true)
	defer w.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case <-w.wake:
			w.drain()
		}
	}
}

func (w *Worker) drain() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.mu.Unlock()
			return
		}
		snap := w.pending[0]
		w.pending = w.pending[1:]
		w.mu.Unlock()

		w.write(snap)
	}
}

func (w *Worker) write(snap *game.Snapshot) {
	if err := w.repo.Write(snap); err != nil {
		slog.Error("failed to persist world snapshot", "error", err)
	}
}
