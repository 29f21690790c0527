package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// DefaultRunHistory is how many load runs are retained.
const DefaultRunHistory = 20

// RunRepository keeps the lifecycle records of recent load attempts in memory.
type RunRepository struct {
	mu    sync.RWMutex
	runs  map[uint64]model.LoadRun
	limit int
}

func NewRunRepository(limit int) *RunRepository {
	if limit <= 0 {
		limit = DefaultRunHistory
	}
	return &RunRepository{runs: make(map[uint64]model.LoadRun), limit: limit}
}

func (r *RunRepository) CreateRun(_ context.Context, run model.LoadRun) error {
	if run.Seq == 0 {
		return fmt.Errorf("seq is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runs[run.Seq]; exists {
		return fmt.Errorf("create run %d: already exists", run.Seq)
	}
	r.runs[run.Seq] = run
	r.trim()
	return nil
}

// UpdateRun merges the non-zero fields of run into the stored record.
func (r *RunRepository) UpdateRun(_ context.Context, run model.LoadRun) error {
	if run.Seq == 0 {
		return fmt.Errorf("seq is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.runs[run.Seq]
	if !ok {
		// Trimmed out of history already.
		return nil
	}
	if run.Source != "" {
		cur.Source = run.Source
	}
	if run.Status != "" {
		cur.Status = run.Status
	}
	if run.Rows != 0 {
		cur.Rows = run.Rows
	}
	if !run.FinishedAt.IsZero() {
		cur.FinishedAt = run.FinishedAt
	}
	if run.Error != "" {
		cur.Error = run.Error
	}
	r.runs[run.Seq] = cur
	return nil
}

func (r *RunRepository) GetRun(_ context.Context, seq uint64) (model.LoadRun, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[seq]
	return run, ok
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all retained runs.
func (r *RunRepository) ListRuns(_ context.Context, limit int) ([]model.LoadRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.LoadRun, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RunRepository) trim() {
	if len(r.runs) <= r.limit {
		return
	}
	seqs := make([]uint64, 0, len(r.runs))
	for seq := range r.runs {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for _, seq := range seqs[:len(seqs)-r.limit] {
		delete(r.runs, seq)
	}
}
