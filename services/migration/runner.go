package migration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	"guest-messaging/services/communication"
	"guest-messaging/services/matching"
)

// VersionKey is the settings key holding the communications data version.
const VersionKey = "communications_data_version"

// TargetDataVersion is the data version this build of the resolution rules
// produces. Bump it whenever normalization or matching semantics change so
// the sweep re-resolves historical rows on the next start.
const TargetDataVersion = 2

// DefaultBatchSize is how many rows one sweep batch processes.
const DefaultBatchSize = 500

// ErrVersionGate is returned when the version marker store is unreachable.
// Nothing has been written when it surfaces; the run is safe to retry.
var ErrVersionGate = errors.New("version marker store unreachable")

// State tracks the lifecycle of one sweep.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// VersionStore is the key/value surface used for the migration version gate.
type VersionStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Stats counts what one sweep did.
type Stats struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Runner re-resolves historical communication rows in ascending-id batches.
// The sweep recomputes the resolution function from each row's raw numbers
// and writes only when the result differs from what is stored, so running it
// twice over unchanged data produces zero writes the second time.
type Runner struct {
	Store     *communication.Store
	Resolver  *matching.Resolver
	Versions  VersionStore
	BatchSize int

	mu    sync.Mutex
	state State
	stats Stats
}

// NewRunner creates a migration runner. batchSize values below 1 fall back to
// DefaultBatchSize.
func NewRunner(store *communication.Store, resolver *matching.Resolver, versions VersionStore, batchSize int) *Runner {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Runner{
		Store:     store,
		Resolver:  resolver,
		Versions:  versions,
		BatchSize: batchSize,
		state:     StateNotStarted,
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Stats returns the counters of the most recent sweep.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// RunIfNeeded runs the sweep when the stored data version is older than
// TargetDataVersion. It is idempotent and safe to call on every process
// start. The version is bumped only after a fully successful sweep, so a
// crash mid-sweep causes a full safe re-run next time rather than silently
// leaving partial state.
func (r *Runner) RunIfNeeded(ctx context.Context) error {
	raw, err := r.Versions.Get(VersionKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVersionGate, err)
	}

	current := 0
	if raw != "" {
		current, err = strconv.Atoi(raw)
		if err != nil {
			logger.Warning(fmt.Sprintf("Unparseable data version %q, forcing full re-run", raw))
			current = 0
		}
	}

	if current >= TargetDataVersion {
		logger.Info(fmt.Sprintf("Communications data version %d is current, skipping sweep", current))
		return nil
	}

	logger.Info(fmt.Sprintf("Re-resolving communications: data version %d -> %d", current, TargetDataVersion))

	if _, err := r.Sweep(ctx); err != nil {
		return err
	}

	if err := r.Versions.Set(VersionKey, strconv.Itoa(TargetDataVersion)); err != nil {
		return fmt.Errorf("failed to persist data version: %w", err)
	}
	return nil
}

// Sweep processes every communication row in ascending-id batches,
// re-running normalization and matching from the raw endpoint numbers and
// rewriting resolution fields only where the outcome changed. Individual row
// failures are counted and skipped; a batch-fetch failure aborts the sweep.
// Cancellation is checked between batches, never mid-batch.
func (r *Runner) Sweep(ctx context.Context) (Stats, error) {
	r.setState(StateRunning)
	stats := Stats{}

	var afterID uint
	for {
		select {
		case <-ctx.Done():
			logger.Warning(fmt.Sprintf("Sweep stopped after id %d: %v", afterID, ctx.Err()))
			r.finish(stats, StateFailed)
			return stats, ctx.Err()
		default:
		}

		batch, err := r.Store.FindBatch(afterID, r.BatchSize)
		if err != nil {
			r.finish(stats, StateFailed)
			return stats, fmt.Errorf("sweep aborted fetching batch after id %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			row := &batch[i]
			afterID = row.ID
			stats.Processed++

			updated, err := r.resolveRow(row)
			if err != nil {
				stats.Failed++
				logger.Error(fmt.Sprintf("Failed to re-resolve communication %d", row.ID), err)
				continue
			}
			if updated {
				stats.Updated++
			}
		}

		if len(batch) < r.BatchSize {
			break
		}
	}

	stats.Unchanged = stats.Processed - stats.Updated - stats.Failed
	r.finish(stats, StateCompleted)

	logger.Success(fmt.Sprintf("Sweep complete: %d processed, %d updated, %d unchanged, %d failed",
		stats.Processed, stats.Updated, stats.Unchanged, stats.Failed))
	return r.Stats(), nil
}

func (r *Runner) finish(stats Stats, state State) {
	r.mu.Lock()
	r.stats = stats
	r.state = state
	r.mu.Unlock()
}

func (r *Runner) resolveRow(row *commModel.Communication) (bool, error) {
	mctx := r.Resolver.Resolve(row.Channel, row.FromNumber, row.ToNumber, row.Direction)

	fromE164, toE164 := mctx.GuestNumberE164, mctx.ServiceNumberE164
	if row.Direction == commModel.DirectionOutbound {
		fromE164, toE164 = mctx.ServiceNumberE164, mctx.GuestNumberE164
	}

	unchanged := row.ReservationID == mctx.ReservationID &&
		row.GuestID == mctx.GuestID &&
		row.ThreadKey == mctx.ThreadKey &&
		row.FromNumberE164 == fromE164 &&
		row.ToNumberE164 == toE164
	if unchanged {
		return false, nil
	}

	err := r.Store.UpdateResolution(row.ID, communication.Resolution{
		ReservationID:  mctx.ReservationID,
		GuestID:        mctx.GuestID,
		ThreadKey:      mctx.ThreadKey,
		FromNumberE164: fromE164,
		ToNumberE164:   toE164,
		Context:        &mctx,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
