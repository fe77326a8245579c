package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/b0ase/backend/internal/store"
	"github.com/b0ase/backend/pkg/logger"
)

// SyncState tracks where a reorder operation is in its lifecycle. A
// successful pass runs Idle → Reordering → Persisted and settles back to
// Idle; a failed persistence pass ends in Reverting, after which the visible
// list has been replaced with server truth.
type SyncState int

const (
	StateIdle SyncState = iota
	StateReordering
	StatePersisted
	StateReverting
)

func (s SyncState) String() string {
	switch s {
	case StateReordering:
		return "reordering"
	case StatePersisted:
		return "persisted"
	case StateReverting:
		return "reverting"
	default:
		return "idle"
	}
}

func (s SyncState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

var errMovedVanished = errors.New("moved project not in current list")

// OrderSync owns the transition from a completed drag gesture to durable
// per-row order positions, including recovery when the write batch partially
// fails. Positions are assigned from final sequence position only, so any
// drag path reaching the same arrangement persists identical values, and
// retrying the same arrangement is idempotent.
//
// Concurrent reorders of the same list from different sessions are not
// coordinated: the last successful full-sequence write wins. Within one
// process, a newer request supersedes the visible result of an older
// in-flight one via a per-user monotonically increasing token.
type OrderSync struct {
	store     store.Store
	portfolio *PortfolioService

	mu     sync.Mutex
	latest map[uint]uint64
}

func NewOrderSync(st store.Store, portfolio *PortfolioService) *OrderSync {
	return &OrderSync{
		store:     st,
		portfolio: portfolio,
		latest:    make(map[uint]uint64),
	}
}

type ReorderRequest struct {
	MovedID   uint `json:"moved_id" binding:"required"`
	FromIndex int  `json:"from_index" binding:"min=0"`
	ToIndex   int  `json:"to_index" binding:"min=0"`
}

// ReorderResult reports the outcome of a reorder. Projects carries the
// authoritative visible order: the new sequence when persisted, the re-read
// server order when reverted. A superseded result carries no projects; the
// newer request's view wins.
type ReorderResult struct {
	OK         bool          `json:"ok"`
	Reverted   bool          `json:"reverted,omitempty"`
	Superseded bool          `json:"superseded,omitempty"`
	Notice     string        `json:"notice,omitempty"`
	State      SyncState     `json:"state"`
	Projects   []ProjectView `json:"projects,omitempty"`
}

// Reorder relocates one project within the user's list and persists the new
// arrangement, one independent write per row. The persistence boundary
// offers no multi-row transaction: on any write failure the remaining writes
// are skipped, already-written rows stay, and the visible list is restored
// by re-reading the store.
func (s *OrderSync) Reorder(ctx context.Context, userID uint, req *ReorderRequest) (*ReorderResult, error) {
	token := s.begin(userID)

	base, err := s.portfolio.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FromIndex < len(base) && base[req.FromIndex].ID != req.MovedID {
		logger.Debug().
			Uint("user_id", userID).
			Uint("moved_id", req.MovedID).
			Int("from_index", req.FromIndex).
			Msg("client order out of date, relocating by id")
	}

	seq, err := relocate(base, req.MovedID, req.ToIndex)
	if err != nil {
		// The moved project vanished or lost access mid-drag; the current
		// list stands unchanged.
		return &ReorderResult{
			Reverted: true,
			Notice:   "project no longer available",
			State:    StateIdle,
			Projects: base,
		}, nil
	}

	for i := range seq {
		if err := s.store.WriteOrderIndex(ctx, userID, seq[i].ID, i); err != nil {
			logger.Warn().Err(err).
				Uint("user_id", userID).
				Uint("project_id", seq[i].ID).
				Int("position", i).
				Msg("order write failed, reverting to stored order")
			return s.revert(ctx, userID, token)
		}
	}

	if !s.current(userID, token) {
		return &ReorderResult{OK: true, Superseded: true, State: StatePersisted}, nil
	}

	for i := range seq {
		pos := i
		seq[i].OrderIndex = &pos
	}
	return &ReorderResult{OK: true, State: StatePersisted, Projects: seq}, nil
}

// revert discards the optimistic order and replaces the visible list with
// server truth. Written rows from the failed batch are not rolled back; the
// re-read is what keeps the visible list honest.
func (s *OrderSync) revert(ctx context.Context, userID uint, token uint64) (*ReorderResult, error) {
	fresh, err := s.portfolio.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.current(userID, token) {
		return &ReorderResult{Reverted: true, Superseded: true, State: StateReverting}, nil
	}
	return &ReorderResult{
		Reverted: true,
		Notice:   "order not saved, restored previous order",
		State:    StateReverting,
		Projects: fresh,
	}, nil
}

// relocate removes the moved project from the sequence and reinserts it at
// the target position. The result depends only on the final arrangement,
// never on the drag path that produced it.
func relocate(seq []ProjectView, movedID uint, to int) ([]ProjectView, error) {
	from := -1
	for i := range seq {
		if seq[i].ID == movedID {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, errMovedVanished
	}

	if to < 0 {
		to = 0
	}
	if to > len(seq)-1 {
		to = len(seq) - 1
	}

	out := make([]ProjectView, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	out = append(out[:to], append([]ProjectView{seq[from]}, out[to:]...)...)
	return out, nil
}

// begin registers a new reorder for the user and returns its token. Any
// earlier in-flight reorder for the same user becomes stale.
func (s *OrderSync) begin(userID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[userID]++
	return s.latest[userID]
}

// current reports whether token still names the user's newest reorder.
func (s *OrderSync) current(userID uint, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[userID] == token
}
