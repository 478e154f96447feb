package reactions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"engagePulse/domain"
	"engagePulse/pkg/keylock"
	"engagePulse/pkg/logger"
)

// ---- Repository interface ----

// Store is the injected per-key byte store. Get returns nil, nil for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ---- key layout ----

func itemKey(itemID int64) string {
	return fmt.Sprintf("reactions:item:%d", itemID)
}

func userKey(identity string) string {
	return fmt.Sprintf("reactions:user:%s", identity)
}

// ---- Usecase / Service ----

// Service maintains global per-item reaction counts and enforces
// single-choice-per-identity toggling. All mutations on one item are
// serialized through a per-key lock.
type Service struct {
	store Store
	locks *keylock.KeyLock
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		locks: keylock.New(),
	}
}

// GetReactions returns the per-kind counts for an item plus the calling
// identity's currently recorded kind. An item nobody has reacted to yields
// all-zero counts, not an error.
func (s *Service) GetReactions(ctx context.Context, itemID int64, identity string) (*domain.ReactionSnapshot, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("post id must be a positive integer: %w", domain.ErrInvalidArgument)
	}

	agg, _, err := s.loadAggregate(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var caller *domain.ReactionKind
	if strings.TrimSpace(identity) != "" {
		record, err := s.loadUserRecord(ctx, identity)
		if err != nil {
			return nil, err
		}
		if kind, ok := record[itemID]; ok {
			caller = &kind
		}
	}

	return snapshot(itemID, agg, caller), nil
}

// UpdateReaction applies toggle-with-replace semantics for one identity on
// one item:
//   - no previous reaction: the kind is counted and recorded
//   - a different previous reaction: the old count is released, the new one taken
//   - the same previous reaction: the reaction is removed entirely
//
// The read-modify-write cycle is serialized per item key and per identity
// key, so concurrent updates never double-count.
func (s *Service) UpdateReaction(ctx context.Context, itemID int64, identity string, kind domain.ReactionKind) (*domain.ReactionSnapshot, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("post id must be a positive integer: %w", domain.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown reaction kind %q: %w", kind, domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(identity) == "" {
		return nil, fmt.Errorf("missing caller identity: %w", domain.ErrInvalidArgument)
	}

	// Lock order is always item first, then identity.
	ik := itemKey(itemID)
	uk := userKey(identity)
	s.locks.Lock(ik)
	defer s.locks.Unlock(ik)
	s.locks.Lock(uk)
	defer s.locks.Unlock(uk)

	// 1) load current aggregate and the caller's record
	agg, prevAggRaw, err := s.loadAggregate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	record, err := s.loadUserRecord(ctx, identity)
	if err != nil {
		return nil, err
	}

	// 2) apply the toggle
	prev, hadPrev := record[itemID]

	var caller *domain.ReactionKind
	action := "set"
	switch {
	case hadPrev && prev == kind:
		// re-selecting the current reaction un-reacts
		decrement(agg, kind)
		delete(record, itemID)
		action = "clear"
	case hadPrev:
		decrement(agg, prev)
		agg.Counts[kind]++
		record[itemID] = kind
		caller = &kind
		action = "switch"
	default:
		agg.Counts[kind]++
		record[itemID] = kind
		caller = &kind
	}

	// 3) persist aggregate first, record second; restore the aggregate if
	// the second write fails so no partial mutation is left behind
	if err := s.saveAggregate(ctx, itemID, agg); err != nil {
		return nil, err
	}
	if err := s.saveUserRecord(ctx, identity, record); err != nil {
		if prevAggRaw == nil {
			prevAggRaw, _ = json.Marshal(domain.NewReactionAggregate())
		}
		if rbErr := s.store.Put(ctx, ik, prevAggRaw); rbErr != nil {
			logger.Error("failed to roll back reaction aggregate", "item_id", itemID, "error", rbErr)
		}
		return nil, err
	}

	reactionUpdatesTotal.WithLabelValues(string(kind), action).Inc()

	logger.Debug("reaction_update",
		"item_id", itemID,
		"kind", kind,
		"action", action,
		"total", agg.Total(),
	)

	return snapshot(itemID, agg, caller), nil
}

// TopReaction selects the highest-counted kind of an aggregate. Ties break by
// declaration order, first declared wins. ok is false when every count is
// zero.
func TopReaction(counts map[domain.ReactionKind]int64) (domain.TopReaction, bool) {
	var top domain.TopReaction
	for _, k := range domain.ReactionKinds {
		if counts[k] > top.Count {
			top = domain.TopReaction{Kind: k, Count: counts[k]}
		}
	}
	return top, top.Count > 0
}

// ---- internals ----

// decrement never drops a count below zero, even when the caller's record
// disagrees with the aggregate.
func decrement(agg *domain.ReactionAggregate, kind domain.ReactionKind) {
	if agg.Counts[kind] > 0 {
		agg.Counts[kind]--
	}
}

func (s *Service) loadAggregate(ctx context.Context, itemID int64) (*domain.ReactionAggregate, []byte, error) {
	raw, err := s.store.Get(ctx, itemKey(itemID))
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "load reaction aggregate", Err: err}
	}
	if raw == nil {
		return domain.NewReactionAggregate(), nil, nil
	}

	var agg domain.ReactionAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, nil, &domain.StorageError{Op: "decode reaction aggregate", Err: err}
	}
	if agg.Counts == nil {
		agg.Counts = make(map[domain.ReactionKind]int64, len(domain.ReactionKinds))
	}

	return &agg, raw, nil
}

func (s *Service) saveAggregate(ctx context.Context, itemID int64, agg *domain.ReactionAggregate) error {
	raw, err := json.Marshal(agg)
	if err != nil {
		return &domain.StorageError{Op: "encode reaction aggregate", Err: err}
	}
	if err := s.store.Put(ctx, itemKey(itemID), raw); err != nil {
		return &domain.StorageError{Op: "save reaction aggregate", Err: err}
	}
	return nil
}

func (s *Service) loadUserRecord(ctx context.Context, identity string) (domain.UserReactions, error) {
	raw, err := s.store.Get(ctx, userKey(identity))
	if err != nil {
		return nil, &domain.StorageError{Op: "load user reaction record", Err: err}
	}
	if raw == nil {
		return make(domain.UserReactions), nil
	}

	var record domain.UserReactions
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, &domain.StorageError{Op: "decode user reaction record", Err: err}
	}
	if record == nil {
		record = make(domain.UserReactions)
	}

	return record, nil
}

func (s *Service) saveUserRecord(ctx context.Context, identity string, record domain.UserReactions) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return &domain.StorageError{Op: "encode user reaction record", Err: err}
	}
	if err := s.store.Put(ctx, userKey(identity), raw); err != nil {
		return &domain.StorageError{Op: "save user reaction record", Err: err}
	}
	return nil
}

func snapshot(itemID int64, agg *domain.ReactionAggregate, caller *domain.ReactionKind) *domain.ReactionSnapshot {
	counts := make(map[domain.ReactionKind]int64, len(domain.ReactionKinds))
	for _, k := range domain.ReactionKinds {
		counts[k] = agg.Counts[k]
	}

	snap := &domain.ReactionSnapshot{
		ItemID:         itemID,
		Counts:         counts,
		Total:          agg.Total(),
		CallerReaction: caller,
	}
	if top, ok := TopReaction(counts); ok {
		snap.TopReaction = &top
	}

	return snap
}
