package adtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"engagePulse/domain"
	"engagePulse/pkg/keylock"
	"engagePulse/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	// maxRecentEvents bounds the stored audit log per slot; the oldest
	// entries are evicted first.
	maxRecentEvents = 1000

	// snapshotRecentCount is how many recent entries a snapshot carries.
	snapshotRecentCount = 10
)

// ---- Repository interface ----

// Store is the injected per-key byte store. Get returns nil, nil for an
// absent key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

func slotKey(slotID string) string {
	return "adtrack:slot:" + slotID
}

// ---- Usecase / Service ----

// Service records ad lifecycle events per slot and exposes derived
// engagement metrics. Tracking ids are audit data only; repeated ids from
// retried tracking calls are all kept.
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

// RecordEvent counts one event against a slot, tracks unique users and
// sessions from the recognized metadata keys, appends an audit record, and
// returns the recomputed metrics.
func (s *Service) RecordEvent(ctx context.Context, slotID string, kind domain.AdEventKind, trackingID string, metadata datatypes.JSONMap) (*domain.AdMetricsSnapshot, error) {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return nil, fmt.Errorf("ad id is required: %w", domain.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown ad event kind %q: %w", kind, domain.ErrInvalidArgument)
	}

	key := slotKey(slotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// 1) load current analytics, lazily initialized
	analytics, err := s.loadAnalytics(ctx, slotID)
	if err != nil {
		return nil, err
	}

	// 2) apply the event
	analytics.Counts[kind]++

	if userID := metaString(metadata, "userId"); userID != "" {
		analytics.UniqueUsers[userID] = true
	}
	if sessionID := metaString(metadata, "sessionId"); sessionID != "" {
		analytics.UniqueSessions[sessionID] = true
	}

	analytics.RecentEvents = append(analytics.RecentEvents, domain.AdEventRecord{
		ID:         uuid.NewString(),
		Event:      kind,
		TrackingID: trackingID,
		Timestamp:  time.Now().UTC(),
		Metadata:   metadata,
	})
	if excess := len(analytics.RecentEvents) - maxRecentEvents; excess > 0 {
		analytics.RecentEvents = append([]domain.AdEventRecord(nil), analytics.RecentEvents[excess:]...)
	}

	// 3) persist and report
	if err := s.saveAnalytics(ctx, slotID, analytics); err != nil {
		return nil, err
	}

	adEventsTotal.WithLabelValues(string(kind)).Inc()

	logger.Debug("ad_event",
		"ad_id", slotID,
		"event_type", kind,
		"tracking_id", trackingID,
	)

	return snapshot(slotID, analytics), nil
}

// GetMetrics is read-only. A slot with no recorded activity yields all-zero
// metrics, not an error.
func (s *Service) GetMetrics(ctx context.Context, slotID string) (*domain.AdMetricsSnapshot, error) {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return nil, fmt.Errorf("ad id is required: %w", domain.ErrInvalidArgument)
	}

	analytics, err := s.loadAnalytics(ctx, slotID)
	if err != nil {
		return nil, err
	}

	return snapshot(slotID, analytics), nil
}

// ---- internals ----

func (s *Service) loadAnalytics(ctx context.Context, slotID string) (*domain.AdAnalytics, error) {
	raw, err := s.store.Get(ctx, slotKey(slotID))
	if err != nil {
		return nil, &domain.StorageError{Op: "load ad analytics", Err: err}
	}
	if raw == nil {
		return domain.NewAdAnalytics(), nil
	}

	var analytics domain.AdAnalytics
	if err := json.Unmarshal(raw, &analytics); err != nil {
		return nil, &domain.StorageError{Op: "decode ad analytics", Err: err}
	}
	if analytics.Counts == nil {
		analytics.Counts = make(map[domain.AdEventKind]int64, len(domain.AdEventKinds))
	}
	if analytics.UniqueUsers == nil {
		analytics.UniqueUsers = make(map[string]bool)
	}
	if analytics.UniqueSessions == nil {
		analytics.UniqueSessions = make(map[string]bool)
	}

	return &analytics, nil
}

func (s *Service) saveAnalytics(ctx context.Context, slotID string, analytics *domain.AdAnalytics) error {
	raw, err := json.Marshal(analytics)
	if err != nil {
		return &domain.StorageError{Op: "encode ad analytics", Err: err}
	}
	if err := s.store.Put(ctx, slotKey(slotID), raw); err != nil {
		return &domain.StorageError{Op: "save ad analytics", Err: err}
	}
	return nil
}

// metaString extracts a recognized metadata key; everything else in the map
// is opaque and passed through untouched.
func metaString(metadata datatypes.JSONMap, key string) string {
	if metadata == nil {
		return ""
	}
	if s, ok := metadata[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// ratePercent renders numerator/impressions as a two-decimal percentage,
// "0.00" when there are no impressions.
func ratePercent(numerator, impressions int64) string {
	if impressions == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(numerator)/float64(impressions)*100)
}

func snapshot(slotID string, analytics *domain.AdAnalytics) *domain.AdMetricsSnapshot {
	counts := make(map[domain.AdEventKind]int64, len(domain.AdEventKinds))
	for _, k := range domain.AdEventKinds {
		counts[k] = analytics.Counts[k]
	}

	impressions := counts[domain.AdEventImpression]

	recent := analytics.RecentEvents
	if len(recent) > snapshotRecentCount {
		recent = recent[len(recent)-snapshotRecentCount:]
	}

	return &domain.AdMetricsSnapshot{
		SlotID:         slotID,
		Counts:         counts,
		UniqueUsers:    len(analytics.UniqueUsers),
		UniqueSessions: len(analytics.UniqueSessions),
		CTR:            ratePercent(counts[domain.AdEventClick], impressions),
		ViewRate:       ratePercent(counts[domain.AdEventView], impressions),
		RecentEvents:   copyRecords(recent),
	}
}

func copyRecords(src []domain.AdEventRecord) []domain.AdEventRecord {
	out := make([]domain.AdEventRecord, len(src))
	copy(out, src)
	for i := range out {
		if out[i].Metadata == nil {
			continue
		}
		m := make(datatypes.JSONMap, len(out[i].Metadata))
		for k, v := range out[i].Metadata {
			m[k] = v
		}
		out[i].Metadata = m
	}
	return out
}
