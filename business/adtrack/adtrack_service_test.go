package adtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"engagePulse/domain"
	memoryRepo "engagePulse/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGetMetrics_UnknownSlotYieldsZeroes(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())

	snap, err := svc.GetMetrics(context.Background(), "sidebar-top")
	require.NoError(t, err)

	assert.Equal(t, "0.00", snap.CTR)
	assert.Equal(t, "0.00", snap.ViewRate)
	assert.Equal(t, 0, snap.UniqueUsers)
	assert.Equal(t, 0, snap.UniqueSessions)
	assert.Empty(t, snap.RecentEvents)
	for _, k := range domain.AdEventKinds {
		assert.Equal(t, int64(0), snap.Counts[k])
	}
}

func TestRecordEvent_CountsAndUniqueTracking(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())
	ctx := context.Background()

	meta := datatypes.JSONMap{"userId": "u1", "sessionId": "s1", "placement": "header"}

	_, err := svc.RecordEvent(ctx, "slot-1", domain.AdEventImpression, "t-1", meta)
	require.NoError(t, err)

	// same user and session again, uniques must not grow
	_, err = svc.RecordEvent(ctx, "slot-1", domain.AdEventView, "t-2", meta)
	require.NoError(t, err)

	snap, err := svc.RecordEvent(ctx, "slot-1", domain.AdEventClick, "t-3", datatypes.JSONMap{"userId": "u2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), snap.Counts[domain.AdEventImpression])
	assert.Equal(t, int64(1), snap.Counts[domain.AdEventView])
	assert.Equal(t, int64(1), snap.Counts[domain.AdEventClick])
	assert.Equal(t, int64(0), snap.Counts[domain.AdEventClose])
	assert.Equal(t, 2, snap.UniqueUsers)
	assert.Equal(t, 1, snap.UniqueSessions)
	assert.Len(t, snap.RecentEvents, 3)
	assert.Equal(t, "t-3", snap.RecentEvents[2].TrackingID)
}

func TestRecordEvent_NoTrackingIDDeduplication(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())
	ctx := context.Background()

	// retried tracking calls reuse the same id and are all counted
	for i := 0; i < 3; i++ {
		_, err := svc.RecordEvent(ctx, "slot-1", domain.AdEventImpression, "same-id", nil)
		require.NoError(t, err)
	}

	snap, err := svc.GetMetrics(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.Counts[domain.AdEventImpression])
	assert.Len(t, snap.RecentEvents, 3)
}

func TestRecordEvent_RateComputation(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		_, err := svc.RecordEvent(ctx, "slot-ctr", domain.AdEventImpression, fmt.Sprintf("imp-%d", i), nil)
		require.NoError(t, err)
	}
	for i := 0; i < 25; i++ {
		_, err := svc.RecordEvent(ctx, "slot-ctr", domain.AdEventClick, fmt.Sprintf("clk-%d", i), nil)
		require.NoError(t, err)
	}

	snap, err := svc.GetMetrics(ctx, "slot-ctr")
	require.NoError(t, err)
	assert.Equal(t, "12.50", snap.CTR)
	assert.Equal(t, "0.00", snap.ViewRate)
}

func TestRatePercent(t *testing.T) {
	assert.Equal(t, "0.00", ratePercent(5, 0), "no impressions never divides")
	assert.Equal(t, "0.00", ratePercent(0, 100))
	assert.Equal(t, "12.50", ratePercent(25, 200))
	assert.Equal(t, "100.00", ratePercent(10, 10))
	assert.Equal(t, "33.33", ratePercent(1, 3))
}

func TestRecordEvent_BoundedRecentLog(t *testing.T) {
	mem := memoryRepo.NewKVRepository()
	svc := NewService(mem)
	ctx := context.Background()

	const total = 1500
	for i := 0; i < total; i++ {
		_, err := svc.RecordEvent(ctx, "busy-slot", domain.AdEventImpression, fmt.Sprintf("evt-%d", i), nil)
		require.NoError(t, err)
	}

	// inspect the stored aggregate, not just the snapshot window
	raw, err := mem.Get(ctx, slotKey("busy-slot"))
	require.NoError(t, err)
	require.NotNil(t, raw)

	var stored domain.AdAnalytics
	require.NoError(t, json.Unmarshal(raw, &stored))

	require.Len(t, stored.RecentEvents, maxRecentEvents)
	assert.Equal(t, "evt-500", stored.RecentEvents[0].TrackingID, "oldest entries evicted first")
	assert.Equal(t, "evt-1499", stored.RecentEvents[maxRecentEvents-1].TrackingID)
	assert.Equal(t, int64(total), stored.Counts[domain.AdEventImpression], "counts keep the full history")

	snap, err := svc.GetMetrics(ctx, "busy-slot")
	require.NoError(t, err)
	require.Len(t, snap.RecentEvents, snapshotRecentCount)
	assert.Equal(t, "evt-1490", snap.RecentEvents[0].TrackingID)
	assert.Equal(t, "evt-1499", snap.RecentEvents[snapshotRecentCount-1].TrackingID)
}

func TestRecordEvent_Validation(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, "slot-1", domain.AdEventKind("hover"), "t-1", nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.RecordEvent(ctx, "   ", domain.AdEventClick, "t-1", nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.GetMetrics(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	snap, err := svc.GetMetrics(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Counts[domain.AdEventClick], "rejected events must not count")
}

func TestSnapshot_MetadataIsACopy(t *testing.T) {
	svc := NewService(memoryRepo.NewKVRepository())
	ctx := context.Background()

	snap, err := svc.RecordEvent(ctx, "slot-1", domain.AdEventClick, "t-1", datatypes.JSONMap{"userId": "u1"})
	require.NoError(t, err)
	require.Len(t, snap.RecentEvents, 1)

	snap.RecentEvents[0].Metadata["userId"] = "tampered"
	snap.Counts[domain.AdEventClick] = 99

	fresh, err := svc.GetMetrics(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.Counts[domain.AdEventClick])
	assert.Equal(t, "u1", fresh.RecentEvents[0].Metadata["userId"])
}
