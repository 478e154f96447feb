package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AdEventKind is one lifecycle event of an ad slot.
type AdEventKind string

const (
	AdEventImpression AdEventKind = "impression"
	AdEventClick      AdEventKind = "click"
	AdEventView       AdEventKind = "view"
	AdEventClose      AdEventKind = "close"
)

var AdEventKinds = []AdEventKind{
	AdEventImpression,
	AdEventClick,
	AdEventView,
	AdEventClose,
}

func (k AdEventKind) Valid() bool {
	switch k {
	case AdEventImpression, AdEventClick, AdEventView, AdEventClose:
		return true
	}
	return false
}

// AdEventRecord is one audit entry in a slot's recent-event log. TrackingID is
// opaque and may repeat; retries of the same tracking call are kept as
// separate records.
type AdEventRecord struct {
	ID         string            `json:"id"`
	Event      AdEventKind       `json:"event"`
	TrackingID string            `json:"trackingId,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
}

// AdAnalytics is the stored aggregate for one ad slot. RecentEvents is
// bounded; the oldest entries are evicted first.
type AdAnalytics struct {
	Counts         map[AdEventKind]int64 `json:"counts"`
	UniqueUsers    map[string]bool       `json:"uniqueUsers"`
	UniqueSessions map[string]bool       `json:"uniqueSessions"`
	RecentEvents   []AdEventRecord       `json:"recentEvents"`
}

func NewAdAnalytics() *AdAnalytics {
	counts := make(map[AdEventKind]int64, len(AdEventKinds))
	for _, k := range AdEventKinds {
		counts[k] = 0
	}
	return &AdAnalytics{
		Counts:         counts,
		UniqueUsers:    make(map[string]bool),
		UniqueSessions: make(map[string]bool),
	}
}

// AdMetricsSnapshot is the derived, caller-facing view of one slot.
// CTR and ViewRate are percentage strings with two decimals, "0.00" when
// there are no impressions.
type AdMetricsSnapshot struct {
	SlotID         string                `json:"adId"`
	Counts         map[AdEventKind]int64 `json:"counts"`
	UniqueUsers    int                   `json:"uniqueUsers"`
	UniqueSessions int                   `json:"uniqueSessions"`
	CTR            string                `json:"ctr"`
	ViewRate       string                `json:"viewRate"`
	RecentEvents   []AdEventRecord       `json:"recentEvents"`
}
