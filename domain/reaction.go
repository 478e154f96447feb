package domain

// ReactionKind is one of the fixed emotional-response tags a user may attach
// to a content item.
type ReactionKind string

const (
	ReactionLike       ReactionKind = "like"
	ReactionLove       ReactionKind = "love"
	ReactionInsightful ReactionKind = "insightful"
	ReactionHelpful    ReactionKind = "helpful"
	ReactionCelebrate  ReactionKind = "celebrate"
)

// ReactionKinds lists every kind in declaration order. Top-reaction
// tie-breaking follows this order, first declared wins.
var ReactionKinds = []ReactionKind{
	ReactionLike,
	ReactionLove,
	ReactionInsightful,
	ReactionHelpful,
	ReactionCelebrate,
}

func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionInsightful, ReactionHelpful, ReactionCelebrate:
		return true
	}
	return false
}

// ReactionAggregate holds the per-kind counters for one content item.
// Created lazily on first reaction, never deleted.
type ReactionAggregate struct {
	Counts map[ReactionKind]int64 `json:"counts"`
}

func NewReactionAggregate() *ReactionAggregate {
	counts := make(map[ReactionKind]int64, len(ReactionKinds))
	for _, k := range ReactionKinds {
		counts[k] = 0
	}
	return &ReactionAggregate{Counts: counts}
}

func (a *ReactionAggregate) Total() int64 {
	var total int64
	for _, c := range a.Counts {
		total += c
	}
	return total
}

// UserReactions maps item id -> the single kind currently chosen by one
// identity. At most one kind per item at any time.
type UserReactions map[int64]ReactionKind

// TopReaction is the highest-counted kind of an aggregate.
type TopReaction struct {
	Kind  ReactionKind `json:"kind"`
	Count int64        `json:"count"`
}

// ReactionSnapshot is the caller-facing view of one item's aggregate.
// Counts is always a copy; mutating it never touches stored state.
type ReactionSnapshot struct {
	ItemID         int64                  `json:"postId"`
	Counts         map[ReactionKind]int64 `json:"counts"`
	Total          int64                  `json:"total"`
	CallerReaction *ReactionKind          `json:"callerReaction"`
	TopReaction    *TopReaction           `json:"topReaction,omitempty"`
}
