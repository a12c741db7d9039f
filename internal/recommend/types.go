// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package recommend

import (
	"context"
	"errors"
	"time"
)

// Kind classifies a user-item interaction.
type Kind string

const (
	// KindView indicates the user opened or inspected an artifact.
	KindView Kind = "view"
	// KindComplete indicates the user finished an artifact's content.
	KindComplete Kind = "complete"
	// KindComment indicates the user left a comment.
	KindComment Kind = "comment"
	// KindShare indicates the user shared the artifact.
	KindShare Kind = "share"
	// KindRate indicates the user rated the artifact.
	KindRate Kind = "rate"
	// KindCreate indicates the user created the artifact.
	KindCreate Kind = "create"
	// KindRemix indicates the user derived a new artifact from this one.
	KindRemix Kind = "remix"
)

// Valid reports whether k is a known interaction kind.
func (k Kind) Valid() bool {
	switch k {
	case KindView, KindComplete, KindComment, KindShare, KindRate, KindCreate, KindRemix:
		return true
	default:
		return false
	}
}

// Feedback is the explicit sentiment attached to an interaction.
type Feedback string

const (
	// FeedbackNone means no explicit sentiment was given.
	FeedbackNone Feedback = ""
	// FeedbackPositive marks a positive reaction.
	FeedbackPositive Feedback = "positive"
	// FeedbackNegative marks a negative reaction.
	FeedbackNegative Feedback = "negative"
)

// Valid reports whether f is a known feedback value.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackNone, FeedbackPositive, FeedbackNegative:
		return true
	default:
		return false
	}
}

// Event is an immutable interaction record. Events are appended to a
// per-user log and never mutated or deleted; all derived state is folded
// from the event stream.
type Event struct {
	// UserID identifies the acting user.
	UserID string `json:"user_id"`

	// ItemID is the artifact the interaction references.
	ItemID string `json:"item_id"`

	// Kind classifies the interaction.
	Kind Kind `json:"kind"`

	// Feedback is the optional explicit sentiment.
	Feedback Feedback `json:"feedback,omitempty"`

	// StrategyUsed records which recommendation strategy surfaced the
	// item, when the interaction followed a recommendation.
	StrategyUsed string `json:"strategy_used,omitempty"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Positive reports whether the event counts as a positive preference
// signal. Completion always counts, even with negative feedback attached.
func (e Event) Positive() bool {
	return e.Feedback == FeedbackPositive || e.Kind == KindComplete
}

// Negative reports whether the event counts as a negative preference
// signal. A negative-feedback complete is still positive.
func (e Event) Negative() bool {
	return e.Feedback == FeedbackNegative && e.Kind != KindComplete
}

// Item is an artifact from the game catalog. The engine treats items as
// read-only input and never mutates them.
type Item struct {
	// ID is the artifact identifier.
	ID string `json:"id"`

	// Type is the artifact type (story, puzzle, game, music, ...).
	Type string `json:"type"`

	// Area is the world zone the artifact belongs to.
	Area string `json:"area"`

	// Creator is the user who made the artifact.
	Creator string `json:"creator"`

	// Tags are free-form descriptive labels.
	Tags []string `json:"tags"`

	// Rating is the mean player rating (0-5).
	Rating float64 `json:"rating"`

	// ReviewCount is the number of reviews received.
	ReviewCount int `json:"review_count"`

	// MediaCount is the number of attached media objects.
	MediaCount int `json:"media_count"`

	// ViewCount is the total number of views, used as a popularity proxy.
	ViewCount int `json:"view_count"`

	// XPCost is the experience cost to engage with the artifact.
	XPCost int `json:"xp_cost"`

	// CreatedAt is when the artifact was published.
	CreatedAt time.Time `json:"created_at"`

	// Visible controls whether the artifact can be recommended.
	Visible bool `json:"visible"`
}

// Candidate is an item with a recommendation score. Candidates are
// created fresh on every scoring call and never persisted.
type Candidate struct {
	// Item is the scored artifact.
	Item Item `json:"item"`

	// Score is the strategy or combined score (higher is better).
	Score float64 `json:"score"`

	// Strategy is the strategy that produced the score, or "hybrid".
	Strategy string `json:"strategy"`

	// Contributing lists the strategies that contributed to a hybrid
	// score, in registration order.
	Contributing []string `json:"contributing_strategies,omitempty"`

	// Scores is the per-strategy raw score breakdown for hybrid results.
	Scores map[string]float64 `json:"scores,omitempty"`
}

// Algorithm selects which scoring path a request uses.
type Algorithm int

const (
	// AlgorithmHybrid combines all registered strategies.
	AlgorithmHybrid Algorithm = iota
	// AlgorithmCollaborative uses only the collaborative strategy.
	AlgorithmCollaborative
	// AlgorithmContentBased uses only the content-based strategy.
	AlgorithmContentBased
	// AlgorithmContextual uses only the contextual strategy.
	AlgorithmContextual
	// AlgorithmSerendipity uses only the serendipity strategy.
	AlgorithmSerendipity
)

// String returns the wire name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmHybrid:
		return "hybrid"
	case AlgorithmCollaborative:
		return "collaborative"
	case AlgorithmContentBased:
		return "contentBased"
	case AlgorithmContextual:
		return "contextual"
	case AlgorithmSerendipity:
		return "serendipity"
	default:
		return "unknown"
	}
}

// ErrUnknownAlgorithm is returned for unrecognized algorithm names.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm maps a wire name to an Algorithm. The empty string
// defaults to hybrid.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "hybrid":
		return AlgorithmHybrid, nil
	case "collaborative":
		return AlgorithmCollaborative, nil
	case "contentBased":
		return AlgorithmContentBased, nil
	case "contextual":
		return AlgorithmContextual, nil
	case "serendipity":
		return AlgorithmSerendipity, nil
	default:
		return AlgorithmHybrid, ErrUnknownAlgorithm
	}
}

// ErrInvalidEvent indicates a malformed interaction payload (missing
// item ID or unknown kind). It is the only error surfaced to callers of
// the ingestion path.
var ErrInvalidEvent = errors.New("invalid interaction event")

// Request is a recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID string `json:"user_id"`

	// Algorithm selects the scoring path. Defaults to hybrid.
	Algorithm Algorithm `json:"algorithm"`

	// Limit is the number of results to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// Diversity is the diversity filter level in [0, 1]. Zero disables
	// the filter.
	Diversity float64 `json:"diversity"`

	// Novelty is the novelty filter level in [0, 1]. Zero disables the
	// filter.
	Novelty float64 `json:"novelty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is a recommendation response.
type Response struct {
	// Recommendations is the ranked, filtered candidate list.
	Recommendations []Candidate `json:"recommendations"`

	// Algorithm is the scoring path that produced the list.
	Algorithm string `json:"algorithm"`

	// TotalResults is len(Recommendations).
	TotalResults int `json:"total_results"`

	// UserConfidence is the profile confidence score in [0, 1].
	UserConfidence float64 `json:"user_confidence"`

	// Metadata carries timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata carries timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// StrategiesUsed lists the strategies that produced candidates.
	StrategiesUsed []string `json:"strategies_used"`

	// LatencyMS is the total scoring latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates the response was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Catalog provides read access to the artifact catalog. Implementations
// are external collaborators; a lookup failure must degrade to "absent"
// rather than surfacing an error into the scoring path.
type Catalog interface {
	// Lookup returns the item with the given ID, or ok=false if the item
	// does not exist or the catalog is unavailable.
	Lookup(ctx context.Context, itemID string) (Item, bool)

	// List returns all visible items.
	List(ctx context.Context) ([]Item, error)
}

// Strategy scores catalog items for a user. Implementations never return
// errors: empty history or an empty catalog yields an empty candidate
// list.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "collaborative").
	Name() string

	// Score returns ranked candidates for the user drawn from items.
	Score(ctx context.Context, userID string, items []Item) []Candidate
}

// Filter is a post-scoring reranking filter (diversity, novelty).
type Filter interface {
	// Name returns the filter identifier.
	Name() string

	// Apply filters the ranked candidate list. The list is already
	// sorted by score descending; order of survivors must be preserved.
	Apply(ctx context.Context, req Request, items []Candidate) []Candidate
}

// ProfileSource exposes the derived profile data the engine and filters
// need without depending on the interaction store directly.
type ProfileSource interface {
	// Confidence returns the profile confidence score in [0, 1].
	// Users with no history yield the cold-start default of 0.1.
	Confidence(userID string) float64

	// Viewed returns the set of item IDs the user has viewed.
	Viewed(userID string) map[string]struct{}
}
