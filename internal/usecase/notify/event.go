// Package notify provides the in-process publish/subscribe bus carrying
// news change events to currently connected viewers. Delivery is
// best-effort: an event published while no subscriber is attached is
// dropped, and a subscriber never sees events from before it attached.
package notify

// Event kinds, used for logging and metrics labels.
const (
	KindCreated         = "created"
	KindPublished       = "published"
	KindPublishedOnTime = "published_on_time"
	KindUpdated         = "updated"
	KindDeleted         = "deleted"
)

// Event describes one news mutation. Message is the human-readable text
// streamed to subscribers; Kind classifies the mutation for observability.
type Event struct {
	Kind    string
	Message string
}
