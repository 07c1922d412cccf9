package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// The value doubles as the topic name.
type EventType string

const (
	EventMatchCommitted EventType = "match-committed"
	EventMatchUpdated   EventType = "match-updated"
	EventMatchDeleted   EventType = "match-deleted"
)
