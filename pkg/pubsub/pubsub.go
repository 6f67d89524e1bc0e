package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the explorer
const (
	// TopicForest carries ForestStatus events about loads and reloads
	TopicForest = "forest_status"
	// TopicView carries view diffs after every interaction
	TopicView = "view"
)

// Forest status event types
const (
	EventLoaded       = "loaded"
	EventReloadFailed = "reload_failed"
)

// Event types on TopicView
const (
	EventViewFull = "full"
	EventViewDiff = "diff"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per topic, for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	Topic() string

	// Events is closed by Close, context cancellation or publisher shutdown
	Events() <-chan Event

	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic.
	// Context cancellation will close the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// PublishState sends an event and records state as the starting point
	// for later subscribers of the topic
	PublishState(topic, eventType string, data interface{}, stateType string, state interface{}) error

	Close() error
}

// ForestStatus reports the outcome of a (re)load
type ForestStatus struct {
	Source     string `json:"source"`
	Generation int    `json:"generation"`
	Nodes      int    `json:"nodes"`
	Error      string `json:"error,omitempty"`
}
