// Package pubsub fans live-document events out to event stream clients.
//
// A [Publisher] keeps one set of subscriptions per topic. Each topic can
// buffer its most recent events so that a client joining late still sees the
// current tree: with [TopicConfig.ReplayAll] unset only the last event is
// replayed, which is what the live tree topic uses.
//
// Events are delivered through buffered channels and never block the
// publisher. A subscriber that falls behind loses events; since every tree
// event carries the whole tree, the next one brings it up to date.
package pubsub

import (
	"context"
	"encoding/json"
)

// Event is one message on a topic.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "tree", "error"
	Data    json.RawMessage `json:"data"`
	Version uint64          `json:"version"` // per-topic sequence number, starting at 1
}

// Subscription is a client's view of one topic.
type Subscription interface {
	// Topic returns the subscription topic.
	Topic() string

	// Events returns the channel events are delivered on. It is closed when
	// the publisher shuts down.
	Events() <-chan Event

	// Close stops delivery. It is safe to call more than once.
	Close() error
}

// Publisher manages subscriptions and event publishing.
type Publisher interface {
	// Subscribe joins a topic. Cancelling ctx closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish marshals data to JSON and sends it to every subscriber of topic.
	Publish(topic, eventType string, data any) error

	// Close shuts down the publisher and all subscriptions.
	Close() error
}
