package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/observability"
)

// ErrClosed is returned after the publisher has been closed.
var ErrClosed = errors.New("publisher is closed")

// SubscriberBuffer is the channel capacity of every subscription.
const SubscriberBuffer = 64

// TopicConfig configures buffering for a topic.
type TopicConfig struct {
	BufferSize int  // events kept for late subscribers, 0 disables replay
	ReplayAll  bool // replay the whole buffer instead of the last event only
}

// SSEPublisher implements Publisher for Server-Sent Events streams.
type SSEPublisher struct {
	mu            sync.Mutex
	subscriptions map[string]map[*sseSubscription]struct{}
	version       map[string]uint64
	buffer        map[string][]Event
	topics        map[string]TopicConfig
	logger        *log.Logger
	closed        bool
}

// NewSSEPublisher creates a publisher. A nil logger discards warnings.
func NewSSEPublisher(logger *log.Logger) *SSEPublisher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SSEPublisher{
		subscriptions: make(map[string]map[*sseSubscription]struct{}),
		version:       make(map[string]uint64),
		buffer:        make(map[string][]Event),
		topics:        make(map[string]TopicConfig),
		logger:        logger.WithPrefix("pubsub"),
	}
}

// ConfigureTopic sets buffering for a topic. Events already buffered are
// trimmed to the new size.
func (p *SSEPublisher) ConfigureTopic(topic string, cfg TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics[topic] = cfg
	p.buffer[topic] = trim(p.buffer[topic], cfg.BufferSize)
}

// Subscribe joins a topic and replays buffered events. Replay happens before
// any event published afterwards, so a subscriber sees versions in order.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	if err := errs.ValidateTopic(topic); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, SubscriberBuffer),
		publisher: p,
		ctx:       context.WithoutCancel(ctx),
	}
	if p.subscriptions[topic] == nil {
		p.subscriptions[topic] = make(map[*sseSubscription]struct{})
	}
	p.subscriptions[topic][sub] = struct{}{}

	replay := p.buffer[topic]
	if !p.topics[topic].ReplayAll && len(replay) > 0 {
		replay = replay[len(replay)-1:]
	}
	for _, ev := range replay {
		sub.deliver(ev, p.logger)
	}
	p.mu.Unlock()

	if len(replay) > 0 {
		p.logger.Debug("replayed events", "topic", topic, "count", len(replay))
	}
	observability.Live().OnSubscribe(ctx, topic, 1)

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish sends an event to all subscribers of topic without blocking.
func (p *SSEPublisher) Publish(topic, eventType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.version[topic]++
	ev := Event{Topic: topic, Type: eventType, Data: raw, Version: p.version[topic]}

	if cfg := p.topics[topic]; cfg.BufferSize > 0 {
		p.buffer[topic] = trim(append(p.buffer[topic], ev), cfg.BufferSize)
	}

	for sub := range p.subscriptions[topic] {
		sub.deliver(ev, p.logger)
	}
	return nil
}

// Subscribers returns the number of subscriptions to topic.
func (p *SSEPublisher) Subscribers(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscriptions[topic])
}

// Close shuts down the publisher and closes every subscription channel.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscriptions {
		for sub := range subs {
			sub.mu.Lock()
			sub.closed = true
			close(sub.events)
			sub.mu.Unlock()
		}
	}
	p.subscriptions = make(map[string]map[*sseSubscription]struct{})
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subscriptions[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.subscriptions, sub.topic)
		}
	}
}

func trim(events []Event, size int) []Event {
	if size <= 0 {
		return nil
	}
	if len(events) > size {
		return append([]Event(nil), events[len(events)-size:]...)
	}
	return events
}

// =============================================================================
// Subscription
// =============================================================================

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	ctx       context.Context

	mu     sync.Mutex
	closed bool
}

func (s *sseSubscription) Topic() string        { return s.topic }
func (s *sseSubscription) Events() <-chan Event { return s.events }

func (s *sseSubscription) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.publisher.unsubscribe(s)
	observability.Live().OnSubscribe(s.ctx, s.topic, -1)
	return nil
}

// deliver is called with the publisher lock held.
func (s *sseSubscription) deliver(ev Event, logger *log.Logger) {
	select {
	case s.events <- ev:
	default:
		logger.Warn("subscriber too slow, dropping event", "topic", ev.Topic, "version", ev.Version)
	}
}

// =============================================================================
// Wire format
// =============================================================================

// WriteSSE writes an event in Server-Sent Events framing:
//
//	id: <version>
//	event: <type>
//	data: <event JSON>
func WriteSSE(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Version, ev.Type, data)
	return err
}
