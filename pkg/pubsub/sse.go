package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/ontology-explorer/pkg/logging"
)

// TopicConfig configures buffering behavior for a topic
type TopicConfig struct {
	BufferSize int  // events kept for late subscribers (0 = none)
	ReplayAll  bool // replay the whole buffer instead of only the last event
}

// subscriberQueue is the per-subscription channel capacity
const subscriberQueue = 64

// topic is the state of one topic. Guarded by SSEPublisher.mu.
type topic struct {
	config  TopicConfig
	version int
	recent  []Event
	state   *Event // replaces the buffer for new subscribers when set
	subs    map[*sseSubscription]struct{}
}

func (t *topic) remember(event Event) {
	if t.config.BufferSize <= 0 {
		return
	}
	t.recent = append(t.recent, event)
	if over := len(t.recent) - t.config.BufferSize; over > 0 {
		t.recent = t.recent[over:]
	}
}

// replay returns what a new subscriber should see first
func (t *topic) replay() []Event {
	if t.state != nil {
		return []Event{*t.state}
	}
	if len(t.recent) == 0 || t.config.ReplayAll {
		return t.recent
	}
	return t.recent[len(t.recent)-1:]
}

// SSEPublisher implements Publisher for Server-Sent Event streams. Slow
// subscribers lose events instead of stalling publishers.
type SSEPublisher struct {
	mu      sync.RWMutex
	topics  map[string]*topic
	closed  bool
	dropped int
}

// NewSSEPublisher creates a new SSE-based publisher
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{topics: make(map[string]*topic)}
}

// NewExplorerPublisher creates a publisher with the explorer topics configured:
// late subscribers get the last forest status and the view state last passed
// to PublishState. View diffs are not buffered.
func NewExplorerPublisher() *SSEPublisher {
	p := NewSSEPublisher()
	p.ConfigureTopic(TopicForest, TopicConfig{BufferSize: 1})
	p.ConfigureTopic(TopicView, TopicConfig{})
	return p
}

// topicLocked returns the state for name, creating it on first use
func (p *SSEPublisher) topicLocked(name string) *topic {
	t, ok := p.topics[name]
	if !ok {
		t = &topic{subs: make(map[*sseSubscription]struct{})}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets buffering configuration for a topic
func (p *SSEPublisher) ConfigureTopic(name string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topicLocked(name).config = config
}

// Subscribe registers a subscription that first receives the replay and then
// live events. It ends when ctx is done or Close is called.
func (p *SSEPublisher) Subscribe(ctx context.Context, name string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("publisher is closed")
	}

	t := p.topicLocked(name)
	sub := &sseSubscription{
		topic:     name,
		events:    make(chan Event, subscriberQueue),
		publisher: p,
		done:      make(chan struct{}),
	}

	// Replaying under the lock keeps replayed events ahead of live ones
	replay := t.replay()
	for _, event := range replay {
		select {
		case sub.events <- event:
		default:
			logging.Warn("could not replay event to new subscriber", "topic", name, "version", event.Version)
		}
	}
	if len(replay) > 0 {
		logging.Debug("replayed events to new subscriber", "topic", name, "count", len(replay))
	}
	t.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Publish marshals data once and fans it out to every subscriber of name
func (p *SSEPublisher) Publish(name string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	return p.publish(name, eventType, payload, nil)
}

// PublishState publishes like Publish and in the same step makes state the
// event new subscribers of name start from, ahead of any buffered events.
func (p *SSEPublisher) PublishState(name, eventType string, data interface{}, stateType string, state interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	statePayload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return p.publish(name, eventType, payload, &Event{Topic: name, Type: stateType, Data: statePayload})
}

func (p *SSEPublisher) publish(name, eventType string, payload json.RawMessage, state *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	t := p.topicLocked(name)
	t.version++
	event := Event{Topic: name, Type: eventType, Data: payload, Version: t.version}
	t.remember(event)
	if state != nil {
		state.Version = t.version
		t.state = state
	}

	dropped := 0
	for sub := range t.subs {
		select {
		case sub.events <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		p.dropped += dropped
		logging.Warn("subscription queue full, dropping event", "topic", name, "type", eventType, "subscribers", dropped)
	}

	return nil
}

// Dropped returns how many deliveries were lost to full subscriber queues
func (p *SSEPublisher) Dropped() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dropped
}

func (p *SSEPublisher) subscriberCount(name string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if t, ok := p.topics[name]; ok {
		return len(t.subs)
	}
	return 0
}

// Close ends every subscription and rejects further use
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			sub.closeLocked()
		}
		t.subs = nil
	}
	return nil
}

// remove drops sub from its topic and closes its channel
func (p *SSEPublisher) remove(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.topics[sub.topic]; ok {
		delete(t.subs, sub)
	}
	sub.closeLocked()
}

// sseSubscription implements Subscription. Its channel is only written and
// closed while the publisher lock is held.
type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher

	once sync.Once
	done chan struct{}
}

func (s *sseSubscription) closeLocked() {
	s.once.Do(func() {
		close(s.events)
		close(s.done)
	})
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

// Close unsubscribes and closes the events channel
func (s *sseSubscription) Close() error {
	s.publisher.remove(s)
	return nil
}

// WriteSSE writes an event as one SSE frame. The event type doubles as the
// SSE event name and the version as its id, so browsers can resume.
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.Version, event.Type, jsonData)
	return err
}
