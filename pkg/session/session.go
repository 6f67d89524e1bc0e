// Package session is the interaction surface over one loaded ontology. Each
// call is a single atomic step that returns a fresh view snapshot.
package session

import (
	"sync"

	"github.com/ritzau/ontology-explorer/pkg/expansion"
	"github.com/ritzau/ontology-explorer/pkg/graph"
	"github.com/ritzau/ontology-explorer/pkg/ingest"
	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/metrics"
	"github.com/ritzau/ontology-explorer/pkg/model"
	"github.com/ritzau/ontology-explorer/pkg/pubsub"
	"github.com/ritzau/ontology-explorer/pkg/search"
	"github.com/ritzau/ontology-explorer/pkg/stats"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/view"
)

// Operation names used for metrics and logs
const (
	OpToggle      = "toggle"
	OpExpandAll   = "expand_all"
	OpCollapseAll = "collapse_all"
	OpExpandPath  = "expand_path"
	OpFilter      = "filter"
	OpReveal      = "reveal"
	OpLoad        = "load"
)

// Session serializes interactions; the HTTP server and the file watcher
// call it from different goroutines.
type Session struct {
	mu       sync.Mutex
	store    *tree.Store
	expander *expansion.Controller
	builder  *graph.Builder

	doc   *ingest.Document
	query string
	vis   *search.VisibilitySet
	last  *view.Snapshot

	publisher pubsub.Publisher
	metrics   *metrics.Collector
}

// Option configures a Session
type Option func(*Session)

// WithPublisher publishes forest status and view diffs to p
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithMetrics records interactions in c
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) { s.metrics = c }
}

// New creates a session holding an empty forest
func New(opts ...Option) *Session {
	store := tree.NewStore()
	s := &Session{
		store:    store,
		expander: expansion.NewController(store),
		builder:  graph.NewBuilder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.vis = search.Filter(store.Forest(), "")
	return s
}

// Load replaces the forest with one built from doc. On failure the previous
// forest, filter and expansion state stay exactly as they were.
func (s *Session) Load(doc *ingest.Document) (*view.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.New("session")

	forest, err := s.store.Load(doc.Source)
	if err != nil {
		result := metrics.ResultError
		if tree.IsMalformed(err) {
			result = metrics.ResultRejected
		}
		s.recordLoad(result)
		s.publishStatus(pubsub.EventReloadFailed, pubsub.ForestStatus{
			Source:     doc.Name,
			Generation: s.store.Generation(),
			Nodes:      s.store.Forest().Len(),
			Error:      err.Error(),
		})
		return nil, err
	}

	s.doc = doc
	s.vis = search.Filter(forest, s.query)
	s.recordLoad(metrics.ResultOK)
	s.publishStatus(pubsub.EventLoaded, pubsub.ForestStatus{
		Source:     doc.Name,
		Generation: s.store.Generation(),
		Nodes:      forest.Len(),
	})
	logger.Info("ontology loaded", "source", doc.Name, "format", string(doc.Format), "nodes", forest.Len())

	return s.refresh(OpLoad), nil
}

// Toggle flips one node. changed is false for leaves and unknown ids.
func (s *Session) Toggle(id string) (snap *view.Snapshot, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed = s.expander.Toggle(id)
	return s.refresh(OpToggle), changed
}

// ExpandAll expands every node
func (s *Session) ExpandAll() *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expander.ExpandAll()
	return s.refresh(OpExpandAll)
}

// CollapseAll collapses every node
func (s *Session) CollapseAll() *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expander.CollapseAll()
	return s.refresh(OpCollapseAll)
}

// ExpandPath opens every ancestor of id. found is false for unknown ids.
func (s *Session) ExpandPath(id string) (snap *view.Snapshot, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found = s.store.FindByID(id)
	s.expander.ExpandPath(id)
	return s.refresh(OpExpandPath), found
}

// Filter sets the label query. Expansion state is left alone, so matches
// under collapsed nodes stay out of the view until revealed.
func (s *Session) Filter(query string) *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setQuery(query)
	return s.refresh(OpFilter)
}

// Reveal filters like Filter and then expands the path to every match
func (s *Session) Reveal(query string) *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setQuery(query)
	for _, id := range s.vis.Matches() {
		s.expander.ExpandPath(id)
	}
	return s.refresh(OpReveal)
}

func (s *Session) setQuery(query string) {
	s.query = query
	s.vis = search.Filter(s.store.Forest(), query)
}

// Snapshot returns the current view without changing anything
func (s *Session) Snapshot() *view.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		s.last = view.Build(s.store.Forest(), s.vis, s.store.Generation())
	}
	return s.last
}

// refresh rebuilds the view, publishes the change and counts the operation
func (s *Session) refresh(op string) *view.Snapshot {
	next := view.Build(s.store.Forest(), s.vis, s.store.Generation())
	diff := view.ComputeDiff(s.last, next)
	s.last = next

	if s.metrics != nil {
		if op != OpLoad {
			s.metrics.Interaction(op)
		}
		s.metrics.ViewRows.Set(float64(len(next.Rows)))
	}

	if s.publisher != nil && !diff.Empty() {
		eventType := pubsub.EventViewDiff
		full := diff
		if diff.Full {
			eventType = pubsub.EventViewFull
		} else {
			full = view.ComputeDiff(nil, next)
		}
		if err := s.publisher.PublishState(pubsub.TopicView, eventType, diff, pubsub.EventViewFull, full); err != nil {
			logging.Warn("failed to publish view update", "op", op, "error", err)
		}
	}

	logging.Trace("view refreshed", "op", op, "rows", len(next.Rows), "hash", next.Hash)
	return next
}

func (s *Session) recordLoad(result string) {
	if s.metrics != nil {
		s.metrics.Load(result, s.store.Forest().Len(), s.store.Generation())
	}
}

func (s *Session) publishStatus(eventType string, status pubsub.ForestStatus) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(pubsub.TopicForest, eventType, status); err != nil {
		logging.Warn("failed to publish forest status", "type", eventType, "error", err)
	}
}

// NodeDetail is a read-only copy of one node
type NodeDetail struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Kind       model.Kind       `json:"kind"`
	Icon       string           `json:"icon"`
	Level      int              `json:"level"`
	Expanded   bool             `json:"expanded"`
	ParentID   string           `json:"parentId,omitempty"`
	Properties model.Properties `json:"properties"`
	Children   []string         `json:"children"`
	Visible    bool             `json:"visible"`
}

func detail(f *tree.Forest, n *tree.Node, vis *search.VisibilitySet) NodeDetail {
	children := f.Children(n)
	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	return NodeDetail{
		ID:         n.ID,
		Label:      n.Label,
		Kind:       n.Kind,
		Icon:       n.Icon,
		Level:      n.Level,
		Expanded:   n.Expanded,
		ParentID:   n.ParentID,
		Properties: n.Properties.Clone(),
		Children:   ids,
		Visible:    vis.Contains(n.ID),
	}
}

// Node looks a node up by id
func (s *Session) Node(id string) (NodeDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.store.FindByID(id)
	if !ok {
		return NodeDetail{}, false
	}
	return detail(s.store.Forest(), n, s.vis), true
}

// Path returns the nodes from the root down to id, or nil for unknown ids
func (s *Session) Path(id string) []NodeDetail {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.store.Path(id)
	if path == nil {
		return nil
	}
	out := make([]NodeDetail, len(path))
	for i, n := range path {
		out[i] = detail(s.store.Forest(), n, s.vis)
	}
	return out
}

// Graph exports the forest, or only its filter-visible part
func (s *Session) Graph(visibleOnly bool) *model.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()

	if visibleOnly {
		return s.builder.FromVisible(s.store.Forest(), s.vis)
	}
	return s.builder.FromForest(s.store.Forest())
}

// TripleGraph exports the loaded document statement by statement
func (s *Session) TripleGraph() *model.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return model.NewGraph()
	}
	return s.builder.FromTriples(s.doc.Statements())
}

// Stats summarizes the current forest
func (s *Session) Stats() stats.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return stats.Collect(s.store.Forest())
}

// Query returns the active filter query
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query
}

// SourceName names the loaded document, empty before the first load
func (s *Session) SourceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ""
	}
	return s.doc.Name
}
