package tree

import (
	"github.com/ritzau/ontology-explorer/pkg/logging"
)

// Store owns the current forest. A forest is replaced wholesale by each
// successful Load; a failed Load leaves the previous forest in place.
type Store struct {
	forest     *Forest
	generation int
}

// NewStore creates a store holding an empty forest
func NewStore() *Store {
	return &Store{forest: newForest(0)}
}

// Load builds a new forest from src and installs it
func (s *Store) Load(src Source) (*Forest, error) {
	logger := logging.New("tree.store")

	forest, err := src.Build()
	if err != nil {
		logger.Warn("load rejected, keeping previous forest", "error", err, "generation", s.generation)
		return nil, err
	}

	s.forest = forest
	s.generation++
	logger.Debug("forest loaded", "nodes", forest.Len(), "roots", len(forest.roots), "generation", s.generation)
	return forest, nil
}

// Forest returns the current forest
func (s *Store) Forest() *Forest {
	return s.forest
}

// Generation counts successful loads
func (s *Store) Generation() int {
	return s.generation
}

// FindByID looks a node up in the current forest
func (s *Store) FindByID(id string) (*Node, bool) {
	return s.forest.Node(id)
}

// Path returns the nodes from the root down to id, or nil when id is unknown
func (s *Store) Path(id string) []*Node {
	return s.forest.Path(id)
}
