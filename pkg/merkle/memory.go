package merkle

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// MemoryStorer keeps nodes in process memory.
type MemoryStorer struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

// NewMemoryStorer returns an empty MemoryStorer.
func NewMemoryStorer() *MemoryStorer {
	return &MemoryStorer{
		nodes: make(map[string]*Node),
	}
}

func (s *MemoryStorer) Put(_ context.Context, node *Node) error {
	if node == nil {
		return errors.New("cannot store nil node")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.Hash]; ok {
		return nil
	}
	s.nodes[node.Hash] = node
	return nil
}

func (s *MemoryStorer) Get(_ context.Context, hash string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[hash]
	if !ok {
		return nil, ErrNotFound{Hash: hash}
	}
	return node, nil
}

func (s *MemoryStorer) Ancestry(ctx context.Context, hash string) ([]*Node, error) {
	var path []*Node
	for {
		node, err := s.Get(ctx, hash)
		if err != nil {
			return nil, err
		}
		path = append(path, node)
		if node.ParentHash == nil {
			return path, nil
		}
		hash = *node.ParentHash
	}
}

func (s *MemoryStorer) Descendants(ctx context.Context, hash string) ([]*Node, error) {
	path, err := s.Ancestry(ctx, hash)
	if err != nil {
		return nil, err
	}
	slices.Reverse(path)
	return path, nil
}

func (s *MemoryStorer) Depth(ctx context.Context, hash string) (int, error) {
	path, err := s.Ancestry(ctx, hash)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

func (s *MemoryStorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]*Node)
	return nil
}
