package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/baldhumanity/neat-genes/neat"
)

type genomeKey struct {
	runID string
	id    string
}

type genomeEntry struct {
	fitness float64
	payload []byte
}

// MemoryStore keeps encoded records in process memory. Records are stored
// encoded so loads always produce independent copies.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	configs     map[string][]byte
	genomes     map[genomeKey]genomeEntry
}

// NewMemoryStore returns an empty in-memory store. Call Init before use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.configs = make(map[string][]byte)
	s.genomes = make(map[genomeKey]genomeEntry)
	return nil
}

func (s *MemoryStore) SaveConfig(_ context.Context, runID string, cfg *neat.Config) error {
	if err := requireRun(runID); err != nil {
		return err
	}
	payload, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return errNotInitialized
	}
	s.configs[runID] = payload
	return nil
}

func (s *MemoryStore) LoadConfig(_ context.Context, runID string) (*neat.Config, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, false, errNotInitialized
	}

	payload, ok := s.configs[runID]
	if !ok {
		return nil, false, nil
	}
	cfg, err := decodeConfig(payload)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, runID, id string, g *neat.Genome) (string, error) {
	if err := requireRun(runID); err != nil {
		return "", err
	}
	if id == "" {
		id = NewGenomeID()
	}
	payload, err := encodeGenome(g)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return "", errNotInitialized
	}
	s.genomes[genomeKey{runID: runID, id: id}] = genomeEntry{fitness: g.Fitness(), payload: payload}
	return id, nil
}

func (s *MemoryStore) LoadGenome(_ context.Context, runID, id string, cfg *neat.Config) (*neat.Genome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, false, errNotInitialized
	}

	entry, ok := s.genomes[genomeKey{runID: runID, id: id}]
	if !ok {
		return nil, false, nil
	}
	g, err := decodeGenome(entry.payload, cfg)
	if err != nil {
		return nil, false, err
	}
	g.SetFitness(entry.fitness)
	return g, true, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context, runID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, errNotInitialized
	}

	ids := []string{}
	for k := range s.genomes {
		if k.runID == runID {
			ids = append(ids, k.id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

var errNotInitialized = errors.New("store is not initialized")
