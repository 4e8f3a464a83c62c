// Package store persists lineage configurations and genomes, keyed by run.
// Payloads are the JSON records produced by the neat codec.
package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/baldhumanity/neat-genes/neat"
	"github.com/google/uuid"
)

// Store saves and restores the state of evolutionary runs.
//
// A run's Config must be loaded before its genomes: LoadGenome attaches each
// genome to the Config it is given, which should be the one returned by
// LoadConfig for the same run so the restored genomes share one lineage.
type Store interface {
	Init(ctx context.Context) error
	SaveConfig(ctx context.Context, runID string, cfg *neat.Config) error
	LoadConfig(ctx context.Context, runID string) (*neat.Config, bool, error)
	// SaveGenome stores g under id, generating a new id when id is empty. It returns the id used.
	SaveGenome(ctx context.Context, runID, id string, g *neat.Genome) (string, error)
	LoadGenome(ctx context.Context, runID, id string, cfg *neat.Config) (*neat.Genome, bool, error)
	// ListGenomes returns the ids of a run's genomes in ascending order.
	ListGenomes(ctx context.Context, runID string) ([]string, error)
}

// NewGenomeID returns a fresh random genome id.
func NewGenomeID() string {
	return uuid.NewString()
}

func encodeConfig(cfg *neat.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := cfg.Save(&buf, neat.JSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeConfig(payload []byte) (*neat.Config, error) {
	return neat.LoadConfigRecord(bytes.NewReader(payload), neat.JSON)
}

func encodeGenome(g *neat.Genome) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Save(&buf, neat.JSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGenome(payload []byte, cfg *neat.Config) (*neat.Genome, error) {
	return neat.LoadGenome(bytes.NewReader(payload), cfg, neat.JSON)
}

func requireRun(runID string) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	return nil
}
