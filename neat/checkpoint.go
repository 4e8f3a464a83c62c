package neat

import (
	"compress/gzip"
	"fmt"
	"io"
)

// CheckpointData bundles a lineage's Config with genomes saved from it, so
// that restored genomes and registry stay consistent with each other.
type CheckpointData struct {
	Config  ConfigRecord       `json:"config" yaml:"config"`
	Genomes []CheckpointGenome `json:"genomes" yaml:"genomes"`
}

// CheckpointGenome is a genome record plus the fitness it last scored.
type CheckpointGenome struct {
	Fitness float64      `json:"fitness" yaml:"fitness"`
	Genome  GenomeRecord `json:"genome" yaml:"genome"`
}

// SaveCheckpoint writes config and genomes to w as one gzip-compressed record.
// Every genome must belong to config's lineage.
func SaveCheckpoint(w io.Writer, config *Config, genomes []*Genome, enc Encoding) error {
	data := CheckpointData{
		Config:  config.Record(),
		Genomes: make([]CheckpointGenome, 0, len(genomes)),
	}
	for i, g := range genomes {
		if g.config != config {
			return fmt.Errorf("checkpoint genome %d: %w", i, ErrCrossLineage)
		}
		data.Genomes = append(data.Genomes, CheckpointGenome{Fitness: g.fitness, Genome: g.Record()})
	}

	gzWriter := gzip.NewWriter(w)
	if err := enc.Encode(gzWriter, data); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	logger.Debug("checkpoint saved", "genomes", len(genomes), "innovation", *data.Config.InnovationNumber)
	return nil
}

// LoadCheckpoint restores a Config and its genomes. All returned genomes share the returned Config.
func LoadCheckpoint(r io.Reader, enc Encoding) (*Config, []*Genome, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: checkpoint is not gzip data: %v", ErrMalformedRecord, err)
	}
	defer gzReader.Close()

	var data CheckpointData
	if err := enc.Decode(gzReader, &data); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	config, err := data.Config.Config()
	if err != nil {
		return nil, nil, fmt.Errorf("checkpoint config: %w", err)
	}
	genomes := make([]*Genome, 0, len(data.Genomes))
	for i, cg := range data.Genomes {
		g, err := cg.Genome.Genome(config)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint genome %d: %w", i, err)
		}
		g.fitness = cg.Fitness
		genomes = append(genomes, g)
	}
	return config, genomes, nil
}
