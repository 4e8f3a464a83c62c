package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config is shared by every genome descended from a common ancestor. It is
// referenced, never copied: two genomes belong to the same lineage exactly
// when they point at the same *Config.
type Config struct {
	Mutation      MutationConfig
	Compatibility CompatibilityConfig
	Activation    string
	Innovations   *InnovationRegistry
}

// MutationConfig holds the per-round chances and magnitudes of the mutation operators.
type MutationConfig struct {
	PerturbationChance    float64 `ini:"perturbation_chance"`
	PerturbationStdev     float64 `ini:"perturbation_stdev"`
	NewLinkChance         float64 `ini:"new_link_chance"`
	BiasLinkChance        float64 `ini:"bias_link_chance"`
	NewLinkWeightStdev    float64 `ini:"new_link_weight_stdev"`
	NewNodeChance         float64 `ini:"new_node_chance"`
	DisableMutationChance float64 `ini:"disable_mutation_chance"`
	EnableMutationChance  float64 `ini:"enable_mutation_chance"`
}

// CompatibilityConfig holds the distance coefficients.
type CompatibilityConfig struct {
	ExcessCoefficient   float64 `ini:"excess_coefficient"`   // c1
	DisjointCoefficient float64 `ini:"disjoint_coefficient"` // c2
	WeightCoefficient   float64 `ini:"weight_coefficient"`   // c3
}

// networkSection is the [Network] section of an INI config.
type networkSection struct {
	Activation string `ini:"activation"`
}

// DefaultMutationConfig returns the default mutation parameters.
func DefaultMutationConfig() MutationConfig {
	return MutationConfig{
		PerturbationChance:    0.1,
		PerturbationStdev:     0.1,
		NewLinkChance:         0.1,
		BiasLinkChance:        0.1,
		NewLinkWeightStdev:    1.0,
		NewNodeChance:         0.1,
		DisableMutationChance: 0.1,
		EnableMutationChance:  0.1,
	}
}

// DefaultCompatibilityConfig returns c1 = c2 = c3 = 1.
func DefaultCompatibilityConfig() CompatibilityConfig {
	return CompatibilityConfig{ExcessCoefficient: 1, DisjointCoefficient: 1, WeightCoefficient: 1}
}

// NewConfig creates a Config with default parameters and an empty innovation registry.
func NewConfig() *Config {
	return &Config{
		Mutation:      DefaultMutationConfig(),
		Compatibility: DefaultCompatibilityConfig(),
		Activation:    DefaultActivation,
		Innovations:   NewInnovationRegistry(),
	}
}

// LoadConfig loads parameters from an INI file. Keys missing from the file keep
// their defaults. The returned Config starts a fresh innovation registry.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := NewConfig()
	if err := cfg.Section("Mutation").MapTo(&config.Mutation); err != nil {
		return nil, fmt.Errorf("failed to map [Mutation] section: %w", err)
	}
	if err := cfg.Section("Compatibility").MapTo(&config.Compatibility); err != nil {
		return nil, fmt.Errorf("failed to map [Compatibility] section: %w", err)
	}
	network := networkSection{Activation: config.Activation}
	if err := cfg.Section("Network").MapTo(&network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	config.Activation = cleanIniString(network.Activation)
	if config.Activation == "" {
		config.Activation = DefaultActivation
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger.Info("config loaded", "path", filePath, "activation", config.Activation)
	return config, nil
}

// Validate checks that every chance is a probability and every magnitude is non-negative.
func (c *Config) Validate() error {
	chances := []struct {
		name  string
		value float64
	}{
		{"perturbation_chance", c.Mutation.PerturbationChance},
		{"new_link_chance", c.Mutation.NewLinkChance},
		{"bias_link_chance", c.Mutation.BiasLinkChance},
		{"new_node_chance", c.Mutation.NewNodeChance},
		{"disable_mutation_chance", c.Mutation.DisableMutationChance},
		{"enable_mutation_chance", c.Mutation.EnableMutationChance},
	}
	for _, ch := range chances {
		if ch.value < 0 || ch.value > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %g", ErrInvalidConfig, ch.name, ch.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"perturbation_stdev", c.Mutation.PerturbationStdev},
		{"new_link_weight_stdev", c.Mutation.NewLinkWeightStdev},
		{"excess_coefficient", c.Compatibility.ExcessCoefficient},
		{"disjoint_coefficient", c.Compatibility.DisjointCoefficient},
		{"weight_coefficient", c.Compatibility.WeightCoefficient},
	}
	for _, nn := range nonNegative {
		if nn.value < 0 {
			return fmt.Errorf("%w: %s cannot be negative, got %g", ErrInvalidConfig, nn.name, nn.value)
		}
	}

	if _, err := GetActivation(c.Activation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Innovations == nil {
		return fmt.Errorf("%w: missing innovation registry", ErrInvalidConfig)
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
