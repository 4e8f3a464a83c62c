package neat

import (
	"log/slog"
	"math"
)

// Rand is the source of randomness consumed by every stochastic operation in this package.
// *math/rand.Rand satisfies it; tests pass a seeded source for reproducible runs.
type Rand interface {
	Float64() float64
	Intn(n int) int
	NormFloat64() float64
}

// logger is used for the few events worth reporting (config loads, registry resets).
var logger = slog.Default()

// SetLogger replaces the package logger. Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// Logger returns the logger set with SetLogger. Sibling packages log through it.
func Logger() *slog.Logger {
	return logger
}

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// flipCoin returns true with the given probability.
func flipCoin(rng Rand, chance float64) bool {
	return rng.Float64() < chance
}

// gaussian samples N(0, stdev).
func gaussian(rng Rand, stdev float64) float64 {
	return rng.NormFloat64() * stdev
}
