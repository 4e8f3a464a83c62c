package neat

import (
	"fmt"
	"math"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// DefaultActivation is the activation used when a Config does not name one.
const DefaultActivation = "sigmoid"

// ActivationFunctions maps names to the bounded activations the evaluator accepts.
var ActivationFunctions = map[string]ActivationType{
	"sigmoid":           Sigmoid,
	"steepened_sigmoid": SteepenedSigmoid,
	"tanh":              Tanh,
	"clamped":           Clamped,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	// Split on sign so math.Exp never overflows for large |x|.
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}

// SteepenedSigmoid is the logistic function with the slope of 4.9 used in the NEAT paper.
func SteepenedSigmoid(x float64) float64 {
	return Sigmoid(4.9 * x)
}

// Tanh activation function.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// Clamped activation function (clamps output between -1 and 1).
func Clamped(x float64) float64 {
	return clamp(x, -1.0, 1.0)
}
