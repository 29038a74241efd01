package layers

import (
	"fmt"
	"math"

	"fcnet/tensor"
)

// Activator is an elementwise nonlinearity with a pointwise derivative.
type Activator interface {
	Activate(x float64) float64
	Derivative(x float64) float64
	fmt.Stringer
}

// ActivatorLookup maps activation names to implementations.
var ActivatorLookup = map[string]Activator{
	"relu":      ReLU{},
	"leakyrelu": LeakyReLU{},
	"sigmoid":   Sigmoid{},
	"tanh":      Tanh{},
}

type ReLU struct{}

func (ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func (ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func (ReLU) String() string { return "relu" }

type LeakyReLU struct{}

func (LeakyReLU) Activate(x float64) float64 {
	if x < 0 {
		return 0.0001 * x
	}
	return x
}

func (LeakyReLU) Derivative(x float64) float64 {
	if x < 0 {
		return 0.0001
	}
	return 1
}

func (LeakyReLU) String() string { return "leakyrelu" }

type Sigmoid struct{}

func (Sigmoid) Activate(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func (s Sigmoid) Derivative(x float64) float64 {
	v := s.Activate(x)
	return v * (1 - v)
}

func (Sigmoid) String() string { return "sigmoid" }

type Tanh struct{}

func (Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

func (Tanh) Derivative(x float64) float64 {
	v := math.Tanh(x)
	return 1 - v*v
}

func (Tanh) String() string { return "tanh" }

// Activation is a layer applying a named elementwise nonlinearity.
type Activation struct {
	act       Activator
	lastInput *tensor.Tensor
}

// NewActivation creates a new activation layer by name.
func NewActivation(name string) (*Activation, error) {
	act, ok := ActivatorLookup[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation: %s", name)
	}
	return &Activation{act: act}, nil
}

// Name returns the lookup name of the wrapped activator.
func (a *Activation) Name() string { return a.act.String() }

// Forward applies the nonlinearity elementwise.
func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	a.lastInput = x.Clone()
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = a.act.Activate(v)
	}
	return out, nil
}

// Backward multiplies the incoming gradient by the derivative at the
// cached pre-activation input.
func (a *Activation) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if a.lastInput == nil {
		return nil, fmt.Errorf("no cached input for backward pass")
	}
	if len(gradOut.Data) != len(a.lastInput.Data) {
		return nil, fmt.Errorf("gradient shape %v does not match cached input %v", gradOut.Shape, a.lastInput.Shape)
	}
	gradIn := tensor.New(gradOut.Shape...)
	for i := range gradIn.Data {
		gradIn.Data[i] = gradOut.Data[i] * a.act.Derivative(a.lastInput.Data[i])
	}
	return gradIn, nil
}
