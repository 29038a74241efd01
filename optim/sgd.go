// Package optim holds the parameter update rules used by the trainer.
package optim

import (
	"fmt"

	"fcnet/nn"
	"fcnet/nn/layers"
)

// SGD is stochastic gradient descent with optional momentum. With
// Momentum == 0 it reduces to the plain update w -= lr * grad.
type SGD struct {
	LR       float64
	Momentum float64

	velocity map[*layers.Linear]*velocityState
}

type velocityState struct {
	w, b []float64
}

// NewSGD creates an optimizer with the given learning rate and momentum.
func NewSGD(lr, momentum float64) *SGD {
	return &SGD{
		LR:       lr,
		Momentum: momentum,
		velocity: make(map[*layers.Linear]*velocityState),
	}
}

// Step applies one update to every linear layer in the network, consuming
// the gradients produced by the most recent Backward.
func (s *SGD) Step(seq *nn.Sequential) error {
	for _, mod := range seq.Layers {
		lin, ok := mod.(*layers.Linear)
		if !ok {
			continue
		}
		if lin.GradW == nil || lin.GradB == nil {
			return fmt.Errorf("no gradients for %s; run Backward before Step", lin.Tag())
		}
		if s.Momentum == 0 {
			for i := range lin.W.Data {
				lin.W.Data[i] -= s.LR * lin.GradW.Data[i]
			}
			for i := range lin.B.Data {
				lin.B.Data[i] -= s.LR * lin.GradB.Data[i]
			}
			continue
		}
		v := s.velocity[lin]
		if v == nil {
			v = &velocityState{
				w: make([]float64, len(lin.W.Data)),
				b: make([]float64, len(lin.B.Data)),
			}
			s.velocity[lin] = v
		}
		for i := range lin.W.Data {
			v.w[i] = s.Momentum*v.w[i] - s.LR*lin.GradW.Data[i]
			lin.W.Data[i] += v.w[i]
		}
		for i := range lin.B.Data {
			v.b[i] = s.Momentum*v.b[i] - s.LR*lin.GradB.Data[i]
			lin.B.Data[i] += v.b[i]
		}
	}
	return nil
}
