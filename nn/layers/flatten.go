package layers

import (
	"fcnet/tensor"
)

// Flatten collapses any input to a 1-D tensor and restores the original
// shape on the way back.
type Flatten struct {
	lastShape []int
}

func NewFlatten() *Flatten { return &Flatten{} }

func (f *Flatten) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	f.lastShape = append([]int(nil), x.Shape...)
	return &tensor.Tensor{Data: x.Data, Shape: []int{len(x.Data)}}, nil
}

func (f *Flatten) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	return &tensor.Tensor{Data: gradOut.Data, Shape: append([]int(nil), f.lastShape...)}, nil
}
