package layers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"fcnet/tensor"
)

// Linear is a fully-connected layer: y = W·x + B.
//
// W has shape [outDim, inDim] and B has shape [outDim]. Inputs may be a
// single column vector [inDim] or a batch [inDim, batchSize] with one
// sample per column.
type Linear struct {
	W, B *tensor.Tensor

	// Gradients from the most recent Backward, averaged over the batch.
	// Consumed by the optimizer.
	GradW, GradB *tensor.Tensor

	lastInput *tensor.Tensor
	flatInput bool
}

// NewLinear creates a zero-initialized layer of the given dimensions.
func NewLinear(inDim, outDim int) *Linear {
	return &Linear{
		W: tensor.New(outDim, inDim),
		B: tensor.New(outDim),
	}
}

// InitXavier fills W with Xavier/Glorot uniform samples. The bias stays
// zero. The seed makes runs reproducible.
func (l *Linear) InitXavier(seed uint64) {
	inDim, outDim := l.W.Shape[1], l.W.Shape[0]
	limit := math.Sqrt(6.0 / float64(inDim+outDim))
	u := distuv.Uniform{
		Min: -limit,
		Max: limit,
		Src: rand.NewSource(seed),
	}
	for i := range l.W.Data {
		l.W.Data[i] = u.Rand()
	}
}

// InDim returns the input dimensionality of the layer.
func (l *Linear) InDim() int { return l.W.Shape[1] }

// OutDim returns the output dimensionality of the layer.
func (l *Linear) OutDim() int { return l.W.Shape[0] }

// Forward computes y = Wx + B. A 1-D input produces a 1-D output; a 2-D
// input [inDim, batch] produces [outDim, batch].
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	inDim := l.InDim()
	l.flatInput = len(x.Shape) == 1
	if l.flatInput {
		if x.Shape[0] != inDim {
			return nil, fmt.Errorf("input length %d does not match layer input dim %d", x.Shape[0], inDim)
		}
		x = &tensor.Tensor{Data: x.Data, Shape: []int{inDim, 1}}
	}
	if len(x.Shape) != 2 || x.Shape[0] != inDim {
		return nil, fmt.Errorf("expected input shape [%d, batch], got %v", inDim, x.Shape)
	}
	l.lastInput = x.Clone()

	wx, err := tensor.MatMul(l.W, x)
	if err != nil {
		return nil, err
	}
	// Broadcast bias across the batch.
	batch := wx.Shape[1]
	for j := 0; j < wx.Shape[0]; j++ {
		for b := 0; b < batch; b++ {
			wx.Data[j*batch+b] += l.B.Data[j]
		}
	}
	if l.flatInput {
		return &tensor.Tensor{Data: wx.Data, Shape: []int{wx.Shape[0]}}, nil
	}
	return wx, nil
}

// Backward computes dL/dW, dL/dB (stored on the layer, averaged over the
// batch) and returns dL/dx.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("no cached input for backward pass")
	}
	inDim, outDim := l.InDim(), l.OutDim()
	batch := l.lastInput.Shape[1]

	if len(gradOut.Shape) == 1 {
		if gradOut.Shape[0] != outDim {
			return nil, fmt.Errorf("gradient length %d does not match layer output dim %d", gradOut.Shape[0], outDim)
		}
		gradOut = &tensor.Tensor{Data: gradOut.Data, Shape: []int{outDim, 1}}
	}
	if len(gradOut.Shape) != 2 || gradOut.Shape[0] != outDim || gradOut.Shape[1] != batch {
		return nil, fmt.Errorf("expected gradient shape [%d, %d], got %v", outDim, batch, gradOut.Shape)
	}

	// dL/dW = (1/batch) gradOut · inputᵀ
	inputT := tensor.New(batch, inDim)
	for i := 0; i < inDim; i++ {
		for b := 0; b < batch; b++ {
			inputT.Data[b*inDim+i] = l.lastInput.Data[i*batch+b]
		}
	}
	gradW, err := tensor.MatMul(gradOut, inputT)
	if err != nil {
		return nil, err
	}
	for i := range gradW.Data {
		gradW.Data[i] /= float64(batch)
	}

	// dL/dB = (1/batch) row sums of gradOut
	gradB := tensor.New(outDim)
	for j := 0; j < outDim; j++ {
		for b := 0; b < batch; b++ {
			gradB.Data[j] += gradOut.Data[j*batch+b]
		}
		gradB.Data[j] /= float64(batch)
	}
	l.GradW, l.GradB = gradW, gradB

	// dL/dx = Wᵀ · gradOut
	wT := tensor.New(inDim, outDim)
	for j := 0; j < outDim; j++ {
		for i := 0; i < inDim; i++ {
			wT.Data[i*outDim+j] = l.W.Data[j*inDim+i]
		}
	}
	gradIn, err := tensor.MatMul(wT, gradOut)
	if err != nil {
		return nil, err
	}
	if l.flatInput {
		return &tensor.Tensor{Data: gradIn.Data, Shape: []int{inDim}}, nil
	}
	return gradIn, nil
}

func (l *Linear) Tag() string {
	return fmt.Sprintf("Linear_%d_%d", l.InDim(), l.OutDim())
}
