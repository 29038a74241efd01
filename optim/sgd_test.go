package optim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fcnet/nn"
	"fcnet/nn/layers"
	"fcnet/tensor"
)

func TestSGDPlainStep(t *testing.T) {
	lin := layers.NewLinear(1, 1)
	lin.W.Data[0] = 1
	lin.GradW = tensor.NewWithData([]float64{1})
	lin.GradB = tensor.NewWithData([]float64{2})
	seq := &nn.Sequential{Layers: []nn.Module{lin}}

	opt := NewSGD(0.1, 0)
	require.NoError(t, opt.Step(seq))
	require.InDelta(t, 0.9, lin.W.Data[0], 1e-12)
	require.InDelta(t, -0.2, lin.B.Data[0], 1e-12)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	lin := layers.NewLinear(1, 1)
	lin.W.Data[0] = 1
	lin.GradW = tensor.NewWithData([]float64{1})
	lin.GradB = tensor.NewWithData([]float64{0})
	seq := &nn.Sequential{Layers: []nn.Module{lin}}

	opt := NewSGD(0.1, 0.5)
	require.NoError(t, opt.Step(seq))
	// v = -0.1
	require.InDelta(t, 0.9, lin.W.Data[0], 1e-12)
	require.NoError(t, opt.Step(seq))
	// v = 0.5*(-0.1) - 0.1 = -0.15
	require.InDelta(t, 0.75, lin.W.Data[0], 1e-12)
}

func TestSGDRequiresGradients(t *testing.T) {
	lin := layers.NewLinear(1, 1)
	seq := &nn.Sequential{Layers: []nn.Module{lin}}
	require.Error(t, NewSGD(0.1, 0).Step(seq))
}

// A linearly separable two-point problem must be learned in a few
// hundred plain-SGD steps.
func TestSGDTrainsSeparableProblem(t *testing.T) {
	model, err := nn.NewMLP(2, nil, 2, "relu")
	require.NoError(t, err)
	model.Init(3)

	inputs := &tensor.Tensor{Data: []float64{
		1, 0, // x values per column
		0, 1, // y values per column
	}, Shape: []int{2, 2}}
	targets := &tensor.Tensor{Data: []float64{
		1, 0,
		0, 1,
	}, Shape: []int{2, 2}}

	loss := &nn.CrossEntropyLoss{}
	opt := NewSGD(0.5, 0)
	var first, last float64
	for step := 0; step < 200; step++ {
		logits, err := model.Forward(inputs)
		require.NoError(t, err)
		val, grad, err := loss.Forward(logits, targets)
		require.NoError(t, err)
		if step == 0 {
			first = val
		}
		last = val
		_, err = model.Backward(grad)
		require.NoError(t, err)
		require.NoError(t, opt.Step(model.Seq))
	}
	require.Less(t, last, first)

	class0, err := model.Predict(tensor.NewWithData([]float64{1, 0}))
	require.NoError(t, err)
	class1, err := model.Predict(tensor.NewWithData([]float64{0, 1}))
	require.NoError(t, err)
	require.Equal(t, 0, class0)
	require.Equal(t, 1, class1)
}
