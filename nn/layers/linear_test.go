package layers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fcnet/tensor"
)

func TestLinearForwardFlat(t *testing.T) {
	lin := NewLinear(2, 2)
	copy(lin.W.Data, []float64{1, 2, 3, 4})
	copy(lin.B.Data, []float64{0.5, -0.5})

	out, err := lin.Forward(tensor.NewWithData([]float64{1, 1}))
	require.NoError(t, err)
	require.Equal(t, []int{2}, out.Shape)
	require.InDeltaSlice(t, []float64{3.5, 6.5}, out.Data, 1e-12)
}

func TestLinearForwardBatched(t *testing.T) {
	lin := NewLinear(2, 2)
	copy(lin.W.Data, []float64{1, 2, 3, 4})

	// columns (1, 0) and (0, 1)
	x := &tensor.Tensor{Data: []float64{1, 0, 0, 1}, Shape: []int{2, 2}}
	out, err := lin.Forward(x)
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, out.Shape)
	require.InDeltaSlice(t, []float64{1, 2, 3, 4}, out.Data, 1e-12)
}

func TestLinearForwardWrongDim(t *testing.T) {
	lin := NewLinear(3, 2)
	_, err := lin.Forward(tensor.NewWithData([]float64{1, 2}))
	require.Error(t, err)
}

func TestLinearBackwardFlat(t *testing.T) {
	lin := NewLinear(2, 2)
	copy(lin.W.Data, []float64{1, 2, 3, 4})

	_, err := lin.Forward(tensor.NewWithData([]float64{1, 2}))
	require.NoError(t, err)

	gradIn, err := lin.Backward(tensor.NewWithData([]float64{1, 2}))
	require.NoError(t, err)

	// dL/dW = gradOut · xᵀ
	require.InDeltaSlice(t, []float64{1, 2, 2, 4}, lin.GradW.Data, 1e-12)
	// dL/dB = gradOut
	require.InDeltaSlice(t, []float64{1, 2}, lin.GradB.Data, 1e-12)
	// dL/dx = Wᵀ · gradOut
	require.Equal(t, []int{2}, gradIn.Shape)
	require.InDeltaSlice(t, []float64{7, 10}, gradIn.Data, 1e-12)
}

func TestLinearBackwardBatchAveraging(t *testing.T) {
	lin := NewLinear(2, 2)
	copy(lin.W.Data, []float64{1, 0, 0, 1})

	x := &tensor.Tensor{Data: []float64{1, 0, 0, 1}, Shape: []int{2, 2}}
	_, err := lin.Forward(x)
	require.NoError(t, err)

	grad := &tensor.Tensor{Data: []float64{1, 0, 0, 1}, Shape: []int{2, 2}}
	gradIn, err := lin.Backward(grad)
	require.NoError(t, err)

	// per-sample outer products averaged over the batch of 2
	require.InDeltaSlice(t, []float64{0.5, 0, 0, 0.5}, lin.GradW.Data, 1e-12)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, lin.GradB.Data, 1e-12)
	require.Equal(t, []int{2, 2}, gradIn.Shape)
}

func TestLinearBackwardWithoutForward(t *testing.T) {
	lin := NewLinear(2, 2)
	_, err := lin.Backward(tensor.NewWithData([]float64{1, 2}))
	require.Error(t, err)
}

// Finite differences on a tiny layer confirm the analytic gradients.
func TestLinearGradientNumerically(t *testing.T) {
	lin := NewLinear(2, 1)
	copy(lin.W.Data, []float64{0.3, -0.7})
	copy(lin.B.Data, []float64{0.1})
	x := tensor.NewWithData([]float64{0.5, 2})

	// loss = y² / 2, so dL/dy = y
	forwardLoss := func() float64 {
		out, err := lin.Forward(x)
		require.NoError(t, err)
		return out.Data[0] * out.Data[0] / 2
	}

	base, err := lin.Forward(x)
	require.NoError(t, err)
	_, err = lin.Backward(tensor.NewWithData([]float64{base.Data[0]}))
	require.NoError(t, err)

	const eps = 1e-6
	for i := range lin.W.Data {
		orig := lin.W.Data[i]
		lin.W.Data[i] = orig + eps
		plus := forwardLoss()
		lin.W.Data[i] = orig - eps
		minus := forwardLoss()
		lin.W.Data[i] = orig
		require.InDelta(t, (plus-minus)/(2*eps), lin.GradW.Data[i], 1e-5)
	}
}

func TestLinearInitXavier(t *testing.T) {
	lin := NewLinear(100, 50)
	lin.InitXavier(42)

	limit := 0.2 // sqrt(6/150) ≈ 0.2
	nonZero := 0
	for _, w := range lin.W.Data {
		if w != 0 {
			nonZero++
		}
		require.LessOrEqual(t, w, limit)
		require.GreaterOrEqual(t, w, -limit)
	}
	require.Greater(t, nonZero, len(lin.W.Data)/2)
	// bias stays zero
	for _, b := range lin.B.Data {
		require.Zero(t, b)
	}
}

func TestLinearTag(t *testing.T) {
	require.Equal(t, "Linear_784_128", NewLinear(784, 128).Tag())
}
