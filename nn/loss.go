package nn

import (
	"fmt"
	"math"

	"fcnet/tensor"
)

// Softmax applies the softmax function to a tensor.
// A 1-D tensor is treated as a single logit vector; a 2-D tensor is
// normalized per column (one sample per column).
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	if len(logits.Shape) == 2 {
		rows, cols := logits.Shape[0], logits.Shape[1]
		out := tensor.New(rows, cols)
		for j := 0; j < cols; j++ {
			softmaxColumn(logits, out, rows, cols, j)
		}
		return out
	}
	n := len(logits.Data)
	out := tensor.New(n)
	maxLogit := logits.Data[0]
	for _, v := range logits.Data {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	for i, v := range logits.Data {
		e := math.Exp(v - maxLogit)
		out.Data[i] = e
		expSum += e
	}
	for i := range out.Data {
		out.Data[i] /= expSum
	}
	return out
}

func softmaxColumn(logits, out *tensor.Tensor, rows, cols, j int) {
	maxLogit := logits.Data[j]
	for i := 0; i < rows; i++ {
		if v := logits.Data[i*cols+j]; v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	for i := 0; i < rows; i++ {
		e := math.Exp(logits.Data[i*cols+j] - maxLogit)
		out.Data[i*cols+j] = e
		expSum += e
	}
	for i := 0; i < rows; i++ {
		out.Data[i*cols+j] /= expSum
	}
}

// CrossEntropyLoss combines softmax with negative log-likelihood against
// one-hot targets.
type CrossEntropyLoss struct{}

// Forward returns the mean cross-entropy over the batch together with the
// gradient of the loss with respect to the logits. Logits and targets must
// share a shape: [classes] or [classes, batch].
func (c *CrossEntropyLoss) Forward(logits, oneHot *tensor.Tensor) (float64, *tensor.Tensor, error) {
	if !tensor.SameShape(logits, oneHot) {
		return 0, nil, fmt.Errorf("logits shape %v does not match targets %v", logits.Shape, oneHot.Shape)
	}
	probs := Softmax(logits)
	loss := 0.0
	for i, p := range probs.Data {
		if oneHot.Data[i] > 0 {
			if p < 1e-10 {
				p = 1e-10
			}
			loss -= oneHot.Data[i] * math.Log(p)
		}
	}
	batch := 1
	if len(logits.Shape) == 2 {
		batch = logits.Shape[1]
	}
	return loss / float64(batch), c.Backward(probs, oneHot), nil
}

// Backward computes the gradient of the cross-entropy loss with softmax.
// grad = (softmax_output - one_hot_label)
func (c *CrossEntropyLoss) Backward(softmaxOut, oneHotLabel *tensor.Tensor) *tensor.Tensor {
	grad := tensor.New(softmaxOut.Shape...)
	for i := range grad.Data {
		grad.Data[i] = softmaxOut.Data[i] - oneHotLabel.Data[i]
	}
	return grad
}

// MSELoss is mean squared error against dense targets.
type MSELoss struct{}

// Forward returns the mean squared error and its gradient with respect to
// the predictions.
func (m *MSELoss) Forward(pred, target *tensor.Tensor) (float64, *tensor.Tensor, error) {
	if !tensor.SameShape(pred, target) {
		return 0, nil, fmt.Errorf("prediction shape %v does not match targets %v", pred.Shape, target.Shape)
	}
	grad := tensor.New(pred.Shape...)
	loss := 0.0
	n := float64(len(pred.Data))
	for i := range pred.Data {
		d := pred.Data[i] - target.Data[i]
		loss += d * d
		grad.Data[i] = 2 * d / n
	}
	return loss / n, grad, nil
}
