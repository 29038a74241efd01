package nn

import (
	"fmt"

	"fcnet/nn/layers"
	"fcnet/tensor"
	"fcnet/utils"
)

const checkpointVersion = "1.0"

// MLP is a stack of fully-connected layers with a shared activation
// between them (none after the output layer, which produces raw logits).
type MLP struct {
	Seq        *Sequential
	InputDim   int
	OutputDim  int
	HiddenDims []int
	Activation string
}

// NewMLP builds an uninitialized network: inputDim → hiddenDims... → outputDim.
func NewMLP(inputDim int, hiddenDims []int, outputDim int, activation string) (*MLP, error) {
	if inputDim <= 0 {
		return nil, fmt.Errorf("input dim must be positive, got %d", inputDim)
	}
	if outputDim <= 0 {
		return nil, fmt.Errorf("output dim must be positive, got %d", outputDim)
	}
	for _, h := range hiddenDims {
		if h <= 0 {
			return nil, fmt.Errorf("hidden dims must be positive, got %v", hiddenDims)
		}
	}

	dims := make([]int, 0, len(hiddenDims)+2)
	dims = append(dims, inputDim)
	dims = append(dims, hiddenDims...)
	dims = append(dims, outputDim)

	var mods []Module
	for i := 0; i < len(dims)-1; i++ {
		mods = append(mods, layers.NewLinear(dims[i], dims[i+1]))
		if i < len(dims)-2 {
			act, err := layers.NewActivation(activation)
			if err != nil {
				return nil, err
			}
			mods = append(mods, act)
		}
	}

	return &MLP{
		Seq:        &Sequential{Layers: mods},
		InputDim:   inputDim,
		OutputDim:  outputDim,
		HiddenDims: append([]int(nil), hiddenDims...),
		Activation: activation,
	}, nil
}

// Init seeds Xavier initialization for every linear layer.
func (m *MLP) Init(seed uint64) {
	for i, lin := range m.Linears() {
		lin.InitXavier(seed + uint64(i))
	}
}

// Linears returns the linear layers in forward order.
func (m *MLP) Linears() []*layers.Linear {
	var lins []*layers.Linear
	for _, mod := range m.Seq.Layers {
		if lin, ok := mod.(*layers.Linear); ok {
			lins = append(lins, lin)
		}
	}
	return lins
}

// Forward runs the network and returns the output logits.
func (m *MLP) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return m.Seq.Forward(x)
}

// Backward propagates the loss gradient through all layers.
func (m *MLP) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	return m.Seq.Backward(grad)
}

// Predict returns the class index with the highest logit for a single
// flat input vector.
func (m *MLP) Predict(x *tensor.Tensor) (int, error) {
	out, err := m.Forward(x)
	if err != nil {
		return 0, err
	}
	return out.ArgMax(), nil
}

// ToCheckpoint captures the architecture and all parameters as a flat
// persistable record.
func (m *MLP) ToCheckpoint() *utils.Checkpoint {
	cp := &utils.Checkpoint{
		Version:    checkpointVersion,
		InputDim:   m.InputDim,
		OutputDim:  m.OutputDim,
		HiddenDims: append([]int(nil), m.HiddenDims...),
		Activation: m.Activation,
		Layers:     make(map[string]utils.LayerWeight),
	}
	for i, mod := range m.Seq.Layers {
		if lin, ok := mod.(*layers.Linear); ok {
			cp.Layers[fmt.Sprintf("linear_%d", i)] = utils.LayerWeight{
				Weight: utils.TensorToWeightData("weight", lin.W),
				Bias:   utils.TensorToWeightData("bias", lin.B),
			}
		}
	}
	return cp
}

// FromCheckpoint rebuilds a network from the recorded architecture fields
// and loads the stored parameters into it. A parameter whose shape does
// not match the rebuilt model is a hard error: the checkpoint and the
// architecture it claims are inconsistent, and there is nothing to fall
// back to.
func FromCheckpoint(cp *utils.Checkpoint) (*MLP, error) {
	m, err := NewMLP(cp.InputDim, cp.HiddenDims, cp.OutputDim, cp.Activation)
	if err != nil {
		return nil, fmt.Errorf("rebuilding model from checkpoint: %w", err)
	}
	for i, mod := range m.Seq.Layers {
		lin, ok := mod.(*layers.Linear)
		if !ok {
			continue
		}
		key := fmt.Sprintf("linear_%d", i)
		lw, ok := cp.Layers[key]
		if !ok {
			return nil, fmt.Errorf("checkpoint is missing parameters for %s", key)
		}
		if err := loadParam(lin.W, lw.Weight, key, "weight"); err != nil {
			return nil, err
		}
		if err := loadParam(lin.B, lw.Bias, key, "bias"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func loadParam(dst *tensor.Tensor, wd *utils.WeightData, key, kind string) error {
	if wd == nil {
		return fmt.Errorf("checkpoint is missing %s for %s", kind, key)
	}
	src := utils.WeightDataToTensor(wd)
	if !tensor.SameShape(dst, src) {
		return fmt.Errorf("checkpoint %s %s shape %v does not match model shape %v", key, kind, wd.Shape, dst.Shape)
	}
	copy(dst.Data, src.Data)
	return nil
}
