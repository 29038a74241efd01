package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"fcnet/tensor"
)

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// LayerWeight contains weights and bias for a layer
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
	Bias   *WeightData `json:"bias,omitempty"`
}

// Checkpoint is the persisted model record: the architecture fields
// needed to rebuild the network plus all learned parameters.
type Checkpoint struct {
	Version    string                 `json:"version"`
	InputDim   int                    `json:"input_dim"`
	OutputDim  int                    `json:"output_dim"`
	HiddenDims []int                  `json:"hidden_dims"`
	Activation string                 `json:"activation"`
	Layers     map[string]LayerWeight `json:"layers"`
}

// SaveCheckpoint saves a checkpoint to a JSON file
func SaveCheckpoint(filepath string, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadCheckpoint loads a checkpoint from a JSON file
func LoadCheckpoint(filepath string) (*Checkpoint, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return &cp, nil
}

// TensorToWeightData converts a tensor to serializable weight data
func TensorToWeightData(name string, t *tensor.Tensor) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: append([]int{}, t.Shape...),
		Data:  append([]float64{}, t.Data...), // copy
	}
}

// WeightDataToTensor converts weight data back to a tensor
func WeightDataToTensor(wd *WeightData) *tensor.Tensor {
	t := tensor.New(wd.Shape...)
	copy(t.Data, wd.Data)
	return t
}
