package utils

import (
	"os"
	"path/filepath"
	"testing"

	"fcnet/tensor"
)

func TestTensorToWeightData(t *testing.T) {
	ten := tensor.New(2, 3)
	for i := range ten.Data {
		ten.Data[i] = float64(i) * 0.5
	}

	wd := TensorToWeightData("test_weight", ten)

	if wd.Name != "test_weight" {
		t.Errorf("Name = %s, want test_weight", wd.Name)
	}
	if len(wd.Shape) != 2 || wd.Shape[0] != 2 || wd.Shape[1] != 3 {
		t.Errorf("Shape = %v, want [2, 3]", wd.Shape)
	}
	if len(wd.Data) != 6 {
		t.Errorf("Data length = %d, want 6", len(wd.Data))
	}
	for i, v := range wd.Data {
		expected := float64(i) * 0.5
		if v != expected {
			t.Errorf("Data[%d] = %f, want %f", i, v, expected)
		}
	}
}

func TestWeightDataToTensor(t *testing.T) {
	wd := &WeightData{
		Name:  "test",
		Shape: []int{3, 4},
		Data:  make([]float64, 12),
	}
	for i := range wd.Data {
		wd.Data[i] = float64(i)
	}

	ten := WeightDataToTensor(wd)

	if len(ten.Shape) != 2 || ten.Shape[0] != 3 || ten.Shape[1] != 4 {
		t.Errorf("Shape = %v, want [3, 4]", ten.Shape)
	}
	for i, v := range ten.Data {
		if v != float64(i) {
			t.Errorf("Data[%d] = %f, want %f", i, v, float64(i))
		}
	}
}

func TestSaveLoadCheckpoint(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "checkpoint_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	checkpointFile := filepath.Join(tmpDir, "model.json")

	cp := &Checkpoint{
		Version:    "1.0",
		InputDim:   784,
		OutputDim:  10,
		HiddenDims: []int{128, 32},
		Activation: "relu",
		Layers: map[string]LayerWeight{
			"linear_0": {
				Weight: &WeightData{
					Name:  "weight",
					Shape: []int{128, 784},
					Data:  make([]float64, 128*784),
				},
				Bias: &WeightData{
					Name:  "bias",
					Shape: []int{128},
					Data:  make([]float64, 128),
				},
			},
			"linear_2": {
				Weight: &WeightData{
					Name:  "weight",
					Shape: []int{32, 128},
					Data:  make([]float64, 32*128),
				},
			},
		},
	}
	for i := range cp.Layers["linear_0"].Weight.Data {
		cp.Layers["linear_0"].Weight.Data[i] = float64(i) * 0.001
	}

	if err := SaveCheckpoint(checkpointFile, cp); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	loaded, err := LoadCheckpoint(checkpointFile)
	if err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	if loaded.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", loaded.Version)
	}
	if loaded.InputDim != 784 || loaded.OutputDim != 10 {
		t.Errorf("dims = %d/%d, want 784/10", loaded.InputDim, loaded.OutputDim)
	}
	if len(loaded.HiddenDims) != 2 || loaded.HiddenDims[0] != 128 || loaded.HiddenDims[1] != 32 {
		t.Errorf("HiddenDims = %v, want [128, 32]", loaded.HiddenDims)
	}
	if loaded.Activation != "relu" {
		t.Errorf("Activation = %s, want relu", loaded.Activation)
	}
	if len(loaded.Layers) != 2 {
		t.Errorf("Layers count = %d, want 2", len(loaded.Layers))
	}

	layer0 := loaded.Layers["linear_0"]
	if layer0.Weight == nil {
		t.Fatal("linear_0 weight is nil")
	}
	if len(layer0.Weight.Shape) != 2 || layer0.Weight.Shape[0] != 128 || layer0.Weight.Shape[1] != 784 {
		t.Errorf("linear_0 weight shape = %v, want [128, 784]", layer0.Weight.Shape)
	}
	if layer0.Weight.Data[1] != 0.001 {
		t.Errorf("linear_0 Weight.Data[1] = %f, want 0.001", layer0.Weight.Data[1])
	}
}

func TestLoadCheckpointNotFound(t *testing.T) {
	_, err := LoadCheckpoint("/nonexistent/path/model.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadCheckpointInvalidJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "checkpoint_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	badFile := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(badFile, []byte("not valid json"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := LoadCheckpoint(badFile); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
