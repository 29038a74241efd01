package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{0, 1, 2, 1}, []int{0, 1, 1, 1})
	if err != nil {
		t.Fatalf("Accuracy failed: %v", err)
	}
	if acc != 0.75 {
		t.Errorf("accuracy = %f, want 0.75", acc)
	}

	if _, err := Accuracy([]int{0}, []int{0, 1}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	if _, err := Accuracy(nil, nil); err == nil {
		t.Error("Expected error for empty predictions")
	}
}

func TestTopKAccuracy(t *testing.T) {
	scores := [][]float64{
		{0.7, 0.2, 0.1}, // top-1 hit for label 0
		{0.3, 0.5, 0.2}, // label 0 is rank 2
		{0.1, 0.2, 0.7}, // label 0 is rank 3
	}
	labels := []int{0, 0, 0}

	top1, err := TopKAccuracy(scores, labels, 1)
	if err != nil {
		t.Fatalf("TopKAccuracy failed: %v", err)
	}
	if top1 != 1.0/3.0 {
		t.Errorf("top-1 = %f, want 1/3", top1)
	}

	top2, err := TopKAccuracy(scores, labels, 2)
	if err != nil {
		t.Fatalf("TopKAccuracy failed: %v", err)
	}
	if top2 != 2.0/3.0 {
		t.Errorf("top-2 = %f, want 2/3", top2)
	}

	top3, err := TopKAccuracy(scores, labels, 3)
	if err != nil {
		t.Fatalf("TopKAccuracy failed: %v", err)
	}
	if top3 != 1.0 {
		t.Errorf("top-3 = %f, want 1.0", top3)
	}

	if _, err := TopKAccuracy(scores, []int{0}, 1); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	if _, err := TopKAccuracy(scores, labels, 0); err == nil {
		t.Error("Expected error for non-positive k")
	}
	if _, err := TopKAccuracy(scores, []int{0, 0, 5}, 1); err == nil {
		t.Error("Expected error for out-of-range label")
	}
}

func TestConfusionMatrix(t *testing.T) {
	pred := []int{0, 1, 1, 2, 0}
	labels := []int{0, 1, 2, 2, 1}

	cm, err := ConfusionMatrix(pred, labels, 3)
	if err != nil {
		t.Fatalf("ConfusionMatrix failed: %v", err)
	}

	expected := [][]float64{
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 1},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if cm.At(i, j) != expected[i][j] {
				t.Errorf("cm[%d][%d] = %f, want %f", i, j, cm.At(i, j), expected[i][j])
			}
		}
	}

	if _, err := ConfusionMatrix([]int{5}, []int{0}, 3); err == nil {
		t.Error("Expected error for out-of-range prediction")
	}
}

func TestPerClassAccuracy(t *testing.T) {
	pred := []int{0, 0, 1, 1, 1, 2}
	labels := []int{0, 1, 1, 1, 2, 2}

	cm, err := ConfusionMatrix(pred, labels, 4)
	if err != nil {
		t.Fatalf("ConfusionMatrix failed: %v", err)
	}

	acc := PerClassAccuracy(cm)
	if acc[0] != 1.0 {
		t.Errorf("class 0 accuracy = %f, want 1.0", acc[0])
	}
	if acc[1] != 2.0/3.0 {
		t.Errorf("class 1 accuracy = %f, want 2/3", acc[1])
	}
	if acc[2] != 0.5 {
		t.Errorf("class 2 accuracy = %f, want 0.5", acc[2])
	}
	if acc[3] != 0 {
		t.Errorf("class 3 accuracy = %f, want 0 for empty class", acc[3])
	}
}

func TestPrintConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix([]int{0, 1}, []int{0, 1}, 2)
	if err != nil {
		t.Fatalf("ConfusionMatrix failed: %v", err)
	}

	var buf bytes.Buffer
	PrintConfusionMatrix(&buf, cm, []string{"Zero", "One"})

	out := buf.String()
	if !strings.Contains(out, "Zero") || !strings.Contains(out, "One") {
		t.Errorf("output missing class names:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("output has %d lines, want 3", len(lines))
	}
}
