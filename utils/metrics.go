package utils

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Accuracy returns the fraction of predictions matching the labels.
func Accuracy(pred, labels []int) (float64, error) {
	if len(pred) != len(labels) {
		return 0, fmt.Errorf("prediction count %d does not match label count %d", len(pred), len(labels))
	}
	if len(pred) == 0 {
		return 0, fmt.Errorf("no predictions")
	}
	correct := 0
	for i := range pred {
		if pred[i] == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred)), nil
}

// TopKAccuracy returns the fraction of samples whose true label is among
// the k highest-scored classes.
func TopKAccuracy(scores [][]float64, labels []int, k int) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("score count %d does not match label count %d", len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("no scores")
	}
	if k <= 0 {
		return 0, fmt.Errorf("k must be positive, got %d", k)
	}
	hits := 0
	for i, s := range scores {
		label := labels[i]
		if label < 0 || label >= len(s) {
			return 0, fmt.Errorf("label %d out of range at sample %d", label, i)
		}
		higher := 0
		for _, v := range s {
			if v > s[label] {
				higher++
			}
		}
		if higher < k {
			hits++
		}
	}
	return float64(hits) / float64(len(scores)), nil
}

// ConfusionMatrix builds a numClasses×numClasses count matrix with true
// labels as rows and predictions as columns.
func ConfusionMatrix(pred, labels []int, numClasses int) (*mat.Dense, error) {
	if len(pred) != len(labels) {
		return nil, fmt.Errorf("prediction count %d does not match label count %d", len(pred), len(labels))
	}
	cm := mat.NewDense(numClasses, numClasses, nil)
	for i := range pred {
		if labels[i] < 0 || labels[i] >= numClasses || pred[i] < 0 || pred[i] >= numClasses {
			return nil, fmt.Errorf("class index out of range at sample %d: label=%d pred=%d", i, labels[i], pred[i])
		}
		cm.Set(labels[i], pred[i], cm.At(labels[i], pred[i])+1)
	}
	return cm, nil
}

// PerClassAccuracy returns the recall of each class (diagonal over row
// sum). Classes with no samples report zero.
func PerClassAccuracy(cm *mat.Dense) []float64 {
	n, _ := cm.Dims()
	acc := make([]float64, n)
	for i := 0; i < n; i++ {
		total := 0.0
		for j := 0; j < n; j++ {
			total += cm.At(i, j)
		}
		if total > 0 {
			acc[i] = cm.At(i, i) / total
		}
	}
	return acc
}

// PrintConfusionMatrix writes the matrix with class names on the rows.
func PrintConfusionMatrix(w io.Writer, cm *mat.Dense, classes []string) {
	n, _ := cm.Dims()
	fmt.Fprintf(w, "%-14s", "true\\pred")
	for j := 0; j < n; j++ {
		fmt.Fprintf(w, "%6d", j)
	}
	fmt.Fprintln(w)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%d", i)
		if i < len(classes) {
			name = classes[i]
		}
		if len(name) > 13 {
			name = name[:13]
		}
		fmt.Fprintf(w, "%-14s", name)
		for j := 0; j < n; j++ {
			fmt.Fprintf(w, "%6.0f", cm.At(i, j))
		}
		fmt.Fprintln(w)
	}
}
