// Package dataset loads MNIST-style image classification data from the
// official IDX binary files or Kaggle-style CSV dumps, and slices it into
// mini-batches for training.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"fcnet/tensor"
)

// Set is an in-memory split of a dataset: one flat normalized image per
// sample plus its integer label.
type Set struct {
	Images [][]float64 // [numSamples][rows*cols], values in [0, 1]
	Labels []int       // [numSamples]
	Rows   int
	Cols   int
}

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.Images) }

// InputDim returns the flattened image size.
func (s *Set) InputDim() int { return s.Rows * s.Cols }

// Input returns sample i as a 1-D tensor.
func (s *Set) Input(i int) *tensor.Tensor {
	return tensor.NewWithData(s.Images[i])
}

// MNISTClasses are the digit labels.
var MNISTClasses = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// FashionMNISTClasses are the garment labels, in official label order.
var FashionMNISTClasses = []string{
	"T-shirt/top", "Trouser", "Pullover", "Dress", "Coat",
	"Sandal", "Shirt", "Sneaker", "Bag", "Ankle boot",
}

// ClassNames returns the label names for a dataset ("mnist" or "fashion").
func ClassNames(dataset string) ([]string, error) {
	switch dataset {
	case "mnist":
		return MNISTClasses, nil
	case "fashion":
		return FashionMNISTClasses, nil
	default:
		return nil, fmt.Errorf("unknown dataset: %s", dataset)
	}
}

// OneHot encodes a label as a one-hot vector of the given width.
func OneHot(label, numClasses int) ([]float64, error) {
	if label < 0 || label >= numClasses {
		return nil, fmt.Errorf("label %d out of range [0, %d)", label, numClasses)
	}
	v := make([]float64, numClasses)
	v[label] = 1
	return v, nil
}

// Batch is one training mini-batch with one sample per column.
type Batch struct {
	Inputs  *tensor.Tensor // [inputDim, batchSize]
	Targets *tensor.Tensor // [numClasses, batchSize], one-hot columns
	Labels  []int
}

// Batches slices the set into mini-batches of at most batchSize samples.
// A non-nil rng shuffles the sample order first. The final batch may be
// smaller than batchSize.
func (s *Set) Batches(batchSize, numClasses int, rng *rand.Rand) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	order := make([]int, s.Len())
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	inputDim := s.InputDim()
	var batches []Batch
	for start := 0; start < len(order); start += batchSize {
		end := start + batchSize
		if end > len(order) {
			end = len(order)
		}
		b := end - start
		batch := Batch{
			Inputs:  tensor.New(inputDim, b),
			Targets: tensor.New(numClasses, b),
			Labels:  make([]int, b),
		}
		for j, idx := range order[start:end] {
			label := s.Labels[idx]
			if label < 0 || label >= numClasses {
				return nil, fmt.Errorf("label %d out of range [0, %d)", label, numClasses)
			}
			for i, px := range s.Images[idx] {
				batch.Inputs.Data[i*b+j] = px
			}
			batch.Targets.Data[label*b+j] = 1
			batch.Labels[j] = label
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// MeanStd computes the per-pixel mean and standard deviation across the
// set, for standardizing inputs before training.
func (s *Set) MeanStd() (mean, std []float64) {
	dim := s.InputDim()
	mean = make([]float64, dim)
	std = make([]float64, dim)
	buf := make([]float64, s.Len())
	for i := 0; i < dim; i++ {
		for j := range s.Images {
			buf[j] = s.Images[j][i]
		}
		mean[i] = stat.Mean(buf, nil)
		std[i] = stat.StdDev(buf, nil)
	}
	return mean, std
}

// Standardize shifts and scales every pixel in place using the given
// per-pixel statistics. Pixels with (near) zero deviation are only
// centered.
func (s *Set) Standardize(mean, std []float64) error {
	dim := s.InputDim()
	if len(mean) != dim || len(std) != dim {
		return fmt.Errorf("statistics length %d/%d does not match input dim %d", len(mean), len(std), dim)
	}
	for _, img := range s.Images {
		for i := range img {
			img[i] -= mean[i]
			if !almostZero(std[i]) {
				img[i] /= std[i]
			}
		}
	}
	return nil
}

func almostZero(v float64) bool {
	return math.Abs(v) < 1e-8
}
