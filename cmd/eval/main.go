// fcnet-eval: Evaluates a saved checkpoint against a test split and
// prints accuracy, per-class accuracy, and the confusion matrix.
//
// Usage:
//
//	fcnet-eval --weights=model.json --dataset=mnist --data-dir=data/mnist
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fcnet/dataset"
	"fcnet/nn"
	"fcnet/utils"
)

const numClasses = 10

var (
	weightsFile = flag.String("weights", "", "Checkpoint JSON file")
	datasetName = flag.String("dataset", "mnist", "Dataset: mnist, fashion")
	dataDir     = flag.String("data-dir", "", "Directory with IDX files")
	format      = flag.String("format", "idx", "Input format: idx, csv")
	csvPath     = flag.String("csv", "", "Test CSV file (csv format)")
	limit       = flag.Int("limit", 0, "Max test samples to load (0 = all)")
	topk        = flag.Int("topk", 3, "k for the top-k accuracy report")
	verbose     = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      fcnet Evaluation                        ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")

	if *weightsFile == "" {
		fmt.Fprintln(os.Stderr, "--weights is required")
		os.Exit(1)
	}
	classes, err := dataset.ClassNames(*datasetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cp, err := utils.LoadCheckpoint(*weightsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading checkpoint: %v\n", err)
		os.Exit(1)
	}
	model, err := nn.FromCheckpoint(cp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rebuilding model: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded model: %d → %v → %d (%s)\n", cp.InputDim, cp.HiddenDims, cp.OutputDim, cp.Activation)

	var testSet *dataset.Set
	switch *format {
	case "idx":
		testSet, err = dataset.LoadIDX(*dataDir, false, *limit)
	case "csv":
		testSet, err = dataset.LoadCSV(*csvPath, cp.InputDim, *limit)
	default:
		err = fmt.Errorf("unknown format: %s", *format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading test data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d test samples\n", testSet.Len())

	if testSet.InputDim() != cp.InputDim {
		fmt.Fprintf(os.Stderr, "Test input dim %d does not match model input dim %d\n", testSet.InputDim(), cp.InputDim)
		os.Exit(1)
	}

	fmt.Println("\nEvaluating...")
	start := time.Now()
	pred, scores, labels, err := predictAll(model, testSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Time: %.2fs\n", time.Since(start).Seconds())

	acc, err := utils.Accuracy(pred, labels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cm, err := utils.ConfusionMatrix(pred, labels, numClasses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	topK, err := utils.TopKAccuracy(scores, labels, *topk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAccuracy: %.2f%% (%d samples)\n", acc*100, len(pred))
	fmt.Printf("Top-%d accuracy: %.2f%%\n", *topk, topK*100)
	fmt.Println("\nPer-class accuracy:")
	for i, a := range utils.PerClassAccuracy(cm) {
		name := fmt.Sprintf("%d", i)
		if i < len(classes) {
			name = classes[i]
		}
		fmt.Printf("  %-14s %6.2f%%\n", name, a*100)
	}
	fmt.Println("\nConfusion matrix:")
	utils.PrintConfusionMatrix(os.Stdout, cm, classes)
}

func predictAll(model *nn.MLP, set *dataset.Set) (pred []int, scores [][]float64, labels []int, err error) {
	batches, err := set.Batches(256, numClasses, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, b := range batches {
		logits, err := model.Forward(b.Inputs)
		if err != nil {
			return nil, nil, nil, err
		}
		for j := range b.Labels {
			col, err := logits.Col(j)
			if err != nil {
				return nil, nil, nil, err
			}
			pred = append(pred, col.ArgMax())
			scores = append(scores, col.Data)
			labels = append(labels, b.Labels[j])
		}
	}
	return pred, scores, labels, nil
}
