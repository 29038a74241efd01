// fcnet-infer: Classifies a single input vector using a saved checkpoint.
//
// Usage:
//
//	fcnet-infer --weights=model.json --input=digit.json --topk=3
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"fcnet/dataset"
	"fcnet/nn"
	"fcnet/tensor"
	"fcnet/utils"
)

var (
	weightsFile = flag.String("weights", "", "Checkpoint JSON file")
	inputFile   = flag.String("input", "", "Input JSON file (flat float array); random demo input when omitted")
	datasetName = flag.String("dataset", "mnist", "Class names to report: mnist, fashion")
	topK        = flag.Int("topk", 3, "Top predictions to show")
	verbose     = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      fcnet Inference                         ║")
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

	// Load checkpoint and rebuild the model. A shape mismatch between the
	// stored tensors and the recorded architecture is fatal.
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

	// Load or synthesize the input
	var inputData []float64
	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &inputData); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing input: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println("\nNo input file. Using a random demo input...")
		inputData = make([]float64, cp.InputDim)
		for i := range inputData {
			inputData[i] = rand.Float64()
		}
	}
	if len(inputData) != cp.InputDim {
		fmt.Fprintf(os.Stderr, "Input length %d does not match model input dim %d\n", len(inputData), cp.InputDim)
		os.Exit(1)
	}

	// Run inference
	fmt.Println("\nRunning inference...")
	start := time.Now()
	logits, err := model.Forward(tensor.NewWithData(inputData))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	probs := nn.Softmax(logits)
	fmt.Printf("Time: %.4fs\n", time.Since(start).Seconds())

	showResults(probs.Data, classes, *topK)
}

func showResults(probs []float64, classes []string, topK int) {
	type scored struct {
		class int
		prob  float64
	}
	ranked := make([]scored, len(probs))
	for i, p := range probs {
		ranked[i] = scored{class: i, prob: p}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].prob > ranked[j].prob })

	if topK > len(ranked) {
		topK = len(ranked)
	}
	fmt.Printf("\nTop %d predictions:\n", topK)
	for i := 0; i < topK; i++ {
		name := fmt.Sprintf("%d", ranked[i].class)
		if ranked[i].class < len(classes) {
			name = classes[ranked[i].class]
		}
		fmt.Printf("  %d. %-14s %6.2f%%\n", i+1, name, ranked[i].prob*100)
	}
}
