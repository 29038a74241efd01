// fcnet-train: Trains a fully-connected classifier on MNIST or
// FashionMNIST and writes the learned weights as a JSON checkpoint.
//
// Usage:
//
//	fcnet-train --dataset=mnist --data-dir=data/mnist --epochs=10 --lr=0.01 --output=model.json
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"fcnet/dataset"
	"fcnet/nn"
	"fcnet/optim"
	"fcnet/utils"
)

const numClasses = 10

var (
	configFile   = flag.String("config", "", "Optional YAML config file (flags override it)")
	datasetName  = flag.String("dataset", "mnist", "Dataset: mnist, fashion")
	dataDir      = flag.String("data-dir", "", "Directory with IDX files")
	format       = flag.String("format", "idx", "Input format: idx, csv")
	csvPath      = flag.String("csv", "", "Training CSV file (csv format)")
	csvTestPath  = flag.String("csv-test", "", "Optional test CSV file (csv format)")
	hidden       = flag.String("hidden", "128 32", "Hidden layer widths, e.g. \"128 32\"")
	activation   = flag.String("activation", "relu", "Activation: relu, leakyrelu, sigmoid, tanh")
	epochs       = flag.Int("epochs", 5, "Number of training epochs")
	batchSize    = flag.Int("batch", 32, "Mini-batch size")
	learningRate = flag.Float64("lr", 0.01, "Learning rate")
	momentum     = flag.Float64("momentum", 0.9, "SGD momentum (0 disables)")
	seed         = flag.Int64("seed", 42, "Random seed")
	limit        = flag.Int("limit", 0, "Max training samples to load (0 = all)")
	standardize  = flag.Bool("standardize", false, "Standardize pixels with train-set statistics")
	outputFile   = flag.String("output", "", "Output checkpoint file (JSON)")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	hiddenDims, err := utils.ParseArchitecture(cfg.Hidden)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hidden widths: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                        fcnet Trainer                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Dataset:       %s (%s)\n", cfg.Dataset, cfg.Format)
	fmt.Printf("  Hidden:        %v\n", hiddenDims)
	fmt.Printf("  Activation:    %s\n", cfg.Activation)
	fmt.Printf("  Epochs:        %d\n", cfg.Epochs)
	fmt.Printf("  Batch size:    %d\n", cfg.BatchSize)
	fmt.Printf("  Learning Rate: %.4f\n", cfg.LearningRate)
	fmt.Printf("  Momentum:      %.2f\n", cfg.Momentum)
	fmt.Printf("  Seed:          %d\n", cfg.Seed)
	fmt.Println()

	stats := &utils.TimingStats{}

	// Load data
	start := time.Now()
	trainSet, testSet, err := loadData(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(start)
	fmt.Printf("Loaded %d training samples", trainSet.Len())
	if testSet != nil {
		fmt.Printf(", %d test samples", testSet.Len())
	}
	fmt.Println()

	if cfg.Standardize {
		mean, std := trainSet.MeanStd()
		if err := trainSet.Standardize(mean, std); err != nil {
			fmt.Fprintf(os.Stderr, "Error standardizing: %v\n", err)
			os.Exit(1)
		}
		if testSet != nil {
			if err := testSet.Standardize(mean, std); err != nil {
				fmt.Fprintf(os.Stderr, "Error standardizing test set: %v\n", err)
				os.Exit(1)
			}
		}
	}

	// Build model
	start = time.Now()
	model, err := nn.NewMLP(trainSet.InputDim(), hiddenDims, numClasses, cfg.Activation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building model: %v\n", err)
		os.Exit(1)
	}
	model.Init(uint64(cfg.Seed))
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Model: %d layers (%d → %v → %d)\n", len(model.Seq.Layers), model.InputDim, hiddenDims, model.OutputDim)

	// Training loop
	fmt.Println("\nStarting training...")
	rng := rand.New(rand.NewSource(cfg.Seed))
	opt := optim.NewSGD(cfg.LearningRate, cfg.Momentum)
	loss := &nn.CrossEntropyLoss{}
	totalStart := time.Now()
	steps := 0

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		epochStart := time.Now()
		batches, err := trainSet.Batches(cfg.BatchSize, numClasses, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error batching: %v\n", err)
			os.Exit(1)
		}

		epochLoss := 0.0
		for _, b := range batches {
			stepStart := time.Now()
			logits, err := model.Forward(b.Inputs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error in forward pass: %v\n", err)
				os.Exit(1)
			}
			stats.ForwardPassTime += time.Since(stepStart)

			lossStart := time.Now()
			lossVal, grad, err := loss.Forward(logits, b.Targets)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error computing loss: %v\n", err)
				os.Exit(1)
			}
			stats.LossComputationTime += time.Since(lossStart)

			backStart := time.Now()
			if _, err := model.Backward(grad); err != nil {
				fmt.Fprintf(os.Stderr, "Error in backward pass: %v\n", err)
				os.Exit(1)
			}
			stats.BackwardPassTime += time.Since(backStart)

			updStart := time.Now()
			if err := opt.Step(model.Seq); err != nil {
				fmt.Fprintf(os.Stderr, "Error updating weights: %v\n", err)
				os.Exit(1)
			}
			stats.UpdateTime += time.Since(updStart)

			epochLoss += lossVal
			steps++
		}
		avgLoss := epochLoss / float64(len(batches))

		if testSet != nil {
			evalStart := time.Now()
			acc, err := testAccuracy(model, testSet)
			stats.EvalTime += time.Since(evalStart)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error evaluating: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Epoch %d/%d | Loss: %.6f | Test accuracy: %.2f%% | Time: %.2fs\n",
				epoch+1, cfg.Epochs, avgLoss, acc*100, time.Since(epochStart).Seconds())
		} else {
			fmt.Printf("Epoch %d/%d | Loss: %.6f | Time: %.2fs\n",
				epoch+1, cfg.Epochs, avgLoss, time.Since(epochStart).Seconds())
		}
	}

	stats.TotalTime = time.Since(totalStart)
	fmt.Printf("\nTraining complete! Total time: %.2fs\n", stats.TotalTime.Seconds())
	utils.PrintTimingStats(stats, steps)

	// Save checkpoint
	if cfg.Output != "" {
		fmt.Printf("\nSaving checkpoint to %s...\n", cfg.Output)
		if err := utils.SaveCheckpoint(cfg.Output, model.ToCheckpoint()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Done!")
	}
}

// buildConfig starts from the optional YAML file and overrides every
// field whose flag was passed explicitly; with no file, the flag values
// (including defaults) are used as-is.
func buildConfig() (*utils.TrainConfig, error) {
	fromFlags := &utils.TrainConfig{
		Dataset:      *datasetName,
		DataDir:      *dataDir,
		Format:       *format,
		CSVPath:      *csvPath,
		Hidden:       *hidden,
		Activation:   *activation,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		LearningRate: *learningRate,
		Momentum:     *momentum,
		Seed:         *seed,
		Limit:        *limit,
		Standardize:  *standardize,
		Output:       *outputFile,
	}
	if *configFile == "" {
		return fromFlags, nil
	}

	cfg, err := utils.LoadTrainConfig(*configFile)
	if err != nil {
		return nil, err
	}
	passed := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { passed[f.Name] = true })

	if passed["dataset"] || cfg.Dataset == "" {
		cfg.Dataset = *datasetName
	}
	if passed["data-dir"] || cfg.DataDir == "" {
		cfg.DataDir = *dataDir
	}
	if passed["format"] || cfg.Format == "" {
		cfg.Format = *format
	}
	if passed["csv"] || cfg.CSVPath == "" {
		cfg.CSVPath = *csvPath
	}
	if passed["hidden"] || cfg.Hidden == "" {
		cfg.Hidden = *hidden
	}
	if passed["activation"] || cfg.Activation == "" {
		cfg.Activation = *activation
	}
	if passed["epochs"] || cfg.Epochs == 0 {
		cfg.Epochs = *epochs
	}
	if passed["batch"] || cfg.BatchSize == 0 {
		cfg.BatchSize = *batchSize
	}
	if passed["lr"] || cfg.LearningRate == 0 {
		cfg.LearningRate = *learningRate
	}
	if passed["momentum"] {
		cfg.Momentum = *momentum
	}
	if passed["seed"] || cfg.Seed == 0 {
		cfg.Seed = *seed
	}
	if passed["limit"] {
		cfg.Limit = *limit
	}
	if passed["standardize"] {
		cfg.Standardize = *standardize
	}
	if passed["output"] || cfg.Output == "" {
		cfg.Output = *outputFile
	}
	return cfg, nil
}

func loadData(cfg *utils.TrainConfig) (trainSet, testSet *dataset.Set, err error) {
	switch cfg.Format {
	case "idx":
		trainSet, err = dataset.LoadIDX(cfg.DataDir, true, cfg.Limit)
		if err != nil {
			return nil, nil, err
		}
		testSet, err = dataset.LoadIDX(cfg.DataDir, false, 0)
		if err != nil {
			// train without a held-out split
			return trainSet, nil, nil
		}
		return trainSet, testSet, nil
	case "csv":
		trainSet, err = dataset.LoadCSV(cfg.CSVPath, 784, cfg.Limit)
		if err != nil {
			return nil, nil, err
		}
		if *csvTestPath != "" {
			testSet, err = dataset.LoadCSV(*csvTestPath, 784, 0)
			if err != nil {
				return nil, nil, err
			}
		}
		return trainSet, testSet, nil
	default:
		return nil, nil, fmt.Errorf("unknown format: %s", cfg.Format)
	}
}

func testAccuracy(model *nn.MLP, set *dataset.Set) (float64, error) {
	batches, err := set.Batches(256, numClasses, nil)
	if err != nil {
		return 0, err
	}
	var pred, labels []int
	for _, b := range batches {
		logits, err := model.Forward(b.Inputs)
		if err != nil {
			return 0, err
		}
		for j := range b.Labels {
			col, err := logits.Col(j)
			if err != nil {
				return 0, err
			}
			pred = append(pred, col.ArgMax())
			labels = append(labels, b.Labels[j])
		}
	}
	return utils.Accuracy(pred, labels)
}
