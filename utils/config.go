package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrainConfig holds a full training run configuration. Flag values are
// merged over an optional YAML file by the CLI.
type TrainConfig struct {
	Dataset      string  `yaml:"dataset"`
	DataDir      string  `yaml:"data_dir"`
	Format       string  `yaml:"format"`
	CSVPath      string  `yaml:"csv_path"`
	Hidden       string  `yaml:"hidden"`
	Activation   string  `yaml:"activation"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Seed         int64   `yaml:"seed"`
	Limit        int     `yaml:"limit"`
	Standardize  bool    `yaml:"standardize"`
	Output       string  `yaml:"output"`
}

// LoadTrainConfig reads a TrainConfig from a YAML file.
func LoadTrainConfig(path string) (*TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg TrainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Validate verifies the configuration is runnable.
func (c *TrainConfig) Validate() error {
	switch c.Dataset {
	case "mnist", "fashion":
	default:
		return fmt.Errorf("dataset must be 'mnist' or 'fashion', got %q", c.Dataset)
	}
	switch c.Format {
	case "idx":
		if c.DataDir == "" {
			return fmt.Errorf("data dir is required for idx format")
		}
	case "csv":
		if c.CSVPath == "" {
			return fmt.Errorf("csv path is required for csv format")
		}
	default:
		return fmt.Errorf("format must be 'idx' or 'csv', got %q", c.Format)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("momentum must be in [0, 1), got %g", c.Momentum)
	}
	if c.Limit < 0 {
		return fmt.Errorf("sample limit must not be negative")
	}
	if _, err := ParseArchitecture(c.Hidden); err != nil {
		return fmt.Errorf("invalid hidden widths %q: %w", c.Hidden, err)
	}
	return nil
}

// ParseArchitecture parses a hidden-width string like "128 32" into a
// slice of layer widths. An empty string means no hidden layers.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(archStr)
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("layer width must be positive, got %d", n)
		}
		arch[i] = n
	}
	return arch, nil
}
