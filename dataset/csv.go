package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCSV loads a Kaggle-style dataset dump: one sample per line, the
// label first, then inputDim pixel columns in [0, 255]. A header line is
// skipped when present. A positive limit caps the number of samples.
//
// The image geometry is not recorded in a CSV, so the set is shaped as a
// single row of inputDim pixels.
func LoadCSV(path string, inputDim, limit int) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(bufio.NewReader(file))
	set := &Set{Rows: 1, Cols: inputDim}
	lineNum := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		lineNum++
		if lineNum == 1 {
			if _, err := strconv.Atoi(record[0]); err != nil {
				// header line
				continue
			}
		}
		if len(record) != inputDim+1 {
			return nil, fmt.Errorf("invalid record length at line %d: got %d, want %d", lineNum, len(record), inputDim+1)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid label at line %d: %w", lineNum, err)
		}

		img := make([]float64, inputDim)
		for i := 0; i < inputDim; i++ {
			px, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid pixel at line %d, column %d: %w", lineNum, i+1, err)
			}
			img[i] = px / 255.0
		}

		set.Images = append(set.Images, img)
		set.Labels = append(set.Labels, label)
		if limit > 0 && len(set.Images) >= limit {
			break
		}
	}
	return set, nil
}
