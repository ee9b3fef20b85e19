package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV loads a numeric CSV file into a feature matrix and integer label
// vector. labelCol is the zero-based column holding the label; a negative
// value means the last column. Rows that fail to parse are skipped, a
// header line included.
func ReadCSV(path string, labelCol int) (X [][]float64, y []int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed records
		}
		col := labelCol
		if col < 0 {
			col = len(rec) - 1
		}
		if col >= len(rec) {
			continue
		}

		row := make([]float64, 0, len(rec)-1)
		label := 0
		ok := true
		for i, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				ok = false
				break
			}
			if i == col {
				label = int(v)
			} else {
				row = append(row, v)
			}
		}
		if !ok {
			continue
		}
		X = append(X, row)
		y = append(y, label)
	}
	if len(X) == 0 {
		return nil, nil, errors.New("loader: no parsable rows")
	}
	return X, y, nil
}
