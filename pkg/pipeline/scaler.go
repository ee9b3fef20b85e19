package pipeline

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes each column to zero mean and unit variance.
// Constant columns are left centered only.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("pipeline: empty X")
	}
	p := len(X[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)
	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, errors.New("pipeline: scaler used before Fit")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, errors.New("pipeline: feature count mismatch")
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = r
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
