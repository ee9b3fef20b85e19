package datagen

import (
	"errors"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/loader"
)

// Split is a train/test partition of a generated dataset.
type Split struct {
	XTrain [][]float64
	XTest  [][]float64
	YTrain []int
	YTest  []int
}

// GenerateImbalanceData synthesizes an imbalanced classification dataset and
// returns a stratified train/test split. weights gives the per-class
// proportions (its length sets the number of classes); testSize is the test
// fraction. cfg tunes the feature synthesis; nil uses DefaultConfig. The
// NSamples, NClasses and Weights fields of cfg are overridden by the
// arguments.
func GenerateImbalanceData(nSamples int, weights []float64, testSize float64, cfg *Config) (*Split, error) {
	if len(weights) < 2 {
		return nil, errors.New("datagen: need at least two class weights")
	}
	c := DefaultConfig()
	if cfg != nil {
		cp := *cfg
		c = &cp
	}
	c.NSamples = nSamples
	c.NClasses = len(weights)
	c.Weights = weights

	X, y, err := MakeClassification(c)
	if err != nil {
		return nil, err
	}
	XTrain, XTest, yTrain, yTest, err := loader.StratifiedTrainTestSplit(X, y, testSize, c.Seed)
	if err != nil {
		return nil, err
	}
	return &Split{XTrain: XTrain, XTest: XTest, YTrain: yTrain, YTest: yTest}, nil
}
