package datagen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/datagen"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

func TestMakeClassificationShape(t *testing.T) {
	cfg := datagen.DefaultConfig()
	cfg.NSamples = 250
	cfg.NFeatures = 7
	cfg.NInformative = 3
	cfg.NRedundant = 2
	cfg.NRepeated = 1
	cfg.Seed = 5

	X, y, err := datagen.MakeClassification(cfg)
	require.NoError(t, err)
	require.Len(t, X, 250)
	require.Len(t, y, 250)
	for _, row := range X {
		require.Len(t, row, 7)
	}
	for _, label := range y {
		assert.GreaterOrEqual(t, label, 0)
		assert.Less(t, label, cfg.NClasses)
	}
}

func TestMakeClassificationProportions(t *testing.T) {
	cfg := datagen.DefaultConfig()
	cfg.NSamples = 2000
	cfg.NClasses = 3
	cfg.NClustersPerClass = 1
	cfg.NInformative = 2
	cfg.NRedundant = 0
	cfg.NFeatures = 4
	cfg.Weights = []float64{0.1, 0.3, 0.6}
	cfg.FlipY = 0 // keep the allocation exact
	cfg.Seed = 11

	_, y, err := datagen.MakeClassification(cfg)
	require.NoError(t, err)
	dist := model.ClassDistribution(y)
	assert.InDelta(t, 200, dist[0], 3)
	assert.InDelta(t, 600, dist[1], 3)
	assert.InDelta(t, 1200, dist[2], 3)
}

func TestMakeClassificationDeterministic(t *testing.T) {
	cfg := datagen.DefaultConfig()
	cfg.NSamples = 100
	cfg.Seed = 21

	X1, y1, err := datagen.MakeClassification(cfg)
	require.NoError(t, err)
	X2, y2, err := datagen.MakeClassification(cfg)
	require.NoError(t, err)
	assert.Equal(t, y1, y2)
	assert.Equal(t, X1, X2)

	cfg.Seed = 22
	X3, _, err := datagen.MakeClassification(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, X1, X3)
}

func TestMakeClassificationValidation(t *testing.T) {
	cfg := datagen.DefaultConfig()
	cfg.NFeatures = 3
	cfg.NInformative = 2
	cfg.NRedundant = 2
	_, _, err := datagen.MakeClassification(cfg)
	assert.Error(t, err, "informative+redundant exceeding features must fail")

	cfg = datagen.DefaultConfig()
	cfg.NInformative = 1
	cfg.NClasses = 3
	cfg.NClustersPerClass = 1
	_, _, err = datagen.MakeClassification(cfg)
	assert.Error(t, err, "too few hypercube vertices must fail")

	cfg = datagen.DefaultConfig()
	cfg.Weights = []float64{0.2, 0.3, 0.5} // 3 weights for 2 classes
	_, _, err = datagen.MakeClassification(cfg)
	assert.Error(t, err)
}

func TestGenerateImbalanceData(t *testing.T) {
	cfg := datagen.DefaultConfig()
	cfg.NFeatures = 3
	cfg.NInformative = 2
	cfg.NRedundant = 0
	cfg.NClustersPerClass = 1
	cfg.FlipY = 0
	cfg.Seed = 0

	split, err := datagen.GenerateImbalanceData(1000, []float64{0.1, 0.9}, 0.25, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1000, len(split.XTrain)+len(split.XTest))
	assert.Equal(t, len(split.XTrain), len(split.YTrain))
	assert.Equal(t, len(split.XTest), len(split.YTest))

	// stratification keeps the imbalance ratio on both sides
	trainDist := model.ClassDistribution(split.YTrain)
	testDist := model.ClassDistribution(split.YTest)
	trainRatio := float64(trainDist[0]) / float64(len(split.YTrain))
	testRatio := float64(testDist[0]) / float64(len(split.YTest))
	assert.InDelta(t, 0.1, trainRatio, 0.02)
	assert.InDelta(t, 0.1, testRatio, 0.02)
}

func TestGenerateImbalanceDataErrors(t *testing.T) {
	_, err := datagen.GenerateImbalanceData(100, []float64{1}, 0.2, nil)
	assert.Error(t, err, "single-class weights must fail")

	_, err = datagen.GenerateImbalanceData(100, []float64{0.5, 0.5}, 0, nil)
	assert.Error(t, err, "zero test size must fail")
}
