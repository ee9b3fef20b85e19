package ensemble_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/datagen"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/ensemble"
)

// boostingData draws a skewed three-class problem: 1% / 5% / 94%.
func boostingData(t *testing.T) (XTrain, XTest [][]float64, yTrain, yTest []int) {
	t.Helper()
	cfg := datagen.DefaultConfig()
	cfg.NFeatures = 3
	cfg.NInformative = 2
	cfg.NRedundant = 0
	cfg.NClustersPerClass = 1
	cfg.ClassSep = 0.8
	cfg.Seed = 0

	split, err := datagen.GenerateImbalanceData(3000, []float64{0.01, 0.05, 0.94}, 0.25, cfg)
	require.NoError(t, err)
	return split.XTrain, split.XTest, split.YTrain, split.YTest
}

func TestAdaBoostAlgorithms(t *testing.T) {
	XTrain, XTest, yTrain, yTest := boostingData(t)

	for _, alg := range []string{ensemble.SAMME, ensemble.SAMMER} {
		t.Run(alg, func(t *testing.T) {
			clf := ensemble.NewAdaBoostClassifier(
				ensemble.WithAlgorithm(alg),
				ensemble.WithNEstimators(30),
				ensemble.WithTreeMaxDepth(2),
				ensemble.WithSeed(1),
			)
			require.NoError(t, clf.Fit(XTrain, yTrain, nil))

			assert.Equal(t, []int{0, 1, 2}, clf.Classes())
			require.Greater(t, len(clf.Estimators()), 1)
			assert.Len(t, clf.EstimatorWeights(), len(clf.Estimators()))
			assert.Len(t, clf.EstimatorErrors(), len(clf.Estimators()))

			// each base tree boosts with its own seed
			seeds := make(map[int64]bool)
			for _, tree := range clf.Estimators() {
				seeds[tree.RandomState] = true
			}
			assert.Len(t, seeds, len(clf.Estimators()))

			imp := clf.FeatureImportances()
			require.Len(t, imp, 3)
			impSum := 0.0
			for _, v := range imp {
				assert.GreaterOrEqual(t, v, 0.0)
				impSum += v
			}
			assert.Greater(t, impSum, 0.0)
			assert.LessOrEqual(t, impSum, 1.0+1e-9)

			proba := clf.PredictProba(XTest)
			require.Len(t, proba, len(XTest))
			for _, row := range proba {
				require.Len(t, row, 3)
				s := 0.0
				for _, p := range row {
					s += p
				}
				assert.InDelta(t, 1.0, s, 1e-9)
			}

			dec := clf.DecisionFunction(XTest)
			require.Len(t, dec, len(XTest))
			for _, row := range dec {
				require.Len(t, row, 3)
			}

			pred := clf.Predict(XTest)
			assert.Len(t, pred, len(XTest))
			assert.Greater(t, clf.Score(XTest, yTest), 0.6)
		})
	}
}

func TestAdaBoostSampleWeight(t *testing.T) {
	XTrain, XTest, yTrain, _ := boostingData(t)

	fit := func(w []float64) [][]float64 {
		clf := ensemble.NewAdaBoostClassifier(
			ensemble.WithNEstimators(10),
			ensemble.WithSeed(7),
		)
		require.NoError(t, clf.Fit(XTrain, yTrain, w))
		return clf.DecisionFunction(XTest)
	}

	ones := make([]float64, len(yTrain))
	skew := make([]float64, len(yTrain))
	for i := range ones {
		ones[i] = 1
		skew[i] = 1
		if yTrain[i] != 2 {
			skew[i] = 50 // push the minority classes up
		}
	}

	// uniform explicit weights are the same as no weights
	assert.Equal(t, fit(nil), fit(ones))
	// skewed weights change the fitted ensemble
	assert.NotEqual(t, fit(nil), fit(skew))
}

func TestAdaBoostEarlyStopOnSeparableData(t *testing.T) {
	var X [][]float64
	var y []int
	for i := 0; i < 50; i++ {
		X = append(X, []float64{float64(i % 10), 0})
		y = append(y, 0)
		X = append(X, []float64{float64(i%10) + 100, 0})
		y = append(y, 1)
	}

	clf := ensemble.NewAdaBoostClassifier(
		ensemble.WithNEstimators(20),
		ensemble.WithTreeMaxDepth(3),
		ensemble.WithSeed(1),
	)
	require.NoError(t, clf.Fit(X, y, nil))
	assert.Len(t, clf.Estimators(), 1)
	assert.Equal(t, 0.0, clf.EstimatorErrors()[0])
	assert.Equal(t, 1.0, clf.Score(X, y))
}

func TestAdaBoostRoundCallback(t *testing.T) {
	XTrain, _, yTrain, _ := boostingData(t)
	rounds := 0
	clf := ensemble.NewAdaBoostClassifier(
		ensemble.WithNEstimators(5),
		ensemble.WithSeed(3),
		ensemble.WithRoundCallback(func(int) { rounds++ }),
	)
	require.NoError(t, clf.Fit(XTrain, yTrain, nil))
	assert.Equal(t, len(clf.Estimators()), rounds)
}

func TestAdaBoostFitErrors(t *testing.T) {
	X := [][]float64{{0}, {1}}
	y := []int{0, 1}

	err := ensemble.NewAdaBoostClassifier().Fit(nil, nil, nil)
	assert.Error(t, err)

	err = ensemble.NewAdaBoostClassifier(ensemble.WithAlgorithm("SAMME.X")).Fit(X, y, nil)
	assert.Error(t, err)

	err = ensemble.NewAdaBoostClassifier(ensemble.WithLearningRate(0)).Fit(X, y, nil)
	assert.Error(t, err)

	err = ensemble.NewAdaBoostClassifier().Fit(X, []int{0, 0}, nil)
	assert.Error(t, err, "single-class y must fail")

	err = ensemble.NewAdaBoostClassifier().Fit(X, y, []float64{-1, 1})
	assert.Error(t, err, "negative sample weight must fail")
}

func TestAdaBoostDecisionFunctionNormalized(t *testing.T) {
	XTrain, XTest, yTrain, _ := boostingData(t)
	clf := ensemble.NewAdaBoostClassifier(
		ensemble.WithAlgorithm(ensemble.SAMME),
		ensemble.WithNEstimators(15),
		ensemble.WithTreeMaxDepth(2),
		ensemble.WithSeed(2),
	)
	require.NoError(t, clf.Fit(XTrain, yTrain, nil))

	// with alpha-sum normalization the SAMME votes per row sum to 1
	for _, row := range clf.DecisionFunction(XTest) {
		s := 0.0
		for _, v := range row {
			s += v
		}
		require.False(t, math.IsNaN(s))
		assert.InDelta(t, 1.0, s, 1e-9)
	}
}
