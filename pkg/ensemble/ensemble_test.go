package ensemble_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/ensemble"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

// the boosting ensembles expose additive per-class scores
var (
	_ model.ProbaEstimator = (*ensemble.AdaBoostClassifier)(nil)
	_ model.ProbaEstimator = (*ensemble.RUSBoostClassifier)(nil)
	_ model.ProbaEstimator = (*ensemble.SMOTEBoostClassifier)(nil)
	_ model.ProbaEstimator = (*ensemble.EasyEnsembleClassifier)(nil)
	_ model.Classifier     = (*ensemble.BalancedRandomForest)(nil)
)

// skewedBlobs draws two well-separated gaussian blobs, 900 majority
// samples against 100 minority samples.
func skewedBlobs(seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	var X [][]float64
	var y []int
	add := func(class, n int, cx, cy float64) {
		for i := 0; i < n; i++ {
			X = append(X, []float64{cx + rnd.NormFloat64(), cy + rnd.NormFloat64()})
			y = append(y, class)
		}
	}
	add(0, 900, 0, 0)
	add(1, 100, 5, 5)
	return X, y
}

func TestRUSBoostClassifier(t *testing.T) {
	X, y := skewedBlobs(1)
	clf := ensemble.NewRUSBoostClassifier(
		ensemble.WithNEstimators(20),
		ensemble.WithTreeMaxDepth(2),
		ensemble.WithSeed(1),
	)
	require.NoError(t, clf.Fit(X, y, nil))

	assert.Equal(t, []int{0, 1}, clf.Classes())
	assert.Greater(t, len(clf.Estimators()), 1)

	pred := clf.Predict(X)
	require.Len(t, pred, len(X))
	assert.Greater(t, model.BalancedAccuracy(y, pred), 0.85)
}

func TestSMOTEBoostClassifier(t *testing.T) {
	X, y := skewedBlobs(2)
	clf := ensemble.NewSMOTEBoostClassifier(
		ensemble.WithNEstimators(20),
		ensemble.WithTreeMaxDepth(2),
		ensemble.WithSeed(2),
	)
	require.NoError(t, clf.Fit(X, y, nil))

	pred := clf.Predict(X)
	require.Len(t, pred, len(X))
	assert.Greater(t, model.BalancedAccuracy(y, pred), 0.85)

	for _, row := range clf.PredictProba(X[:10]) {
		s := 0.0
		for _, p := range row {
			s += p
		}
		assert.InDelta(t, 1.0, s, 1e-9)
	}
}

func TestEasyEnsembleClassifier(t *testing.T) {
	X, y := skewedBlobs(3)
	// the callback contract is one serialized call per member, so plain
	// map writes are safe here
	done := make(map[int]bool)
	clf := ensemble.NewEasyEnsembleClassifier(
		ensemble.WithNSubsets(5),
		ensemble.WithSubsetRounds(5),
		ensemble.WithSubsetDepth(2),
		ensemble.WithEasySeed(3),
		ensemble.WithSubsetCallback(func(i int) { done[i] = true }),
	)
	require.NoError(t, clf.Fit(X, y, nil))

	assert.Equal(t, []int{0, 1}, clf.Classes())
	assert.Len(t, clf.Members(), 5)
	assert.Len(t, done, 5)

	pred := clf.Predict(X)
	assert.Greater(t, model.BalancedAccuracy(y, pred), 0.85)

	for _, row := range clf.PredictProba(X[:10]) {
		require.Len(t, row, 2)
		s := 0.0
		for _, p := range row {
			s += p
		}
		assert.InDelta(t, 1.0, s, 1e-9)
	}
}

func TestBalancedRandomForest(t *testing.T) {
	X, y := skewedBlobs(4)
	clf := ensemble.NewBalancedRandomForest(
		ensemble.WithNTrees(25),
		ensemble.WithForestMaxDepth(4),
		ensemble.WithForestSeed(4),
	)
	require.NoError(t, clf.Fit(X, y, nil))

	assert.Equal(t, []int{0, 1}, clf.Classes())

	pred := clf.Predict(X)
	assert.Greater(t, model.BalancedAccuracy(y, pred), 0.85)

	imp := clf.FeatureImportances()
	require.Len(t, imp, 2)
	impSum := 0.0
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		impSum += v
	}
	assert.InDelta(t, 1.0, impSum, 1e-9)

	for _, row := range clf.PredictProba(X[:10]) {
		s := 0.0
		for _, p := range row {
			s += p
		}
		assert.InDelta(t, 1.0, s, 1e-9)
	}
}

func TestBalancedRandomForestDeterministic(t *testing.T) {
	X, y := skewedBlobs(5)
	fit := func() []int {
		clf := ensemble.NewBalancedRandomForest(
			ensemble.WithNTrees(10),
			ensemble.WithForestMaxDepth(3),
			ensemble.WithForestSeed(11),
		)
		require.NoError(t, clf.Fit(X, y, nil))
		return clf.Predict(X)
	}
	assert.Equal(t, fit(), fit())
}

func TestEnsembleFitErrors(t *testing.T) {
	assert.Error(t, ensemble.NewRUSBoostClassifier().Fit(nil, nil, nil))
	assert.Error(t, ensemble.NewEasyEnsembleClassifier().Fit([][]float64{{1}}, []int{0}, nil))
	assert.Error(t, ensemble.NewBalancedRandomForest().Fit([][]float64{{1}, {2}}, []int{0, 0}, nil))
}
