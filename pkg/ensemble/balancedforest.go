package ensemble

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/sampler"
)

// BalancedRandomForest is a random forest whose per-tree bootstrap is drawn
// from a balanced under-sampled index set, so every tree sees the classes
// in equal proportion.
type BalancedRandomForest struct {
	// Hyperparameters / options
	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int // 0 => floor(sqrt(p))
	RandomState     int64

	// internals
	trees     []*model.DecisionTreeClassifier
	classes   []int
	nFeatures int
}

type ForestOption func(*BalancedRandomForest)

func WithNTrees(n int) ForestOption { return func(f *BalancedRandomForest) { f.NTrees = n } }
func WithForestMaxDepth(d int) ForestOption {
	return func(f *BalancedRandomForest) { f.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) ForestOption {
	return func(f *BalancedRandomForest) { f.MinSamplesSplit = n }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *BalancedRandomForest) { f.MaxFeatures = k }
}
func WithForestSeed(seed int64) ForestOption {
	return func(f *BalancedRandomForest) { f.RandomState = seed }
}

func NewBalancedRandomForest(opts ...ForestOption) *BalancedRandomForest {
	f := &BalancedRandomForest{
		NTrees:          100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MaxFeatures:     0,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit grows the trees concurrently, one goroutine per tree with its own
// rand source.
func (f *BalancedRandomForest) Fit(X [][]float64, y []int, sampleWeight []float64) error {
	if len(X) == 0 {
		return errors.New("balancedforest: empty X")
	}
	if len(y) != len(X) {
		return errors.New("balancedforest: X and y length mismatch")
	}
	f.classes = sortedUnique(y)
	if len(f.classes) < 2 {
		return errors.New("balancedforest: need at least two classes")
	}
	f.nFeatures = len(X[0])
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(f.nFeatures)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	f.trees = make([]*model.DecisionTreeClassifier, f.NTrees)
	errCh := make(chan error, f.NTrees)
	var wg sync.WaitGroup
	for i := 0; i < f.NTrees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(f.RandomState + int64(i)))

			// balanced view first, then an ordinary bootstrap inside it
			bal := sampler.BalancedIndices(y, rnd)
			Xs := make([][]float64, len(bal))
			ys := make([]int, len(bal))
			var ws []float64
			if sampleWeight != nil {
				ws = make([]float64, len(bal))
			}
			for j := range bal {
				pick := bal[rnd.Intn(len(bal))]
				Xs[j] = X[pick]
				ys[j] = y[pick]
				if ws != nil {
					ws[j] = sampleWeight[pick]
				}
			}

			tree := model.NewDecisionTreeClassifier(
				model.WithMaxDepth(f.MaxDepth),
				model.WithMinSamplesSplit(f.MinSamplesSplit),
				model.WithMaxFeatures(maxFeatures),
				model.WithRandomState(f.RandomState+int64(i)),
			)
			if err := tree.Fit(Xs, ys, ws); err != nil {
				errCh <- err
				return
			}
			f.trees[i] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// PredictProba averages the trees' class distributions. Tree predictions
// fan out over goroutines and are summed on collection.
func (f *BalancedRandomForest) PredictProba(X [][]float64) [][]float64 {
	n, K := len(X), len(f.classes)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, K)
	}
	if len(f.trees) == 0 {
		return out
	}

	probaCh := make(chan [][]float64, len(f.trees))
	var wg sync.WaitGroup
	for _, tree := range f.trees {
		wg.Add(1)
		go func(t *model.DecisionTreeClassifier) {
			defer wg.Done()
			probaCh <- alignProba(t.PredictProba(X), t.Classes(), f.classes)
		}(tree)
	}
	wg.Wait()
	close(probaCh)

	for proba := range probaCh {
		for i := range proba {
			for k := range proba[i] {
				out[i][k] += proba[i][k]
			}
		}
	}
	for i := range out {
		for k := range out[i] {
			out[i][k] /= float64(len(f.trees))
		}
	}
	return out
}

// Predict returns the class with the highest averaged probability.
func (f *BalancedRandomForest) Predict(X [][]float64) []int {
	proba := f.PredictProba(X)
	out := make([]int, len(X))
	for i, row := range proba {
		out[i] = f.classes[argmaxRow(row)]
	}
	return out
}

// Score is the plain accuracy on (X, y).
func (f *BalancedRandomForest) Score(X [][]float64, y []int) float64 {
	return score(f, X, y)
}

// Classes returns the sorted class labels seen during Fit.
func (f *BalancedRandomForest) Classes() []int {
	out := make([]int, len(f.classes))
	copy(out, f.classes)
	return out
}

// FeatureImportances averages the trees' impurity-decrease importances.
func (f *BalancedRandomForest) FeatureImportances() []float64 {
	out := make([]float64, f.nFeatures)
	if len(f.trees) == 0 {
		return out
	}
	for _, tree := range f.trees {
		imp := tree.FeatureImportances()
		for j := range out {
			out[j] += imp[j]
		}
	}
	for j := range out {
		out[j] /= float64(len(f.trees))
	}
	return out
}
