package ensemble

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/sampler"
)

// EasyEnsembleClassifier bags AdaBoost learners, each trained on an
// independently drawn balanced under-sampled subset. Aggregation averages
// the members' decision functions.
type EasyEnsembleClassifier struct {
	// Hyperparameters / options
	NSubsets     int    // number of balanced subsets / AdaBoost members
	SubsetRounds int    // boosting rounds per member
	SubsetDepth  int    // base tree depth inside each member
	Algorithm    string // boosting algorithm of the members
	RandomState  int64
	OnSubset     func(i int) // called on Fit's goroutine as members finish

	// internals
	members []*AdaBoostClassifier
	classes []int
}

type EasyOption func(*EasyEnsembleClassifier)

func WithNSubsets(n int) EasyOption { return func(e *EasyEnsembleClassifier) { e.NSubsets = n } }
func WithSubsetRounds(n int) EasyOption {
	return func(e *EasyEnsembleClassifier) { e.SubsetRounds = n }
}
func WithSubsetDepth(d int) EasyOption {
	return func(e *EasyEnsembleClassifier) { e.SubsetDepth = d }
}
func WithSubsetAlgorithm(alg string) EasyOption {
	return func(e *EasyEnsembleClassifier) { e.Algorithm = alg }
}
func WithEasySeed(seed int64) EasyOption {
	return func(e *EasyEnsembleClassifier) { e.RandomState = seed }
}
func WithSubsetCallback(fn func(i int)) EasyOption {
	return func(e *EasyEnsembleClassifier) { e.OnSubset = fn }
}

func NewEasyEnsembleClassifier(opts ...EasyOption) *EasyEnsembleClassifier {
	e := &EasyEnsembleClassifier{
		NSubsets:     10,
		SubsetRounds: 10,
		SubsetDepth:  1,
		Algorithm:    SAMMER,
		RandomState:  time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Fit trains the members concurrently, one goroutine per balanced subset.
func (e *EasyEnsembleClassifier) Fit(X [][]float64, y []int, sampleWeight []float64) error {
	if len(X) == 0 {
		return errors.New("easyensemble: empty X")
	}
	if len(y) != len(X) {
		return errors.New("easyensemble: X and y length mismatch")
	}
	e.classes = sortedUnique(y)
	if len(e.classes) < 2 {
		return errors.New("easyensemble: need at least two classes")
	}

	e.members = make([]*AdaBoostClassifier, e.NSubsets)
	errCh := make(chan error, e.NSubsets)
	doneCh := make(chan int, e.NSubsets)
	var wg sync.WaitGroup
	for i := 0; i < e.NSubsets; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(e.RandomState + int64(i)))
			idx := sampler.BalancedIndices(y, rnd)
			Xs := make([][]float64, len(idx))
			ys := make([]int, len(idx))
			var ws []float64
			if sampleWeight != nil {
				ws = make([]float64, len(idx))
			}
			for j, ii := range idx {
				Xs[j] = X[ii]
				ys[j] = y[ii]
				if ws != nil {
					ws[j] = sampleWeight[ii]
				}
			}
			member := NewAdaBoostClassifier(
				WithNEstimators(e.SubsetRounds),
				WithTreeMaxDepth(e.SubsetDepth),
				WithAlgorithm(e.Algorithm),
				WithSeed(e.RandomState+int64(i)*1009),
			)
			if err := member.Fit(Xs, ys, ws); err != nil {
				errCh <- err
				return
			}
			e.members[i] = member
			doneCh <- i
		}(i)
	}
	go func() {
		wg.Wait()
		close(doneCh)
		close(errCh)
	}()

	// completions funnel back here so OnSubset never runs concurrently
	for i := range doneCh {
		if e.OnSubset != nil {
			e.OnSubset(i)
		}
	}
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// DecisionFunction averages the members' decision functions onto the
// ensemble class order.
func (e *EasyEnsembleClassifier) DecisionFunction(X [][]float64) [][]float64 {
	n, K := len(X), len(e.classes)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, K)
	}
	if len(e.members) == 0 {
		return out
	}
	for _, member := range e.members {
		dec := alignProba(member.DecisionFunction(X), member.Classes(), e.classes)
		for i := range dec {
			for k := range dec[i] {
				out[i][k] += dec[i][k]
			}
		}
	}
	for i := range out {
		for k := range out[i] {
			out[i][k] /= float64(len(e.members))
		}
	}
	return out
}

// PredictProba averages the members' probability estimates.
func (e *EasyEnsembleClassifier) PredictProba(X [][]float64) [][]float64 {
	n, K := len(X), len(e.classes)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, K)
	}
	if len(e.members) == 0 {
		return out
	}
	for _, member := range e.members {
		proba := alignProba(member.PredictProba(X), member.Classes(), e.classes)
		for i := range proba {
			for k := range proba[i] {
				out[i][k] += proba[i][k]
			}
		}
	}
	for i := range out {
		for k := range out[i] {
			out[i][k] /= float64(len(e.members))
		}
	}
	return out
}

// Predict returns the argmax class of the averaged decision function.
func (e *EasyEnsembleClassifier) Predict(X [][]float64) []int {
	dec := e.DecisionFunction(X)
	out := make([]int, len(X))
	for i, row := range dec {
		out[i] = e.classes[argmaxRow(row)]
	}
	return out
}

// Score is the plain accuracy on (X, y).
func (e *EasyEnsembleClassifier) Score(X [][]float64, y []int) float64 {
	return score(e, X, y)
}

// Classes returns the sorted class labels seen during Fit.
func (e *EasyEnsembleClassifier) Classes() []int {
	out := make([]int, len(e.classes))
	copy(out, e.classes)
	return out
}

// Members exposes the fitted AdaBoost learners.
func (e *EasyEnsembleClassifier) Members() []*AdaBoostClassifier {
	return e.members
}
