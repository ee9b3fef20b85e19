package ensemble

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

// Boosting algorithms.
const (
	SAMME  = "SAMME"   // discrete boosting on hard predictions
	SAMMER = "SAMME.R" // real boosting on class probabilities
)

const probaEps = 1e-30

// roundSampler prepares the training view for one boosting round. The
// identity sampler is plain AdaBoost; RUSBoost and SMOTEBoost swap in
// resampling versions. Weight updates always happen on the full set.
type roundSampler func(X [][]float64, y []int, w []float64, rnd *rand.Rand) ([][]float64, []int, []float64, error)

// AdaBoostClassifier is a SAMME / SAMME.R boosted ensemble of weighted CART
// trees, API-compatible with the usual scikit-style attributes: per-round
// estimator weights and errors, sorted classes, feature importances.
type AdaBoostClassifier struct {
	// Hyperparameters / options
	NEstimators  int
	LearningRate float64
	Algorithm    string // SAMME or SAMME.R
	TreeMaxDepth int    // depth of each base tree; 1 => stumps
	RandomState  int64
	OnRound      func(round int) // called after every fitted round

	// internals
	sample     roundSampler
	estimators []*model.DecisionTreeClassifier
	alphas     []float64
	errs       []float64
	classes    []int
	nFeatures  int
}

type AdaBoostOption func(*AdaBoostClassifier)

func WithNEstimators(n int) AdaBoostOption { return func(a *AdaBoostClassifier) { a.NEstimators = n } }
func WithLearningRate(lr float64) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.LearningRate = lr }
}
func WithAlgorithm(alg string) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.Algorithm = alg }
}
func WithTreeMaxDepth(d int) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.TreeMaxDepth = d }
}
func WithSeed(seed int64) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.RandomState = seed }
}
func WithRoundCallback(fn func(round int)) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.OnRound = fn }
}

// NewAdaBoostClassifier returns an AdaBoost ensemble with stump base
// estimators, SAMME.R boosting and 50 rounds.
func NewAdaBoostClassifier(opts ...AdaBoostOption) *AdaBoostClassifier {
	a := &AdaBoostClassifier{
		NEstimators:  50,
		LearningRate: 1.0,
		Algorithm:    SAMMER,
		TreeMaxDepth: 1,
		RandomState:  time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(a)
	}
	a.sample = identitySampler
	return a
}

func identitySampler(X [][]float64, y []int, w []float64, _ *rand.Rand) ([][]float64, []int, []float64, error) {
	return X, y, w, nil
}

// Fit runs the boosting loop. sampleWeight may be nil for uniform weights;
// it is copied and normalized, never mutated.
func (a *AdaBoostClassifier) Fit(X [][]float64, y []int, sampleWeight []float64) error {
	if len(X) == 0 {
		return errors.New("adaboost: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("adaboost: X and y length mismatch")
	}
	if a.Algorithm != SAMME && a.Algorithm != SAMMER {
		return fmt.Errorf("adaboost: unknown algorithm %q", a.Algorithm)
	}
	if a.NEstimators < 1 {
		return errors.New("adaboost: NEstimators must be at least 1")
	}
	if a.LearningRate <= 0 {
		return errors.New("adaboost: LearningRate must be positive")
	}

	a.classes = sortedUnique(y)
	a.nFeatures = len(X[0])
	if len(a.classes) < 2 {
		return errors.New("adaboost: need at least two classes")
	}
	a.estimators = nil
	a.alphas = nil
	a.errs = nil

	w := uniformWeights(n)
	if sampleWeight != nil {
		if len(sampleWeight) != n {
			return errors.New("adaboost: X and sampleWeight length mismatch")
		}
		s := 0.0
		for _, v := range sampleWeight {
			if v < 0 {
				return errors.New("adaboost: negative sample weight")
			}
			s += v
		}
		if s <= 0 {
			return errors.New("adaboost: sample weights sum to zero")
		}
		for i, v := range sampleWeight {
			w[i] = v / s
		}
	}

	rnd := rand.New(rand.NewSource(a.RandomState))
	for m := 0; m < a.NEstimators; m++ {
		// Each base estimator gets its own seed so fits are reproducible
		// yet the per-round feature subsampling differs.
		tree := model.NewDecisionTreeClassifier(
			model.WithMaxDepth(a.TreeMaxDepth),
			model.WithRandomState(a.RandomState+int64(m)+1),
		)
		Xfit, yfit, wfit, err := a.sample(X, y, w, rnd)
		if err != nil {
			return err
		}
		if err := tree.Fit(Xfit, yfit, wfit); err != nil {
			return err
		}

		var stop bool
		var err2 error
		if a.Algorithm == SAMMER {
			stop, err2 = a.boostReal(tree, X, y, w, m)
		} else {
			stop, err2 = a.boostDiscrete(tree, X, y, w, m)
		}
		if err2 != nil {
			return err2
		}
		if a.OnRound != nil {
			a.OnRound(m)
		}
		if stop {
			break
		}

		s := 0.0
		for _, v := range w {
			s += v
		}
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			break
		}
		for i := range w {
			w[i] /= s
		}
	}
	if len(a.estimators) == 0 {
		return errors.New("adaboost: no estimator could be fitted")
	}
	return nil
}

// boostReal is one SAMME.R round: probability-based weight update,
// estimator weight fixed at the learning rate.
func (a *AdaBoostClassifier) boostReal(tree *model.DecisionTreeClassifier, X [][]float64, y []int, w []float64, round int) (stop bool, err error) {
	K := float64(len(a.classes))
	proba := alignProba(tree.PredictProba(X), tree.Classes(), a.classes)

	estErr := 0.0
	for i, row := range proba {
		if a.classes[argmaxRow(row)] != y[i] {
			estErr += w[i]
		}
	}

	a.estimators = append(a.estimators, tree)
	a.alphas = append(a.alphas, a.LearningRate)
	a.errs = append(a.errs, estErr)
	if estErr <= 0 {
		return true, nil
	}

	classPos := make(map[int]int, len(a.classes))
	for i, c := range a.classes {
		classPos[c] = i
	}
	for i, row := range proba {
		// y coding: 1 at the true class, -1/(K-1) elsewhere
		sum := 0.0
		for k, p := range row {
			if p < probaEps {
				p = probaEps
			}
			coding := -1 / (K - 1)
			if k == classPos[y[i]] {
				coding = 1
			}
			sum += coding * math.Log(p)
		}
		w[i] *= math.Exp(a.LearningRate * (-(K - 1) / K) * sum)
	}
	return false, nil
}

// boostDiscrete is one SAMME round: hard predictions, multiplicative
// up-weighting of the misclassified samples.
func (a *AdaBoostClassifier) boostDiscrete(tree *model.DecisionTreeClassifier, X [][]float64, y []int, w []float64, round int) (stop bool, err error) {
	K := float64(len(a.classes))
	yPred := tree.Predict(X)

	estErr := 0.0
	for i := range yPred {
		if yPred[i] != y[i] {
			estErr += w[i]
		}
	}
	if estErr <= 0 {
		a.estimators = append(a.estimators, tree)
		a.alphas = append(a.alphas, 1)
		a.errs = append(a.errs, 0)
		return true, nil
	}
	if estErr >= 1-1/K {
		if len(a.estimators) == 0 {
			return true, errors.New("adaboost: base estimator is no better than random guessing")
		}
		return true, nil // discard this round, keep what we have
	}

	alpha := a.LearningRate * (math.Log((1-estErr)/estErr) + math.Log(K-1))
	for i := range w {
		if yPred[i] != y[i] {
			w[i] *= math.Exp(alpha)
		}
	}
	a.estimators = append(a.estimators, tree)
	a.alphas = append(a.alphas, alpha)
	a.errs = append(a.errs, estErr)
	return false, nil
}

// DecisionFunction returns the n x K normalized additive class scores.
func (a *AdaBoostClassifier) DecisionFunction(X [][]float64) [][]float64 {
	n, K := len(X), len(a.classes)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, K)
	}
	if len(a.estimators) == 0 {
		return out
	}

	alphaSum := 0.0
	for _, alpha := range a.alphas {
		alphaSum += alpha
	}
	for m, tree := range a.estimators {
		if a.Algorithm == SAMMER {
			proba := alignProba(tree.PredictProba(X), tree.Classes(), a.classes)
			kf := float64(K)
			for i, row := range proba {
				logs := make([]float64, K)
				mean := 0.0
				for k, p := range row {
					if p < probaEps {
						p = probaEps
					}
					logs[k] = math.Log(p)
					mean += logs[k]
				}
				mean /= kf
				for k := range logs {
					out[i][k] += (kf - 1) * (logs[k] - mean)
				}
			}
		} else {
			yPred := tree.Predict(X)
			pos := make(map[int]int, K)
			for k, c := range a.classes {
				pos[c] = k
			}
			for i, p := range yPred {
				out[i][pos[p]] += a.alphas[m]
			}
		}
	}
	if alphaSum > 0 {
		for i := range out {
			for k := range out[i] {
				out[i][k] /= alphaSum
			}
		}
	}
	return out
}

// PredictProba maps the decision function through the softmax-style
// transform exp(d / (K-1)), row-normalized.
func (a *AdaBoostClassifier) PredictProba(X [][]float64) [][]float64 {
	K := float64(len(a.classes))
	dec := a.DecisionFunction(X)
	for i, row := range dec {
		s := 0.0
		for k := range row {
			row[k] = math.Exp(row[k] / (K - 1))
			s += row[k]
		}
		if s > 0 {
			for k := range row {
				row[k] /= s
			}
		}
		dec[i] = row
	}
	return dec
}

// Predict returns the argmax class of the decision function.
func (a *AdaBoostClassifier) Predict(X [][]float64) []int {
	dec := a.DecisionFunction(X)
	out := make([]int, len(X))
	for i, row := range dec {
		out[i] = a.classes[argmaxRow(row)]
	}
	return out
}

// Score is the plain accuracy on (X, y).
func (a *AdaBoostClassifier) Score(X [][]float64, y []int) float64 {
	return score(a, X, y)
}

// Classes returns the sorted class labels seen during Fit.
func (a *AdaBoostClassifier) Classes() []int {
	out := make([]int, len(a.classes))
	copy(out, a.classes)
	return out
}

// Estimators exposes the fitted base trees in boosting order.
func (a *AdaBoostClassifier) Estimators() []*model.DecisionTreeClassifier {
	return a.estimators
}

// EstimatorWeights returns the per-round alphas.
func (a *AdaBoostClassifier) EstimatorWeights() []float64 {
	out := make([]float64, len(a.alphas))
	copy(out, a.alphas)
	return out
}

// EstimatorErrors returns the per-round weighted training errors.
func (a *AdaBoostClassifier) EstimatorErrors() []float64 {
	out := make([]float64, len(a.errs))
	copy(out, a.errs)
	return out
}

// FeatureImportances averages the base trees' impurity-decrease
// importances, weighted by their alphas.
func (a *AdaBoostClassifier) FeatureImportances() []float64 {
	out := make([]float64, a.nFeatures)
	alphaSum := 0.0
	for m, tree := range a.estimators {
		imp := tree.FeatureImportances()
		for j := range out {
			out[j] += a.alphas[m] * imp[j]
		}
		alphaSum += a.alphas[m]
	}
	if alphaSum > 0 {
		for j := range out {
			out[j] /= alphaSum
		}
	}
	return out
}
