package ensemble

import (
	"math/rand"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/sampler"
)

// RUSBoostClassifier boosts like AdaBoost but fits every round on a
// random-undersampled balanced view of the data. The boosting weight update
// still runs on the full set, so majority samples the ensemble keeps
// misclassifying regain influence in later rounds.
type RUSBoostClassifier struct {
	AdaBoostClassifier
}

func NewRUSBoostClassifier(opts ...AdaBoostOption) *RUSBoostClassifier {
	r := &RUSBoostClassifier{AdaBoostClassifier: *NewAdaBoostClassifier(opts...)}
	r.sample = underSampleRound
	return r
}

// underSampleRound draws a balanced without-replacement subset and carries
// the current boosting weights over, renormalized.
func underSampleRound(X [][]float64, y []int, w []float64, rnd *rand.Rand) ([][]float64, []int, []float64, error) {
	idx := sampler.BalancedIndices(y, rnd)
	Xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	ws := make([]float64, len(idx))
	sum := 0.0
	for i, ii := range idx {
		Xs[i] = X[ii]
		ys[i] = y[ii]
		ws[i] = w[ii]
		sum += w[ii]
	}
	if sum <= 0 {
		// every selected sample has zero boosting weight; fall back to uniform
		for i := range ws {
			ws[i] = 1 / float64(len(ws))
		}
		return Xs, ys, ws, nil
	}
	for i := range ws {
		ws[i] /= sum
	}
	return Xs, ys, ws, nil
}
