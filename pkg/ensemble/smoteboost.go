package ensemble

import (
	"math/rand"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/sampler"
)

// SMOTEBoostClassifier boosts on SMOTE-augmented training views: every
// round the minority classes are topped up with synthetic interpolated
// samples before the base tree is fitted. Synthetic rows get the mean
// boosting weight and are discarded after the round, so the weight update
// only ever touches real samples.
type SMOTEBoostClassifier struct {
	AdaBoostClassifier
	KNeighbors int // SMOTE neighbourhood size
}

func NewSMOTEBoostClassifier(opts ...AdaBoostOption) *SMOTEBoostClassifier {
	s := &SMOTEBoostClassifier{
		AdaBoostClassifier: *NewAdaBoostClassifier(opts...),
		KNeighbors:         5,
	}
	s.sample = s.smoteRound
	return s
}

func (s *SMOTEBoostClassifier) smoteRound(X [][]float64, y []int, w []float64, rnd *rand.Rand) ([][]float64, []int, []float64, error) {
	sm := sampler.NewSMOTE(s.KNeighbors, rnd.Int63())
	Xr, yr, err := sm.Resample(X, y)
	if err != nil {
		return nil, nil, nil, err
	}

	mean := 0.0
	for _, v := range w {
		mean += v
	}
	mean /= float64(len(w))

	wr := make([]float64, len(yr))
	sum := 0.0
	for i := range wr {
		if i < len(w) {
			wr[i] = w[i]
		} else {
			wr[i] = mean
		}
		sum += wr[i]
	}
	for i := range wr {
		wr[i] /= sum
	}
	return Xr, yr, wr, nil
}
