// Package sampler implements the resampling strategies the ensembles build
// on: random under-sampling, random over-sampling and SMOTE.
package sampler

import (
	"errors"
	"math/rand"
	"sort"
)

// Resampler rebalances a labelled dataset. Implementations keep X rows and
// y labels aligned and never mutate their inputs.
type Resampler interface {
	Resample(X [][]float64, y []int) ([][]float64, []int, error)
}

// classIndices groups sample indices per label, classes sorted ascending.
func classIndices(y []int) ([]int, map[int][]int) {
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes, byClass
}

func minorityCount(byClass map[int][]int) int {
	m := -1
	for _, idx := range byClass {
		if m == -1 || len(idx) < m {
			m = len(idx)
		}
	}
	return m
}

func majorityCount(byClass map[int][]int) int {
	m := 0
	for _, idx := range byClass {
		if len(idx) > m {
			m = len(idx)
		}
	}
	return m
}

// BalancedIndices draws, for every class, a without-replacement sample of
// the minority-class size. The ensembles use it to build balanced training
// views without copying rows.
func BalancedIndices(y []int, rnd *rand.Rand) []int {
	classes, byClass := classIndices(y)
	target := minorityCount(byClass)
	out := make([]int, 0, target*len(classes))
	for _, c := range classes {
		idx := byClass[c]
		perm := rnd.Perm(len(idx))
		for i := 0; i < target; i++ {
			out = append(out, idx[perm[i]])
		}
	}
	return out
}

// RandomUnderSampler keeps a without-replacement subset of every class,
// sized to the minority class.
type RandomUnderSampler struct {
	Seed int64
}

func NewRandomUnderSampler(seed int64) *RandomUnderSampler {
	return &RandomUnderSampler{Seed: seed}
}

func (s *RandomUnderSampler) Resample(X [][]float64, y []int) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, errors.New("sampler: X and y length mismatch")
	}
	if len(X) == 0 {
		return nil, nil, errors.New("sampler: empty X")
	}
	rnd := rand.New(rand.NewSource(s.Seed))
	keep := BalancedIndices(y, rnd)
	Xr := make([][]float64, len(keep))
	yr := make([]int, len(keep))
	for i, idx := range keep {
		Xr[i] = X[idx]
		yr[i] = y[idx]
	}
	return Xr, yr, nil
}

// RandomOverSampler duplicates minority samples with replacement until every
// class matches the majority size. Originals come first, in input order.
type RandomOverSampler struct {
	Seed int64
}

func NewRandomOverSampler(seed int64) *RandomOverSampler {
	return &RandomOverSampler{Seed: seed}
}

func (s *RandomOverSampler) Resample(X [][]float64, y []int) ([][]float64, []int, error) {
	if len(X) != len(y) {
		return nil, nil, errors.New("sampler: X and y length mismatch")
	}
	if len(X) == 0 {
		return nil, nil, errors.New("sampler: empty X")
	}
	rnd := rand.New(rand.NewSource(s.Seed))
	classes, byClass := classIndices(y)
	target := majorityCount(byClass)

	Xr := make([][]float64, len(X), len(X)+target)
	copy(Xr, X)
	yr := make([]int, len(y), len(y)+target)
	copy(yr, y)
	for _, c := range classes {
		idx := byClass[c]
		for i := len(idx); i < target; i++ {
			pick := idx[rnd.Intn(len(idx))]
			Xr = append(Xr, X[pick])
			yr = append(yr, c)
		}
	}
	return Xr, yr, nil
}
