package sampler

import (
	"errors"
	"math/rand"
	"sort"
)

// SMOTE oversamples minority classes with synthetic points interpolated
// between a sample and one of its k nearest same-class neighbours.
// Originals come first in the output, synthetic rows are appended, so a
// caller can tell the two apart by position.
type SMOTE struct {
	K    int // neighbours per sample; clipped to class size - 1
	Seed int64
}

func NewSMOTE(k int, seed int64) *SMOTE {
	if k <= 0 {
		k = 5
	}
	return &SMOTE{K: k, Seed: seed}
}

func (s *SMOTE) Resample(X [][]float64, y []int) ([][]float64, []int, error) {
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
		need := target - len(idx)
		if need <= 0 {
			continue
		}
		synth := s.synthesize(X, idx, need, rnd)
		for _, row := range synth {
			Xr = append(Xr, row)
			yr = append(yr, c)
		}
	}
	return Xr, yr, nil
}

// synthesize builds n synthetic rows from the class members at idx.
func (s *SMOTE) synthesize(X [][]float64, idx []int, n int, rnd *rand.Rand) [][]float64 {
	out := make([][]float64, 0, n)
	if len(idx) == 1 {
		// nothing to interpolate with; replicate the lone sample
		for i := 0; i < n; i++ {
			row := make([]float64, len(X[idx[0]]))
			copy(row, X[idx[0]])
			out = append(out, row)
		}
		return out
	}
	k := s.K
	if k > len(idx)-1 {
		k = len(idx) - 1
	}
	neighbours := make([][]int, len(idx))
	for i := range idx {
		neighbours[i] = nearestWithinClass(X, idx, i, k)
	}
	for i := 0; i < n; i++ {
		pick := rnd.Intn(len(idx))
		base := X[idx[pick]]
		nbr := X[neighbours[pick][rnd.Intn(k)]]
		u := rnd.Float64()
		row := make([]float64, len(base))
		for j := range base {
			row[j] = base[j] + u*(nbr[j]-base[j])
		}
		out = append(out, row)
	}
	return out
}

// nearestWithinClass returns the dataset indices of the k nearest class
// members to idx[at], excluding itself. A small sorted list is maintained
// instead of sorting all distances.
func nearestWithinClass(X [][]float64, idx []int, at, k int) []int {
	type pair struct {
		d float64
		i int
	}
	xi := X[idx[at]]
	nbrs := make([]pair, 0, k+1)
	for j, jj := range idx {
		if j == at {
			continue
		}
		d := euclidSquared(xi, X[jj])
		if len(nbrs) < k {
			nbrs = append(nbrs, pair{d, jj})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = pair{d, jj}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}
	out := make([]int, len(nbrs))
	for i, p := range nbrs {
		out[i] = p.i
	}
	return out
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
