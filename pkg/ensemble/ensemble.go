// Package ensemble implements boosting and bagging classifiers built for
// imbalanced label distributions: AdaBoost (SAMME / SAMME.R), RUSBoost,
// SMOTEBoost, EasyEnsemble and a balanced random forest. All of them boost
// or bag the weighted CART trees from pkg/model.
package ensemble

import (
	"sort"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

func sortedUnique(y []int) []int {
	seen := make(map[int]struct{}, 8)
	out := make([]int, 0, 8)
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

// alignProba re-indexes an estimator's probability columns onto the
// ensemble's class order. An estimator fitted on a resampled view may have
// seen fewer classes than the ensemble; missing columns stay zero.
func alignProba(p [][]float64, estClasses, classes []int) [][]float64 {
	if equalInts(estClasses, classes) {
		return p
	}
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}
	out := make([][]float64, len(p))
	for i, row := range p {
		aligned := make([]float64, len(classes))
		for j, c := range estClasses {
			aligned[pos[c]] = row[j]
		}
		out[i] = aligned
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func argmaxRow(row []float64) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return best
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func score(c model.Classifier, X [][]float64, y []int) float64 {
	return model.Accuracy(y, c.Predict(X))
}
