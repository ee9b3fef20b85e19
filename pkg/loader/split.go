package loader

import (
	"errors"
	"math/rand"
	"sort"
)

// TrainTestSplit shuffles and splits X, y into train and test sets by ratio.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []int, err error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, errors.New("loader: X and y length mismatch")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, errors.New("loader: testRatio must be in (0, 1)")
	}
	n := len(X)
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	nTest := int(float64(n) * testRatio)
	for i, idx := range indices {
		if i < nTest {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		} else {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return
}

// StratifiedTrainTestSplit splits per class so that both sides keep the
// original label proportions. Every class with at least two members is
// represented on both sides.
func StratifiedTrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []int, err error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, errors.New("loader: X and y length mismatch")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, errors.New("loader: testRatio must be in (0, 1)")
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rnd := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		nTest := int(float64(len(idx)) * testRatio)
		if nTest == 0 && len(idx) > 1 {
			nTest = 1
		}
		if nTest == len(idx) {
			nTest--
		}
		for i, ii := range idx {
			if i < nTest {
				XTest = append(XTest, X[ii])
				yTest = append(yTest, y[ii])
			} else {
				XTrain = append(XTrain, X[ii])
				yTrain = append(yTrain, y[ii])
			}
		}
	}
	return
}

// ShuffleData shuffles X and y in unison.
func ShuffleData(X [][]float64, y []int, seed int64) ([][]float64, []int) {
	n := len(X)
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	XShuf := make([][]float64, n)
	yShuf := make([]int, n)
	for i, idx := range indices {
		XShuf[i] = X[idx]
		yShuf[i] = y[idx]
	}
	return XShuf, yShuf
}

// KFold yields k folds of indices partitioning [0, n).
func KFold(n, k int, seed int64) [][]int {
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	folds := make([][]int, k)
	for i, idx := range indices {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}

// StratifiedKFold yields k folds whose label proportions match y.
func StratifiedKFold(y []int, k int, seed int64) [][]int {
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rnd := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	next := 0
	for _, c := range classes {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		for _, ii := range idx {
			folds[next%k] = append(folds[next%k], ii)
			next++
		}
	}
	return folds
}
