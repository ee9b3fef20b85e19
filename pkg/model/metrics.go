package model

import "math"

// ClassDistribution tallies label frequencies.
func ClassDistribution(y []int) map[int]int {
	out := make(map[int]int)
	for _, v := range y {
		out[v]++
	}
	return out
}

// Accuracy is the fraction of exact label matches.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix returns the K x K matrix indexed [true][pred] over the
// given class order, plus the class order itself when classes is nil (then
// the sorted union of labels in yTrue and yPred is used).
func ConfusionMatrix(yTrue, yPred []int, classes []int) ([][]int, []int) {
	if classes == nil {
		all := make([]int, 0, len(yTrue)+len(yPred))
		all = append(all, yTrue...)
		all = append(all, yPred...)
		classes = sortedUnique(all)
	}
	idx := make(map[int]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	m := make([][]int, len(classes))
	for i := range m {
		m[i] = make([]int, len(classes))
	}
	for i := range yTrue {
		ti, ok1 := idx[yTrue[i]]
		pi, ok2 := idx[yPred[i]]
		if ok1 && ok2 {
			m[ti][pi]++
		}
	}
	return m, classes
}

// perClassRecalls computes recall per class from a confusion matrix.
func perClassRecalls(m [][]int) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		total := 0
		for _, v := range row {
			total += v
		}
		if total > 0 {
			out[i] = float64(row[i]) / float64(total)
		}
	}
	return out
}

// BalancedAccuracy is the unweighted mean of per-class recalls, the usual
// headline number on skewed label distributions.
func BalancedAccuracy(yTrue, yPred []int) float64 {
	m, _ := ConfusionMatrix(yTrue, yPred, nil)
	recalls := perClassRecalls(m)
	if len(recalls) == 0 {
		return 0
	}
	s := 0.0
	for _, r := range recalls {
		s += r
	}
	return s / float64(len(recalls))
}

// GeometricMeanScore is the geometric mean of per-class recalls. A single
// fully-missed class drives it to zero.
func GeometricMeanScore(yTrue, yPred []int) float64 {
	m, _ := ConfusionMatrix(yTrue, yPred, nil)
	recalls := perClassRecalls(m)
	if len(recalls) == 0 {
		return 0
	}
	logSum := 0.0
	for _, r := range recalls {
		if r == 0 {
			return 0
		}
		logSum += math.Log(r)
	}
	return math.Exp(logSum / float64(len(recalls)))
}

// ClassReport holds per-class precision/recall/F1 with its support.
type ClassReport struct {
	Class     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// PrecisionRecallF1 computes a per-class report in sorted class order.
func PrecisionRecallF1(yTrue, yPred []int) []ClassReport {
	m, classes := ConfusionMatrix(yTrue, yPred, nil)
	out := make([]ClassReport, len(classes))
	for i, c := range classes {
		tp := m[i][i]
		support, predicted := 0, 0
		for j := range classes {
			support += m[i][j]
			predicted += m[j][i]
		}
		r := ClassReport{Class: c, Support: support}
		if predicted > 0 {
			r.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			r.Recall = float64(tp) / float64(support)
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		out[i] = r
	}
	return out
}

// MacroF1 averages the per-class F1 scores without support weighting.
func MacroF1(yTrue, yPred []int) float64 {
	reports := PrecisionRecallF1(yTrue, yPred)
	if len(reports) == 0 {
		return 0
	}
	s := 0.0
	for _, r := range reports {
		s += r.F1
	}
	return s / float64(len(reports))
}
