package model

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// DecisionTreeClassifier is a CART-style classifier with sample-weight
// support, suitable both standalone and as a boosting base estimator.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => all features, >0 => features sampled per split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	// internals
	root        *treeNode
	classes     []int // sorted unique labels; probas are aligned with this order
	importances []float64
	nFeatures   int
}

// treeNode holds one node of the fitted tree.
type treeNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *treeNode
	right     *treeNode

	weight    float64   // total sample weight that reached this node
	probas    []float64 // weighted class distribution (leaf only)
	predIndex int       // index into classes of the majority class
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:            0,
		MinSamplesSplit:     2,
		MinSamplesLeaf:      1,
		Criterion:           "gini",
		MaxFeatures:         0,
		MinImpurityDecrease: 0.0,
		RandomState:         time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Fit trains the tree on X (n x p) and integer labels y. sampleWeight may be
// nil; otherwise it must have length n and non-negative entries. Splits are
// evaluated on weighted class distributions, so boosting weight updates
// change the tree shape, not just the leaf counts.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int, sampleWeight []float64) error {
	if len(X) == 0 {
		return errors.New("dtree: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("dtree: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	w := sampleWeight
	if w == nil {
		w = make([]float64, n)
		for i := range w {
			w[i] = 1
		}
	} else if len(w) != n {
		return errors.New("dtree: X and sampleWeight length mismatch")
	}

	t.classes = sortedUnique(y)
	t.nFeatures = p
	t.importances = make([]float64, p)
	classIdx := make(map[int]int, len(t.classes))
	for i, c := range t.classes {
		classIdx[c] = i
	}

	idx := make([]int, 0, n)
	totalW := 0.0
	for i := 0; i < n; i++ {
		if w[i] < 0 {
			return errors.New("dtree: negative sample weight")
		}
		if w[i] > 0 {
			idx = append(idx, i)
			totalW += w[i]
		}
	}
	if totalW == 0 {
		return errors.New("dtree: all sample weights are zero")
	}

	rnd := rand.New(rand.NewSource(t.RandomState))
	impurity := giniFromCounts
	if t.Criterion == "entropy" {
		impurity = entropyFromCounts
	}

	t.root = t.buildNode(X, y, w, classIdx, idx, 0, p, totalW, impurity, rnd)

	// normalize accumulated impurity decreases
	s := 0.0
	for _, v := range t.importances {
		s += v
	}
	if s > 0 {
		for j := range t.importances {
			t.importances[j] /= s
		}
	}
	return nil
}

// Predict returns predicted labels for the rows of X.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		probs := t.predictProbaSingle(X[i])
		out[i] = t.classes[argmaxFloat(probs)]
	}
	return out
}

// PredictProba returns per-class probability vectors aligned with Classes().
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.predictProbaSingle(X[i])
	}
	return out
}

// Classes returns the sorted class labels seen during Fit.
func (t *DecisionTreeClassifier) Classes() []int {
	out := make([]int, len(t.classes))
	copy(out, t.classes)
	return out
}

// FeatureImportances returns the normalized weighted impurity decrease per
// feature. The slice sums to 1 unless the tree is a single leaf.
func (t *DecisionTreeClassifier) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances))
	copy(out, t.importances)
	return out
}

// splitResult carries the best split found for a single feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

// pair is a feature value with its sample index.
type pair struct {
	v float64
	i int
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, y []int, w []float64, classIdx map[int]int, idx []int, depth, p int, totalW float64, impurity func([]float64) float64, rnd *rand.Rand) *treeNode {
	nClasses := len(t.classes)
	counts := make([]float64, nClasses)
	nodeW := 0.0
	for _, ii := range idx {
		counts[classIdx[y[ii]]] += w[ii]
		nodeW += w[ii]
	}
	node := &treeNode{weight: nodeW}

	leaf := func() *treeNode {
		node.isLeaf = true
		node.probas = countsToProbas(counts)
		node.predIndex = argmaxFloat(node.probas)
		return node
	}

	if isPure(counts) || (t.MinSamplesSplit > 0 && len(idx) < t.MinSamplesSplit) {
		return leaf()
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf()
	}

	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		for i := 0; i < p; i++ {
			j := i + rnd.Intn(p-i)
			featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
		}
		featIndices = featIndices[:t.MaxFeatures]
	}

	parentImpurity := impurity(counts)

	// Parallel search for the best split of each candidate feature.
	results := make(chan splitResult, len(featIndices))
	var wg sync.WaitGroup
	for _, f := range featIndices {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results <- t.findBestSplitForFeature(X, y, w, classIdx, idx, f, nodeW, parentImpurity, impurity)
		}(f)
	}
	wg.Wait()
	close(results)

	// Channel drain order is nondeterministic, so ties are broken on the
	// feature index and threshold to keep fits reproducible under one seed.
	best := splitResult{feature: -1}
	for r := range results {
		if betterSplit(r, best) {
			best = r
		}
	}

	if best.feature == -1 || best.gain <= t.MinImpurityDecrease {
		return leaf()
	}

	t.importances[best.feature] += nodeW / totalW * best.gain

	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(X, y, w, classIdx, best.leftIdx, depth+1, p, totalW, impurity, rnd)
	node.right = t.buildNode(X, y, w, classIdx, best.rightIdx, depth+1, p, totalW, impurity, rnd)
	return node
}

func betterSplit(a, b splitResult) bool {
	if a.feature == -1 {
		return false
	}
	if b.feature == -1 {
		return true
	}
	if a.gain != b.gain {
		return a.gain > b.gain
	}
	if a.feature != b.feature {
		return a.feature < b.feature
	}
	return a.threshold < b.threshold
}

// findBestSplitForFeature scans the sorted values of feature f, maintaining
// incremental weighted class counts on each side of the candidate threshold.
func (t *DecisionTreeClassifier) findBestSplitForFeature(X [][]float64, y []int, w []float64, classIdx map[int]int, idx []int, f int, nodeW, parentImpurity float64, impurity func([]float64) float64) splitResult {
	result := splitResult{gain: 0, feature: -1}
	nClasses := len(t.classes)

	vals := make([]pair, 0, len(idx))
	for _, ii := range idx {
		v := X[ii][f]
		if math.IsNaN(v) {
			return result // feature unusable
		}
		vals = append(vals, pair{v, ii})
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	leftCounts := make([]float64, nClasses)
	rightCounts := make([]float64, nClasses)
	rightW := 0.0
	for _, pv := range vals {
		rightCounts[classIdx[y[pv.i]]] += w[pv.i]
		rightW += w[pv.i]
	}

	leftW := 0.0
	for s := 1; s < len(vals); s++ {
		ci := classIdx[y[vals[s-1].i]]
		leftCounts[ci] += w[vals[s-1].i]
		rightCounts[ci] -= w[vals[s-1].i]
		leftW += w[vals[s-1].i]
		rightW -= w[vals[s-1].i]

		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < t.MinSamplesLeaf || len(vals)-s < t.MinSamplesLeaf {
			continue
		}

		weighted := leftW/nodeW*impurity(leftCounts) + rightW/nodeW*impurity(rightCounts)
		gain := parentImpurity - weighted
		if gain > result.gain {
			thr := (vals[s-1].v + vals[s].v) / 2
			result = splitResult{gain: gain, feature: f, threshold: thr}
			result.leftIdx = indicesFromPairs(vals[:s])
			result.rightIdx = indicesFromPairs(vals[s:])
		}
	}
	return result
}

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if t.root == nil {
		p := make([]float64, len(t.classes))
		for i := range p {
			p[i] = 1 / float64(len(p))
		}
		return p
	}
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	out := make([]float64, len(node.probas))
	copy(out, node.probas)
	return out
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func giniFromCounts(counts []float64) float64 {
	n := 0.0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := c / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []float64) float64 {
	n := 0.0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := c / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []float64) []float64 {
	n := 0.0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = counts[i] / n
	}
	return p
}

func argmaxFloat(arr []float64) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, len(pairs))
	for i, p := range pairs {
		out[i] = p.i
	}
	return out
}

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
