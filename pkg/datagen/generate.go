// Package datagen synthesizes classification datasets with controllable
// class imbalance. Samples are drawn as Gaussian clusters placed on the
// vertices of a hypercube, pushed through random linear maps so that the
// informative features carry cluster-specific covariance.
package datagen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Config carries the generator knobs. Zero values are not meaningful for
// most fields; start from DefaultConfig and override.
type Config struct {
	NSamples          int
	NFeatures         int
	NInformative      int
	NRedundant        int
	NRepeated         int
	NClasses          int
	NClustersPerClass int
	Weights           []float64 // per-class proportions; nil => balanced
	FlipY             float64   // fraction of labels randomly reassigned
	ClassSep          float64   // centroid spread factor
	Hypercube         bool      // centroids on hypercube vertices vs random polytope
	Shift             float64
	Scale             float64
	Shuffle           bool
	Seed              int64
}

// DefaultConfig mirrors the defaults of the reference generator.
func DefaultConfig() *Config {
	return &Config{
		NSamples:          100,
		NFeatures:         20,
		NInformative:      2,
		NRedundant:        2,
		NRepeated:         0,
		NClasses:          2,
		NClustersPerClass: 2,
		FlipY:             0.01,
		ClassSep:          1.0,
		Hypercube:         true,
		Scale:             1.0,
		Shuffle:           true,
		Seed:              1,
	}
}

// MakeClassification generates an (X, y) classification problem per cfg.
// Deterministic for a fixed Seed.
func MakeClassification(cfg *Config) ([][]float64, []int, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n, p := cfg.NSamples, cfg.NFeatures
	nInf, nRed, nRep := cfg.NInformative, cfg.NRedundant, cfg.NRepeated
	if n <= 0 {
		return nil, nil, errors.New("datagen: NSamples must be positive")
	}
	if nInf <= 0 || nInf+nRed+nRep > p {
		return nil, nil, fmt.Errorf("datagen: informative(%d)+redundant(%d)+repeated(%d) must fit in %d features", nInf, nRed, nRep, p)
	}
	nClusters := cfg.NClasses * cfg.NClustersPerClass
	if cfg.NClasses < 1 || cfg.NClustersPerClass < 1 {
		return nil, nil, errors.New("datagen: NClasses and NClustersPerClass must be at least 1")
	}
	if nInf < 63 && nClusters > 1<<uint(nInf) {
		return nil, nil, fmt.Errorf("datagen: %d classes * %d clusters need more than 2^%d hypercube vertices", cfg.NClasses, cfg.NClustersPerClass, nInf)
	}

	weights, err := normalizeWeights(cfg.Weights, cfg.NClasses)
	if err != nil {
		return nil, nil, err
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))

	// Per-cluster sample allocation, proportional to class weights.
	perCluster := make([]int, nClusters)
	total := 0
	for k := 0; k < nClusters; k++ {
		perCluster[k] = int(float64(n) * weights[k%cfg.NClasses] / float64(cfg.NClustersPerClass))
		total += perCluster[k]
	}
	for i := 0; total < n; i++ {
		perCluster[i%nClusters]++
		total++
	}

	centroids := hypercubeVertices(nClusters, nInf, rnd)
	for _, c := range centroids {
		for j := range c {
			c[j] = c[j]*2*cfg.ClassSep - cfg.ClassSep
		}
	}
	if !cfg.Hypercube {
		rowScale := make([]float64, nClusters)
		colScale := make([]float64, nInf)
		for k := range rowScale {
			rowScale[k] = rnd.Float64()
		}
		for j := range colScale {
			colScale[j] = rnd.Float64()
		}
		for k, c := range centroids {
			for j := range c {
				c[j] *= rowScale[k] * colScale[j]
			}
		}
	}

	// Informative block: standard normal per cluster, random covariance map,
	// translated to the centroid.
	Xinf := mat.NewDense(n, nInf, nil)
	y := make([]int, n)
	row := 0
	for k := 0; k < nClusters; k++ {
		nk := perCluster[k]
		if nk == 0 {
			continue
		}
		Z := mat.NewDense(nk, nInf, nil)
		for i := 0; i < nk; i++ {
			for j := 0; j < nInf; j++ {
				Z.Set(i, j, rnd.NormFloat64())
			}
		}
		A := mat.NewDense(nInf, nInf, nil)
		for i := 0; i < nInf; i++ {
			for j := 0; j < nInf; j++ {
				A.Set(i, j, rnd.Float64()*2-1)
			}
		}
		var W mat.Dense
		W.Mul(Z, A)
		for i := 0; i < nk; i++ {
			for j := 0; j < nInf; j++ {
				Xinf.Set(row+i, j, W.At(i, j)+centroids[k][j])
			}
			y[row+i] = k % cfg.NClasses
		}
		row += nk
	}

	// Redundant block: random linear combinations of the informative one.
	var Xred mat.Dense
	if nRed > 0 {
		B := mat.NewDense(nInf, nRed, nil)
		for i := 0; i < nInf; i++ {
			for j := 0; j < nRed; j++ {
				B.Set(i, j, rnd.Float64()*2-1)
			}
		}
		Xred.Mul(Xinf, B)
	}

	// Assemble: informative, redundant, repeated copies, then pure noise.
	X := make([][]float64, n)
	for i := 0; i < n; i++ {
		xi := make([]float64, p)
		for j := 0; j < nInf; j++ {
			xi[j] = Xinf.At(i, j)
		}
		for j := 0; j < nRed; j++ {
			xi[nInf+j] = Xred.At(i, j)
		}
		X[i] = xi
	}
	if nRep > 0 {
		src := make([]int, nRep)
		for j := 0; j < nRep; j++ {
			src[j] = int(float64(nInf+nRed-1)*rnd.Float64() + 0.5)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < nRep; j++ {
				X[i][nInf+nRed+j] = X[i][src[j]]
			}
		}
	}
	for j := nInf + nRed + nRep; j < p; j++ {
		for i := 0; i < n; i++ {
			X[i][j] = rnd.NormFloat64()
		}
	}

	if cfg.FlipY > 0 {
		for i := 0; i < n; i++ {
			if rnd.Float64() < cfg.FlipY {
				y[i] = rnd.Intn(cfg.NClasses)
			}
		}
	}

	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	if cfg.Shift != 0 || scale != 1 {
		for i := range X {
			for j := range X[i] {
				X[i][j] = (X[i][j] + cfg.Shift) * scale
			}
		}
	}

	if cfg.Shuffle {
		perm := rnd.Perm(n)
		Xs := make([][]float64, n)
		ys := make([]int, n)
		for i, idx := range perm {
			Xs[i] = X[idx]
			ys[i] = y[idx]
		}
		X, y = Xs, ys

		colPerm := rnd.Perm(p)
		for i := range X {
			xi := make([]float64, p)
			for j, c := range colPerm {
				xi[j] = X[i][c]
			}
			X[i] = xi
		}
	}

	return X, y, nil
}

func normalizeWeights(weights []float64, nClasses int) ([]float64, error) {
	out := make([]float64, nClasses)
	switch len(weights) {
	case 0:
		for i := range out {
			out[i] = 1 / float64(nClasses)
		}
		return out, nil
	case nClasses - 1:
		s := 0.0
		for i, w := range weights {
			out[i] = w
			s += w
		}
		if s >= 1 {
			return nil, errors.New("datagen: partial weights must sum below 1")
		}
		out[nClasses-1] = 1 - s
		return out, nil
	case nClasses:
		s := 0.0
		for _, w := range weights {
			if w < 0 {
				return nil, errors.New("datagen: negative class weight")
			}
			s += w
		}
		if s == 0 {
			return nil, errors.New("datagen: class weights sum to zero")
		}
		for i, w := range weights {
			out[i] = w / s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("datagen: got %d weights for %d classes", len(weights), nClasses)
	}
}

// hypercubeVertices samples nClusters distinct {0,1}^dim vertices. For high
// dimensions distinctness is enforced probabilistically (collisions are
// vanishingly rare past 30 bits).
func hypercubeVertices(nClusters, dim int, rnd *rand.Rand) [][]float64 {
	out := make([][]float64, nClusters)
	if dim <= 30 {
		max := 1 << uint(dim)
		seen := make(map[int]struct{}, nClusters)
		for k := 0; k < nClusters; k++ {
			v := rnd.Intn(max)
			for {
				if _, dup := seen[v]; !dup {
					break
				}
				v = rnd.Intn(max)
			}
			seen[v] = struct{}{}
			out[k] = bitsToFloats(v, dim)
		}
		return out
	}
	for k := 0; k < nClusters; k++ {
		c := make([]float64, dim)
		for j := range c {
			c[j] = math.Floor(rnd.Float64() * 2)
		}
		out[k] = c
	}
	return out
}

func bitsToFloats(v, dim int) []float64 {
	out := make([]float64, dim)
	for j := 0; j < dim; j++ {
		if v&(1<<uint(j)) != 0 {
			out[j] = 1
		}
	}
	return out
}
