// Package visualize renders diagnostic plots for labelled datasets.
package visualize

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type projConfig struct {
	title  string
	output string
	radius vg.Length
}

type ProjOption func(*projConfig)

func WithTitle(t string) ProjOption       { return func(c *projConfig) { c.title = t } }
func WithOutput(path string) ProjOption   { return func(c *projConfig) { c.output = path } }
func WithPointRadius(r float64) ProjOption {
	return func(c *projConfig) { c.radius = vg.Points(r) }
}

var classPalette = []color.RGBA{
	{R: 220, G: 57, B: 18, A: 255},
	{R: 51, G: 102, B: 204, A: 255},
	{R: 16, G: 150, B: 24, A: 255},
	{R: 255, G: 153, B: 0, A: 255},
	{R: 153, G: 0, B: 153, A: 255},
	{R: 0, G: 153, B: 198, A: 255},
}

// PlotProjection scatters a labelled dataset in two dimensions and writes
// the plot to disk. Data with more than two columns is first projected onto
// its top two principal components. Each class gets its own colour and a
// legend entry carrying its cardinality.
func PlotProjection(X [][]float64, y []int, opts ...ProjOption) error {
	if len(X) == 0 {
		return errors.New("visualize: empty X")
	}
	if len(X) != len(y) {
		return errors.New("visualize: X and y length mismatch")
	}
	cfg := &projConfig{
		title:  "2D projection",
		output: "projection.png",
		radius: vg.Points(2),
	}
	for _, o := range opts {
		o(cfg)
	}

	P, err := Project2D(X)
	if err != nil {
		return err
	}

	counts := make(map[int]int)
	for _, label := range y {
		counts[label]++
	}
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Component 1"
	p.Y.Label.Text = "Component 2"

	for ci, c := range classes {
		pts := make(plotter.XYs, 0, counts[c])
		for i, label := range y {
			if label == c {
				pts = append(pts, plotter.XY{X: P[i][0], Y: P[i][1]})
			}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("visualize: scatter for class %d: %w", c, err)
		}
		s.Color = classPalette[ci%len(classPalette)]
		s.Radius = cfg.radius
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("class %d (n=%d)", c, counts[c]), s)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, cfg.output); err != nil {
		return fmt.Errorf("visualize: save %s: %w", cfg.output, err)
	}
	return nil
}

// Project2D reduces X to two columns. Two-column data passes through
// unchanged; wider data is centered and projected onto the top two right
// singular vectors.
func Project2D(X [][]float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, errors.New("visualize: empty X")
	}
	n, p := len(X), len(X[0])
	out := make([][]float64, n)
	if p <= 2 {
		for i, row := range X {
			pt := make([]float64, 2)
			copy(pt, row)
			out[i] = pt
		}
		return out, nil
	}

	means := make([]float64, p)
	for _, row := range X {
		if len(row) != p {
			return nil, errors.New("visualize: inconsistent number of features in X rows")
		}
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	centered := mat.NewDense(n, p, nil)
	for i, row := range X {
		for j, v := range row {
			centered.Set(i, j, v-means[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("visualize: SVD failed to converge")
	}
	var V mat.Dense
	svd.VTo(&V)

	// A thin SVD of an n x p matrix has min(n, p) right singular vectors;
	// with fewer than two the missing component stays zero.
	_, nComp := V.Dims()
	if nComp > 2 {
		nComp = 2
	}
	var proj mat.Dense
	proj.Mul(centered, V.Slice(0, p, 0, nComp))
	for i := 0; i < n; i++ {
		pt := make([]float64, 2)
		for j := 0; j < nComp; j++ {
			pt[j] = proj.At(i, j)
		}
		out[i] = pt
	}
	return out, nil
}
