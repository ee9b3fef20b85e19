package visualize_test

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/visualize"
)

func TestPlotProjectionWritesPNG(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	var X [][]float64
	var y []int
	for i := 0; i < 200; i++ {
		X = append(X, []float64{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()})
		y = append(y, i%3)
	}

	out := filepath.Join(t.TempDir(), "proj.png")
	err := visualize.PlotProjection(X, y,
		visualize.WithTitle("test projection"),
		visualize.WithOutput(out),
		visualize.WithPointRadius(1.5),
	)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("plot file is empty")
	}
}

func TestPlotProjectionErrors(t *testing.T) {
	if err := visualize.PlotProjection(nil, nil); err == nil {
		t.Fatal("expected error on empty X")
	}
	if err := visualize.PlotProjection([][]float64{{1, 2}}, []int{0, 1}); err == nil {
		t.Fatal("expected error on length mismatch")
	}
}

func TestProject2DPassThrough(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}}
	P, err := visualize.Project2D(X)
	if err != nil {
		t.Fatal(err)
	}
	if P[0][0] != 1 || P[0][1] != 2 || P[1][0] != 3 || P[1][1] != 4 {
		t.Fatalf("two-column data must pass through, got %v", P)
	}
}

func TestProject2DPadsNarrowData(t *testing.T) {
	P, err := visualize.Project2D([][]float64{{7}, {9}})
	if err != nil {
		t.Fatal(err)
	}
	if P[0][0] != 7 || P[0][1] != 0 || P[1][0] != 9 || P[1][1] != 0 {
		t.Fatalf("one-column data must be zero-padded, got %v", P)
	}
}

func TestProject2DKeepsDominantDirection(t *testing.T) {
	// points on a line through 4D space; the first component carries all
	// the variance, the second collapses to ~0
	var X [][]float64
	for i := 0; i < 20; i++ {
		v := float64(i)
		X = append(X, []float64{v, 2 * v, -v, 0.5 * v})
	}
	P, err := visualize.Project2D(X)
	if err != nil {
		t.Fatal(err)
	}
	if len(P) != 20 || len(P[0]) != 2 {
		t.Fatalf("projection shape = %dx%d", len(P), len(P[0]))
	}
	for i, pt := range P {
		if math.Abs(pt[1]) > 1e-8 {
			t.Fatalf("row %d has second component %v, want ~0", i, pt[1])
		}
	}
	if math.Abs(P[0][0]-P[19][0]) < 1 {
		t.Fatal("first component lost the spread of the data")
	}
}

func TestProject2DSingleWideRow(t *testing.T) {
	P, err := visualize.Project2D([][]float64{{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if len(P) != 1 || len(P[0]) != 2 {
		t.Fatalf("projection shape = %dx%d, want 1x2", len(P), len(P[0]))
	}
	// a single centered row is the zero vector in both components
	if P[0][0] != 0 || P[0][1] != 0 {
		t.Fatalf("projection of a lone row = %v, want origin", P[0])
	}
}

func TestProject2DInconsistentRows(t *testing.T) {
	if _, err := visualize.Project2D([][]float64{{1, 2, 3}, {1, 2}}); err == nil {
		t.Fatal("expected error on ragged rows")
	}
}
