package bench_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/bench"
)

func openStore(t *testing.T) *bench.Store {
	t.Helper()
	s, err := bench.OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreInsertAssignsIdentity(t *testing.T) {
	s := openStore(t)
	r := &bench.Run{
		Dataset:          "synthetic",
		Estimator:        "rusboost",
		Seed:             42,
		BalancedAccuracy: 0.91,
		GMean:            0.89,
		FitDuration:      1500 * time.Millisecond,
	}
	if err := s.Insert(r); err != nil {
		t.Fatal(err)
	}
	if r.ID == "" {
		t.Fatal("insert must assign an ID")
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("insert must assign a timestamp")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := &bench.Run{
			Dataset:          "credit",
			Estimator:        "easyensemble",
			Seed:             int64(i),
			BalancedAccuracy: 0.8 + float64(i)/100,
			GMean:            0.75,
			FitDuration:      time.Duration(i+1) * time.Second,
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Insert(r); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	// newest first
	if runs[0].Seed != 2 || runs[2].Seed != 0 {
		t.Fatalf("unexpected order: seeds %d, %d, %d", runs[0].Seed, runs[1].Seed, runs[2].Seed)
	}
	got := runs[0]
	if got.Dataset != "credit" || got.Estimator != "easyensemble" {
		t.Fatalf("run = %+v", got)
	}
	if got.BalancedAccuracy != 0.82 || got.GMean != 0.75 {
		t.Fatalf("scores = %v / %v", got.BalancedAccuracy, got.GMean)
	}
	if got.FitDuration != 3*time.Second {
		t.Fatalf("fit duration = %v", got.FitDuration)
	}
	if !got.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("created at = %v", got.CreatedAt)
	}
}

func TestStoreRecentLimit(t *testing.T) {
	s := openStore(t)
	for i := 0; i < 5; i++ {
		if err := s.Insert(&bench.Run{Dataset: "d", Estimator: "e", Seed: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}
