package lsh

import (
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/patrikhermansson/cbir/core"
)

func mkRecord(t *testing.T, id string, v []float32) core.FeatureRecord {
	t.Helper()
	r, err := core.NewFeatureRecord(id, v)
	if err != nil {
		t.Fatalf("NewFeatureRecord: %v", err)
	}
	return r
}

func randomUnitRecords(t *testing.T, n, dim int, seed int64) []core.FeatureRecord {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	out := make([]core.FeatureRecord, n)
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rnd.NormFloat64())
		}
		_ = core.Normalize(v)
		out[i] = mkRecord(t, idOf(i), v)
	}
	return out
}

func idOf(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "v0"
	}
	s := ""
	for i > 0 {
		s = string(digits[i%10]) + s
		i /= 10
	}
	return "v" + s
}

// Property 12: LSH bucket count. Sum of bucket sizes in any one table
// equals N.
func TestBucketCountEqualsN(t *testing.T) {
	os.Setenv("CBIR_SEED", "123")
	defer os.Unsetenv("CBIR_SEED")

	records := randomUnitRecords(t, 100, 8, 1)
	idx := New(4, 4)
	if err := idx.Build(records); err != nil {
		t.Fatal(err)
	}
	tables := *idx.tables.Load()
	for i, tbl := range tables {
		if got := tbl.totalRecords(); got != len(records) {
			t.Errorf("table %d: total records = %d; want %d", i, got, len(records))
		}
	}
}

// S5: LSH(L=4,K=4) on 100 random unit vectors in R^8, queried with a
// member's own vector, returns that member among candidates with high
// probability.
func TestSelfMembershipAcrossSeeds(t *testing.T) {
	hits := 0
	const trials = 20
	for seed := int64(0); seed < trials; seed++ {
		records := randomUnitRecords(t, 100, 8, seed)
		idx := New(4, 4)
		idx.seed = seed
		if err := idx.Build(records); err != nil {
			t.Fatal(err)
		}
		target := records[0]
		got, err := idx.Query(target.Vector(), 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) == 1 && got[0].ID() == target.ID() {
			hits++
		}
	}
	if hits < trials-1 {
		t.Errorf("self-membership recall too low: %d/%d trials", hits, trials)
	}
}

// Property 7: query determinism under a fixed seed.
func TestQueryDeterminism(t *testing.T) {
	records := randomUnitRecords(t, 50, 6, 99)
	idxA := New(4, 4)
	idxA.seed = 555
	idxB := New(4, 4)
	idxB.seed = 555
	if err := idxA.Build(records); err != nil {
		t.Fatal(err)
	}
	if err := idxB.Build(records); err != nil {
		t.Fatal(err)
	}
	q := records[3].Vector()
	gotA, err := idxA.Query(q, 5)
	if err != nil {
		t.Fatal(err)
	}
	gotB, err := idxB.Query(q, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotA) != len(gotB) {
		t.Fatalf("result length mismatch: %d vs %d", len(gotA), len(gotB))
	}
	for i := range gotA {
		if gotA[i].ID() != gotB[i].ID() {
			t.Errorf("result %d differs: %s vs %s", i, gotA[i].ID(), gotB[i].ID())
		}
	}
}

func TestQueryRequiresBuild(t *testing.T) {
	idx := New(0, 0)
	_, err := idx.Query([]float32{1, 2}, 1)
	if !errors.Is(err, core.ErrIndexNotReady) {
		t.Errorf("expected ErrIndexNotReady, got %v", err)
	}
}

func TestQueryEmptyCandidates(t *testing.T) {
	idx := New(1, 1)
	records := []core.FeatureRecord{mkRecord(t, "a", []float32{1, 0})}
	if err := idx.Build(records); err != nil {
		t.Fatal(err)
	}
	got, err := idx.Query([]float32{-1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	_ = got // either empty or a near candidate depending on hash collision; must not error
}

func TestBuildDimensionMismatch(t *testing.T) {
	idx := New(0, 0)
	records := []core.FeatureRecord{
		mkRecord(t, "a", []float32{1, 2}),
		mkRecord(t, "b", []float32{1, 2, 3}),
	}
	if err := idx.Build(records); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
