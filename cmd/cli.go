// Package cmd holds the demo command-line entry point. It is not part
// of the core retrieval engine (spec §1 places CLI wrappers out of
// scope) — it exists only to give a reader a runnable illustration of
// building and querying each index strategy, and a real call site for
// github.com/schollz/progressbar/v3.
package cmd

import (
	"fmt"
	"math/rand"

	"github.com/schollz/progressbar/v3"

	"github.com/patrikhermansson/cbir/balltree"
	"github.com/patrikhermansson/cbir/core"
	"github.com/patrikhermansson/cbir/kdtree"
	"github.com/patrikhermansson/cbir/linear"
	"github.com/patrikhermansson/cbir/lsh"
)

// Execute builds a small synthetic dataset, indexes it with every
// strategy, and reports each strategy's top-1 recall of its own
// vectors to stdout.
func Execute() {
	const n = 2000
	const dim = 32

	records := make([]core.FeatureRecord, n)
	rnd := rand.New(rand.NewSource(core.GetSeed()))
	bar := progressbar.Default(int64(n))
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rnd.NormFloat64())
		}
		r, err := core.NewFeatureRecord(fmt.Sprintf("img-%d", i), v)
		if err != nil {
			panic(err)
		}
		records[i] = r
		_ = bar.Add(1)
	}

	strategies := map[string]interface {
		core.Buildable
		core.Searchable
	}{
		"linear (exact)": linear.New(),
		"kd-tree (bbf)":  kdtree.New(1000, false),
		"ball-tree":      balltree.New(50),
		"lsh":            lsh.New(10, 8),
	}

	for name, idx := range strategies {
		if err := idx.Build(records); err != nil {
			fmt.Printf("%-16s build error: %v\n", name, err)
			continue
		}
		hits := 0
		for _, r := range records {
			got, err := idx.Query(r.Vector(), 1)
			if err == nil && len(got) == 1 && got[0].ID() == r.ID() {
				hits++
			}
		}
		fmt.Printf("%-16s top-1 self-recall: %d/%d\n", name, hits, n)
	}
}
