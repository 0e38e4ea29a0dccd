package summary

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/syedshahzad7/diabetes-visualization/internal/dataset"
)

// DefaultBalanceCap bounds the positives kept by Balance.
const DefaultBalanceCap = 8500

// Balance returns a class-balanced copy of ds: the first min(positives, limit)
// positive records in file order, followed by min(negatives, kept positives)
// negative records sampled with sampleScore. The result is deterministic.
func Balance(ds *dataset.Dataset, limit int) (*dataset.Dataset, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}

	labels := ds.Frame.Col(LabelColumn)

	var positives, negatives []int
	for i := 0; i < labels.Len(); i++ {
		switch classify(labels.Elem(i)) {
		case classPositive:
			positives = append(positives, i)
		case classNegative:
			negatives = append(negatives, i)
		}
	}

	keepPositive := min(len(positives), max(limit, 0))
	keepNegative := min(len(negatives), keepPositive)

	type scored struct {
		row   int
		score float64
	}
	sampled := make([]scored, len(negatives))
	for i, row := range negatives {
		sampled[i] = scored{row: row, score: sampleScore(i)}
	}
	sort.SliceStable(sampled, func(i, j int) bool {
		return sampled[i].score < sampled[j].score
	})

	idx := make([]int, 0, keepPositive+keepNegative)
	idx = append(idx, positives[:keepPositive]...)
	for _, s := range sampled[:keepNegative] {
		idx = append(idx, s.row)
	}

	log.Debug().
		Int("positives", len(positives)).
		Int("negatives", len(negatives)).
		Int("kept_positive", keepPositive).
		Int("kept_negative", keepNegative).
		Msg("Dataset balanced")

	return ds.Rows(idx)
}

// sampleScore is a reproducible pseudo-random score in [0, 1) for the i-th
// negative record.
func sampleScore(i int) float64 {
	x := math.Sin(float64(i+1)*7919) * 10000
	return x - math.Floor(x)
}
