package wfc

import (
	"math"

	"github.com/matzehuels/ascent/pkg/core/rules"
)

// Entropy returns the weighted Shannon entropy of a domain:
//
//	log2(Σw) - Σ(w·log2 w) / Σw
//
// Non-positive weights are skipped. An empty domain has zero entropy, as
// does a domain of one category.
func Entropy(domain []rules.Category, weights map[rules.Category]float64) float64 {
	var sum, wlog float64
	for _, c := range domain {
		w := weights[c]
		if w <= 0 {
			continue
		}
		sum += w
		wlog += w * math.Log2(w)
	}
	if sum <= 0 {
		return 0
	}
	return math.Log2(sum) - wlog/sum
}
