// Package generator picks trainer targets.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces randomized target selections.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects a target uniformly. It reports false when targets is empty.
func (g *Generator) Pick(targets []string) (string, bool) {
	if len(targets) == 0 {
		return "", false
	}
	return targets[g.rnd.Intn(len(targets))], true
}

// PickWeighted selects a target with a bias toward slow or missed targets. Each
// target weighs 1 plus factor times its weakness score; unknown targets weigh 1.
func (g *Generator) PickWeighted(targets []string, weakness map[string]float64, factor float64) (string, bool) {
	if len(targets) == 0 {
		return "", false
	}
	weights := make([]float64, len(targets))
	total := 0.0
	for i, target := range targets {
		w := 1.0 + weakness[target]*factor
		if w < 1 {
			w = 1
		}
		weights[i] = w
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return targets[i], true
		}
	}
	return targets[len(targets)-1], true
}
