package logits

import "math/rand"

// Selector turns a transformed score vector into exactly one token id. It
// is pure given the scores and its random source: the only state it carries
// is the seeded rng used for stochastic draws.
type Selector struct {
	rng    *rand.Rand
	sample bool
}

// NewSelector returns a Selector. When sample is false selection is a
// deterministic argmax; otherwise one token is drawn from the categorical
// distribution defined by the softmax of the scores, using a source seeded
// with seed.
func NewSelector(sample bool, seed int64) *Selector {
	return &Selector{
		rng:    rand.New(rand.NewSource(seed)),
		sample: sample,
	}
}

// Pick selects the next token id from scores.
func (s *Selector) Pick(scores []float32) (int, error) {
	if s.sample {
		return s.draw(scores)
	}
	return Argmax(scores)
}

func (s *Selector) draw(scores []float32) (int, error) {
	probs := Softmax(scores)
	r := s.rng.Float64()
	var cum float64
	last := -1
	for i, p := range probs {
		if p == 0 {
			continue
		}
		last = i
		cum += p
		if r <= cum {
			return i, nil
		}
	}
	// Rounding can leave a sliver of mass unassigned; fall back to the
	// last viable candidate.
	if last >= 0 {
		return last, nil
	}
	return 0, ErrInvalidDistribution
}

// Argmax returns the index of the maximum score. Ties resolve to the
// lowest index so greedy decoding is reproducible.
func Argmax(scores []float32) (int, error) {
	best := -1
	bestV := negInf
	for i, v := range scores {
		if v > bestV {
			bestV = v
			best = i
		}
	}
	if best < 0 {
		return 0, ErrInvalidDistribution
	}
	return best, nil
}
